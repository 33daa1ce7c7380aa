package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"avoidxray/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Camera{},
		&models.FilmStock{},
		&models.ModerationSubmission{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

// fakeStore is an in-memory ObjectStore that records uploads and removals.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "https://cdn.test/gallery/" + key, nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeStore) removedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

// fakeNotifier records notifications on a channel so tests can wait for the
// fire-and-forget goroutine.
type fakeNotifier struct {
	calls chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan string, 8)}
}

func (f *fakeNotifier) NotifyModeration(_ context.Context, resourceType, resourceName string, _ *string, _, _ string) error {
	f.calls <- resourceType + ":" + resourceName
	return nil
}

func identityProcessor(data []byte) ([]byte, error) {
	return data, nil
}

func newTestModerationService(t *testing.T) (*ModerationService, *gorm.DB, *fakeStore, *fakeNotifier) {
	db := setupTestDB(t)
	store := newFakeStore()
	notifier := newFakeNotifier()
	service := NewModerationService(db, store, notifier, identityProcessor, 10*1024*1024)
	return service, db, store, notifier
}

func createTestUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) *models.User {
	user := models.User{
		ID:           uuid.NewString(),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		IsAdmin:      isAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createTestCamera(t *testing.T, db *gorm.DB, camera *models.Camera) *models.Camera {
	if camera.ID == "" {
		camera.ID = uuid.NewString()
	}
	if camera.ImageStatus == "" {
		camera.ImageStatus = models.ImageStatusNone
	}
	if err := db.Create(camera).Error; err != nil {
		t.Fatalf("failed to create camera: %v", err)
	}
	return camera
}

func createTestFilmStock(t *testing.T, db *gorm.DB, film *models.FilmStock) *models.FilmStock {
	if film.ID == "" {
		film.ID = uuid.NewString()
	}
	if film.ImageStatus == "" {
		film.ImageStatus = models.ImageStatusNone
	}
	if err := db.Create(film).Error; err != nil {
		t.Fatalf("failed to create film stock: %v", err)
	}
	return film
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }
