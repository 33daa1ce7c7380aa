package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"avoidxray/internal/models"
)

func TestSubmitRejectsNoOp(t *testing.T) {
	service, db, _, _ := newTestModerationService(t)
	user := createTestUser(t, db, "alice", false)
	camera := createTestCamera(t, db, &models.Camera{
		Name:        "OM-1",
		Brand:       strptr("Olympus"),
		Description: strptr("Compact SLR"),
		Year:        intptr(1972),
	})

	// Re-submitting the current values must not queue anything.
	_, err := service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    user.ID,
		Fields: map[string]string{
			"description": "Compact SLR",
			"year":        "1972",
		},
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "No changes detected. Please modify at least one field." {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var count int64
	db.Model(&models.ModerationSubmission{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no submissions, got %d", count)
	}
}

func TestSubmitWhitespaceOnlyIsNoOp(t *testing.T) {
	service, db, _, _ := newTestModerationService(t)
	user := createTestUser(t, db, "bob", false)
	camera := createTestCamera(t, db, &models.Camera{Name: "AE-1"})

	_, err := service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    user.ID,
		Fields:     map[string]string{"description": "   ", "mountType": "\t"},
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitQueuesForRegularUser(t *testing.T) {
	service, db, _, notifier := newTestModerationService(t)
	user := createTestUser(t, db, "carol", false)
	camera := createTestCamera(t, db, &models.Camera{
		Name:        "F3",
		Brand:       strptr("Nikon"),
		Description: strptr("Pro body"),
	})

	result, err := service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    user.ID,
		Fields: map[string]string{
			"description": "Professional 35mm SLR",
			"year":        "1980",
		},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Applied {
		t.Error("non-admin submission must not be applied immediately")
	}
	if result.SubmissionID == "" {
		t.Error("expected a submission id")
	}

	// The resource must be untouched until review.
	var fresh models.Camera
	if err := db.First(&fresh, "id = ?", camera.ID).Error; err != nil {
		t.Fatalf("failed to reload camera: %v", err)
	}
	if fresh.Description == nil || *fresh.Description != "Pro body" {
		t.Errorf("camera description mutated before review: %v", fresh.Description)
	}
	if fresh.Year != nil {
		t.Errorf("camera year mutated before review: %v", fresh.Year)
	}

	var sub models.ModerationSubmission
	if err := db.First(&sub, "id = ?", result.SubmissionID).Error; err != nil {
		t.Fatalf("failed to load submission: %v", err)
	}
	if sub.Status != models.SubmissionStatusPending {
		t.Errorf("expected pending status, got %s", sub.Status)
	}
	if sub.ResourceType != models.ResourceTypeCamera {
		t.Errorf("expected camera resource type, got %s", sub.ResourceType)
	}
	if sub.ProposedData["description"] != "Professional 35mm SLR" {
		t.Errorf("unexpected proposed description: %v", sub.ProposedData["description"])
	}
	// Original snapshot covers exactly the changed fields.
	if sub.OriginalData["description"] != "Pro body" {
		t.Errorf("unexpected original description: %v", sub.OriginalData["description"])
	}
	if v, ok := sub.OriginalData["year"]; !ok || v != nil {
		t.Errorf("expected original year nil snapshot, got %v (present=%v)", v, ok)
	}

	select {
	case call := <-notifier.calls:
		if call != "camera:F3" {
			t.Errorf("unexpected notification: %s", call)
		}
	case <-time.After(2 * time.Second):
		t.Error("expected an admin notification")
	}
}

func TestSubmitAdminFastPath(t *testing.T) {
	service, db, _, notifier := newTestModerationService(t)
	admin := createTestUser(t, db, "admin", true)
	camera := createTestCamera(t, db, &models.Camera{
		Name:  "M3",
		Brand: strptr("Leica"),
	})

	result, err := service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    admin.ID,
		Fields: map[string]string{
			"description": "Rangefinder classic",
			"mountType":   "Leica M",
			"year":        "1954",
		},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !result.Applied {
		t.Fatal("admin submission must apply immediately")
	}
	if result.Resource == nil {
		t.Fatal("expected updated resource in result")
	}

	var fresh models.Camera
	if err := db.First(&fresh, "id = ?", camera.ID).Error; err != nil {
		t.Fatalf("failed to reload camera: %v", err)
	}
	if fresh.Description == nil || *fresh.Description != "Rangefinder classic" {
		t.Errorf("description not applied: %v", fresh.Description)
	}
	if fresh.MountType == nil || *fresh.MountType != "Leica M" {
		t.Errorf("mount type not applied: %v", fresh.MountType)
	}
	if fresh.Year == nil || *fresh.Year != 1954 {
		t.Errorf("year not applied: %v", fresh.Year)
	}
	if fresh.ImageStatus != models.ImageStatusApproved {
		t.Errorf("expected approved image status, got %s", fresh.ImageStatus)
	}

	var count int64
	db.Model(&models.ModerationSubmission{}).Count(&count)
	if count != 0 {
		t.Errorf("admin fast-path must not queue a submission, got %d", count)
	}

	select {
	case call := <-notifier.calls:
		t.Errorf("admin fast-path must not notify, got %s", call)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubmitValidatorsApplyToAdmins(t *testing.T) {
	service, db, _, _ := newTestModerationService(t)
	admin := createTestUser(t, db, "root", true)
	user := createTestUser(t, db, "dave", false)
	camera := createTestCamera(t, db, &models.Camera{Name: "K1000"})
	film := createTestFilmStock(t, db, &models.FilmStock{Name: "Tri-X", Brand: strptr("Kodak")})

	for _, actor := range []*models.User{admin, user} {
		_, err := service.Submit(context.Background(), CameraKind, SubmitInput{
			ResourceID: camera.ID,
			ActorID:    actor.ID,
			Fields:     map[string]string{"year": "1500"},
		})
		if !IsValidation(err) || !strings.Contains(err.Error(), "year") {
			t.Errorf("actor %s: expected year validation error, got %v", actor.Username, err)
		}

		_, err = service.Submit(context.Background(), FilmStockKind, SubmitInput{
			ResourceID: film.ID,
			ActorID:    actor.ID,
			Fields:     map[string]string{"iso": "0"},
		})
		if !IsValidation(err) || !strings.Contains(err.Error(), "iso") {
			t.Errorf("actor %s: expected iso validation error, got %v", actor.Username, err)
		}
	}
}

func TestSubmitImageStagingKeys(t *testing.T) {
	service, db, store, _ := newTestModerationService(t)
	admin := createTestUser(t, db, "mod", true)
	user := createTestUser(t, db, "erin", false)
	camera := createTestCamera(t, db, &models.Camera{Name: "SRT-101"})

	result, err := service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    user.ID,
		File:       []byte("fake image bytes"),
		FileType:   "image/jpeg",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var sub models.ModerationSubmission
	if err := db.First(&sub, "id = ?", result.SubmissionID).Error; err != nil {
		t.Fatalf("failed to load submission: %v", err)
	}
	if sub.ProposedImage == nil || !strings.Contains(*sub.ProposedImage, "/moderation/camera/") {
		t.Errorf("non-admin image must land on a staging key, got %v", sub.ProposedImage)
	}

	// Admin uploads go straight to the canonical folder.
	_, err = service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    admin.ID,
		File:       []byte("fake image bytes"),
		FileType:   "image/png",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var fresh models.Camera
	if err := db.First(&fresh, "id = ?", camera.ID).Error; err != nil {
		t.Fatalf("failed to reload camera: %v", err)
	}
	if fresh.ImageURL == nil || !strings.Contains(*fresh.ImageURL, "/cameras/") {
		t.Errorf("admin image must land on the canonical key, got %v", fresh.ImageURL)
	}
	if fresh.ImageUploadedBy == nil || *fresh.ImageUploadedBy != admin.ID {
		t.Errorf("expected uploader %s, got %v", admin.ID, fresh.ImageUploadedBy)
	}

	if len(store.objects) != 2 {
		t.Errorf("expected 2 stored objects, got %d", len(store.objects))
	}
}

func TestSubmitRejectsBadFiles(t *testing.T) {
	service, db, _, _ := newTestModerationService(t)
	user := createTestUser(t, db, "frank", false)
	camera := createTestCamera(t, db, &models.Camera{Name: "Spotmatic"})

	_, err := service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    user.ID,
		File:       []byte("%PDF-1.4"),
		FileType:   "application/pdf",
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error for non-image, got %v", err)
	}

	small := NewModerationService(service.db, newFakeStore(), newFakeNotifier(), identityProcessor, 4)
	_, err = small.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    user.ID,
		File:       []byte("way too large"),
		FileType:   "image/png",
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error for oversized file, got %v", err)
	}
}

func TestSubmitUnknownResourceAndActor(t *testing.T) {
	service, db, _, _ := newTestModerationService(t)
	user := createTestUser(t, db, "grace", false)
	camera := createTestCamera(t, db, &models.Camera{Name: "X-700"})

	_, err := service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: "00000000-0000-0000-0000-000000000000",
		ActorID:    user.ID,
		Fields:     map[string]string{"description": "anything"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = service.Submit(context.Background(), CameraKind, SubmitInput{
		ResourceID: camera.ID,
		ActorID:    "00000000-0000-0000-0000-000000000000",
		Fields:     map[string]string{"description": "anything"},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDeleteCameraImagePermissions(t *testing.T) {
	service, db, store, _ := newTestModerationService(t)
	owner := createTestUser(t, db, "owner", false)
	stranger := createTestUser(t, db, "stranger", false)
	camera := createTestCamera(t, db, &models.Camera{
		Name:            "Trip 35",
		UserID:          &owner.ID,
		ImageURL:        strptr("https://cdn.test/gallery/cameras/trip-1.png"),
		ImageStatus:     models.ImageStatusApproved,
		ImageUploadedBy: &stranger.ID,
	})

	_, err := service.DeleteImage(context.Background(), CameraKind, camera.ID, stranger.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := service.DeleteImage(context.Background(), CameraKind, camera.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if updated.GetImageURL() != nil {
		t.Error("image URL not cleared")
	}

	var fresh models.Camera
	db.First(&fresh, "id = ?", camera.ID)
	if fresh.ImageStatus != models.ImageStatusNone {
		t.Errorf("expected image status none, got %s", fresh.ImageStatus)
	}
	if fresh.ImageUploadedBy != nil {
		t.Errorf("uploader not cleared: %v", fresh.ImageUploadedBy)
	}

	removed := store.removedKeys()
	if len(removed) != 1 || removed[0] != "cameras/trip-1.png" {
		t.Errorf("expected stale object removal, got %v", removed)
	}
}

func TestDeleteFilmStockImagePermissions(t *testing.T) {
	service, db, _, _ := newTestModerationService(t)
	uploader := createTestUser(t, db, "uploader", false)
	stranger := createTestUser(t, db, "other", false)
	admin := createTestUser(t, db, "boss", true)
	film := createTestFilmStock(t, db, &models.FilmStock{
		Name:            "Portra 400",
		Brand:           strptr("Kodak"),
		ImageURL:        strptr("https://cdn.test/gallery/filmstocks/portra-1.png"),
		ImageStatus:     models.ImageStatusApproved,
		ImageUploadedBy: &uploader.ID,
	})

	_, err := service.DeleteImage(context.Background(), FilmStockKind, film.ID, stranger.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	if _, err := service.DeleteImage(context.Background(), FilmStockKind, film.ID, uploader.ID); err != nil {
		t.Fatalf("uploader delete failed: %v", err)
	}

	// Admin may delete even with no uploader recorded.
	film2 := createTestFilmStock(t, db, &models.FilmStock{
		Name:     "HP5",
		ImageURL: strptr("https://cdn.test/gallery/filmstocks/hp5-1.png"),
	})
	if _, err := service.DeleteImage(context.Background(), FilmStockKind, film2.ID, admin.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}
