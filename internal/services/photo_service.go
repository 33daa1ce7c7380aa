package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"avoidxray/internal/imageproc"
	"avoidxray/internal/models"
	"avoidxray/internal/storage"
)

// PhotoService handles photo uploads and the public feed
type PhotoService struct {
	db    *gorm.DB
	store ObjectStore
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(db *gorm.DB, store ObjectStore) *PhotoService {
	return &PhotoService{db: db, store: store}
}

// UploadInput carries one photo upload request
type UploadInput struct {
	UserID      string
	Files       [][]byte
	Caption     *string
	CameraID    *string
	FilmStockID *string
	TakenDate   *time.Time
	AsUserID    *string
}

// Upload processes each file into stored variants and creates photo rows.
// Admins may upload on behalf of another user via AsUserID.
func (s *PhotoService) Upload(ctx context.Context, in UploadInput) ([]models.Photo, error) {
	if len(in.Files) == 0 {
		return nil, validationf("No files")
	}

	var actor models.User
	if err := s.db.Where("id = ?", in.UserID).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	targetUserID := actor.ID
	if in.AsUserID != nil && *in.AsUserID != actor.ID {
		if !actor.IsAdmin {
			return nil, ErrForbidden
		}
		var target models.User
		if err := s.db.Where("id = ?", *in.AsUserID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		targetUserID = target.ID
	}

	// Invalid foreign keys are dropped silently rather than failing the
	// upload.
	cameraID := s.validCameraID(in.CameraID)
	filmStockID := s.validFilmStockID(in.FilmStockID)

	photos := make([]models.Photo, 0, len(in.Files))
	for _, file := range in.Files {
		set, err := imageproc.ProcessPhoto(file)
		if err != nil {
			return nil, validationf("Unsupported image file")
		}

		photoID := uuid.NewString()

		originalURL, err := s.store.Upload(ctx, storage.PhotoKey(photoID, "original"), set.Original, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}
		mediumURL, err := s.store.Upload(ctx, storage.PhotoKey(photoID, "medium"), set.Medium, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}
		thumbnailURL, err := s.store.Upload(ctx, storage.PhotoKey(photoID, "thumbnail"), set.Thumbnail, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}

		photo := models.Photo{
			ID:            photoID,
			UserID:        targetUserID,
			OriginalPath:  originalURL,
			MediumPath:    mediumURL,
			ThumbnailPath: thumbnailURL,
			Width:         set.Width,
			Height:        set.Height,
			Caption:       in.Caption,
			CameraID:      cameraID,
			FilmStockID:   filmStockID,
			TakenDate:     in.TakenDate,
			Published:     true,
		}
		if err := s.db.Create(&photo).Error; err != nil {
			return nil, fmt.Errorf("failed to create photo: %w", err)
		}
		photos = append(photos, photo)
	}

	return photos, nil
}

// FeedPage is one page of the public photo feed
type FeedPage struct {
	Photos     []FeedPhoto `json:"photos"`
	NextOffset *int        `json:"next_offset"`
}

// FeedPhoto enriches a photo with its like count
type FeedPhoto struct {
	models.Photo
	LikesCount int64 `json:"likes_count"`
}

// Feed returns a page of published photos, newest first. Limit is capped
// at 50.
func (s *PhotoService) Feed(ctx context.Context, limit, offset int) (*FeedPage, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var photos []models.Photo
	if err := s.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit + 1).
		Offset(offset).
		Preload("User").
		Preload("Camera").
		Preload("FilmStock").
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}

	hasMore := len(photos) > limit
	if hasMore {
		photos = photos[:limit]
	}

	page := &FeedPage{Photos: make([]FeedPhoto, 0, len(photos))}
	for i := range photos {
		var likes int64
		s.db.Model(&models.Like{}).Where("photo_id = ?", photos[i].ID).Count(&likes)
		page.Photos = append(page.Photos, FeedPhoto{Photo: photos[i], LikesCount: likes})
	}

	if hasMore {
		next := offset + limit
		page.NextOffset = &next
	}
	return page, nil
}

// ToggleLike likes a photo, or removes the like if one already exists.
// Returns the new liked state.
func (s *PhotoService) ToggleLike(userID, photoID string) (bool, error) {
	var photo models.Photo
	if err := s.db.Where("id = ?", photoID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	var existing models.Like
	err := s.db.Where("user_id = ? AND photo_id = ?", userID, photoID).First(&existing).Error
	if err == nil {
		if err := s.db.Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("failed to remove like: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	like := models.Like{UserID: userID, PhotoID: photoID}
	if err := s.db.Create(&like).Error; err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}
	return true, nil
}

func (s *PhotoService) validCameraID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	var camera models.Camera
	if err := s.db.Select("id").Where("id = ?", *id).First(&camera).Error; err != nil {
		return nil
	}
	return id
}

func (s *PhotoService) validFilmStockID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	var film models.FilmStock
	if err := s.db.Select("id").Where("id = ?", *id).First(&film).Error; err != nil {
		return nil
	}
	return id
}
