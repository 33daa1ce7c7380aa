package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"avoidxray/internal/models"
	"avoidxray/internal/notify"
	"avoidxray/internal/storage"
)

// ObjectStore is the object-storage capability the moderation engine needs.
// Removals are always best-effort: a failed delete only leaks an orphaned
// blob, never a dangling reference.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// ImageProcessor normalizes raw uploaded bytes into the stored encoding
type ImageProcessor func(data []byte) ([]byte, error)

// ModerationService orchestrates community edits to catalog resources:
// validation, change detection, the admin fast-path, submission queueing
// and the review workflow.
type ModerationService struct {
	db             *gorm.DB
	store          ObjectStore
	notifier       notify.Notifier
	process        ImageProcessor
	maxUploadBytes int64
}

// NewModerationService creates a ModerationService
func NewModerationService(db *gorm.DB, store ObjectStore, notifier notify.Notifier, process ImageProcessor, maxUploadBytes int64) *ModerationService {
	return &ModerationService{
		db:             db,
		store:          store,
		notifier:       notifier,
		process:        process,
		maxUploadBytes: maxUploadBytes,
	}
}

// SubmitInput carries one proposed edit to a catalog resource
type SubmitInput struct {
	ResourceID string
	ActorID    string
	File       []byte
	FileType   string
	Fields     map[string]string
}

// SubmitResult reports the outcome of a submit call. Applied is true on the
// admin fast-path, where the resource was mutated immediately and no
// submission was queued.
type SubmitResult struct {
	Applied      bool
	Message      string
	SubmissionID string
	Resource     Resource
}

// Submit validates a proposed edit, detects changes against the current
// resource state and either applies it immediately (admin) or queues a
// pending submission for review (everyone else).
func (s *ModerationService) Submit(ctx context.Context, kind *ResourceKind, in SubmitInput) (*SubmitResult, error) {
	resource, err := kind.Load(s.db, in.ResourceID)
	if err != nil {
		return nil, err
	}

	var actor models.User
	if err := s.db.Where("id = ?", in.ActorID).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	// Trim values and collapse empty strings to absent; run validators
	// before the admin/non-admin branch so both roles get the same checks.
	provided := make(map[string]string)
	if value, ok := sanitize(in.Fields["description"]); ok {
		provided["description"] = value
	}
	for _, field := range kind.Fields {
		value, ok := sanitize(in.Fields[field])
		if !ok {
			continue
		}
		if validator, has := kind.Validators[field]; has && !validator(value) {
			return nil, validationf("Invalid %s value", field)
		}
		provided[field] = value
	}

	if len(in.File) > 0 {
		if !strings.HasPrefix(in.FileType, "image/") {
			return nil, validationf("File must be an image")
		}
		if int64(len(in.File)) > s.maxUploadBytes {
			return nil, validationf("Image must be smaller than %dMB", s.maxUploadBytes/(1024*1024))
		}
	}

	// Change detection via the shared predicate
	changed := models.JSONB{}
	for field, value := range provided {
		if FieldChanged(resource.FieldValue(field), value) {
			changed[field] = value
		}
	}

	if len(in.File) == 0 && len(changed) == 0 {
		return nil, validationf("No changes detected. Please modify at least one field.")
	}

	// Normalize and upload the image before touching the database, so a
	// transform or storage failure leaves no partial state behind.
	var proposedImageURL *string
	if len(in.File) > 0 {
		processed, err := s.process(in.File)
		if err != nil {
			return nil, fmt.Errorf("failed to process image: %w", err)
		}

		var key string
		if actor.IsAdmin {
			key = storage.ImageKey(kind.Folder, resource.GetID())
		} else {
			key = storage.ModerationKey(kind.Name, resource.GetID())
		}

		url, err := s.store.Upload(ctx, key, processed, "image/png")
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		proposedImageURL = &url
	}

	// Snapshot pre-submit values over the changed field set for diff display
	originalData := models.JSONB{}
	for field := range changed {
		originalData[field] = resource.FieldValue(field)
	}

	if actor.IsAdmin {
		return s.applyFastPath(ctx, kind, resource, &actor, changed, proposedImageURL)
	}

	submission := models.ModerationSubmission{
		ID:            uuid.NewString(),
		ResourceType:  kind.Name,
		ResourceID:    resource.GetID(),
		SubmittedBy:   actor.ID,
		Status:        models.SubmissionStatusPending,
		ProposedImage: proposedImageURL,
		ProposedData:  changed,
		OriginalImage: resource.GetImageURL(),
		OriginalData:  originalData,
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	// Fire-and-forget admin notification; a failure must never fail the
	// request.
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyModeration(notifyCtx, kind.Name, resource.GetName(), resource.GetBrand(), actor.Username, resource.GetID()); err != nil {
			log.Printf("Failed to send admin notification: %v", err)
		}
	}()

	return &SubmitResult{
		Message:      "Changes submitted successfully. Waiting for admin review.",
		SubmissionID: submission.ID,
	}, nil
}

// applyFastPath merges an admin's edit into the resource immediately. No
// submission is queued and no notification is sent.
func (s *ModerationService) applyFastPath(ctx context.Context, kind *ResourceKind, resource Resource, actor *models.User, changed models.JSONB, proposedImageURL *string) (*SubmitResult, error) {
	update := make(map[string]interface{}, len(changed)+4)
	for field, value := range changed {
		update[kind.Columns[field]] = coerceValue(kind, field, value)
	}

	var staleImageURL string
	if proposedImageURL != nil {
		if current := resource.GetImageURL(); current != nil {
			staleImageURL = *current
		}
		update["image_url"] = *proposedImageURL
		update["image_uploaded_by"] = actor.ID
		update["image_uploaded_at"] = time.Now()
	}
	update["image_status"] = models.ImageStatusApproved

	if err := s.db.Model(kind.Model()).Where("id = ?", resource.GetID()).Updates(update).Error; err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", kind.Name, err)
	}

	if staleImageURL != "" {
		s.removeObject(ctx, staleImageURL)
	}

	updated, err := kind.Load(s.db, resource.GetID())
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Applied:  true,
		Message:  "Changes saved and approved.",
		Resource: updated,
	}, nil
}

// DeleteImage removes a resource's image. Permission policy differs per
// kind: owner-or-admin for cameras, admin-or-original-uploader for film
// stocks.
func (s *ModerationService) DeleteImage(ctx context.Context, kind *ResourceKind, resourceID, actorID string) (Resource, error) {
	resource, err := kind.Load(s.db, resourceID)
	if err != nil {
		return nil, err
	}

	var actor models.User
	if err := s.db.Where("id = ?", actorID).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !resource.CanDeleteImage(actor.ID, actor.IsAdmin) {
		return nil, ErrForbidden
	}

	var staleImageURL string
	if current := resource.GetImageURL(); current != nil {
		staleImageURL = *current
	}

	update := map[string]interface{}{
		"image_url":         nil,
		"image_status":      models.ImageStatusNone,
		"image_uploaded_by": nil,
		"image_uploaded_at": nil,
	}
	if err := s.db.Model(kind.Model()).Where("id = ?", resourceID).Updates(update).Error; err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", kind.Name, err)
	}

	if staleImageURL != "" {
		s.removeObject(ctx, staleImageURL)
	}

	return kind.Load(s.db, resourceID)
}

// removeObject deletes an object behind a public URL, best-effort
func (s *ModerationService) removeObject(ctx context.Context, imageURL string) {
	key := storage.KeyFromURL(imageURL)
	if key == "" {
		log.Printf("Could not extract object key from %s", imageURL)
		return
	}
	if err := s.store.Remove(ctx, key); err != nil {
		log.Printf("Failed to delete object %s: %v", key, err)
	}
}

// sanitize trims an input value and collapses empty strings to absent
func sanitize(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	return trimmed, trimmed != ""
}
