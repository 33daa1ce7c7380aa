package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"avoidxray/internal/models"
)

// Review actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// PendingItem is one queue entry, enriched with the backing resource's
// display fields and the submitter's public profile.
type PendingItem struct {
	SubmissionID  string               `json:"submission_id"`
	ResourceID    string               `json:"id"`
	Name          string               `json:"name"`
	Brand         *string              `json:"brand"`
	ImageURL      *string              `json:"image_url"`
	Description   interface{}          `json:"description"`
	OriginalImage *string              `json:"original_image"`
	OriginalData  models.JSONB         `json:"original_data"`
	ProposedData  models.JSONB         `json:"proposed_data"`
	ChangesCount  int                  `json:"changes_count"`
	SubmittedAt   time.Time            `json:"submitted_at"`
	User          models.PublicProfile `json:"user"`
}

// PendingQueue groups pending submissions by resource kind
type PendingQueue struct {
	Cameras    []PendingItem `json:"cameras"`
	FilmStocks []PendingItem `json:"film_stocks"`
	Total      int           `json:"total"`
}

// PendingSubmissions lists all pending submissions, newest first, split by
// resource kind. Submissions whose backing resource has since been deleted
// still appear, named "Unknown"; the review call surfaces the missing
// resource to the operator.
func (s *ModerationService) PendingSubmissions(ctx context.Context) (*PendingQueue, error) {
	var submissions []models.ModerationSubmission
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.SubmissionStatusPending).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending submissions: %w", err)
	}

	queue := &PendingQueue{
		Cameras:    []PendingItem{},
		FilmStocks: []PendingItem{},
	}

	for i := range submissions {
		sub := &submissions[i]
		kind, ok := KindFor(sub.ResourceType)
		if !ok {
			continue
		}

		item := PendingItem{
			SubmissionID:  sub.ID,
			ResourceID:    sub.ResourceID,
			Name:          "Unknown",
			ImageURL:      sub.ProposedImage,
			Description:   sub.ProposedData["description"],
			OriginalImage: sub.OriginalImage,
			OriginalData:  sub.OriginalData,
			ProposedData:  sub.ProposedData,
			ChangesCount:  ChangesCount(sub),
			SubmittedAt:   sub.CreatedAt,
		}

		if resource, err := kind.Load(s.db, sub.ResourceID); err == nil {
			item.Name = resource.GetName()
			item.Brand = resource.GetBrand()
		}

		var uploader models.User
		if err := s.db.Where("id = ?", sub.SubmittedBy).First(&uploader).Error; err == nil {
			item.User = uploader.Public()
		} else {
			item.User = models.PublicProfile{ID: sub.SubmittedBy, Username: "Unknown"}
		}

		switch sub.ResourceType {
		case models.ResourceTypeCamera:
			queue.Cameras = append(queue.Cameras, item)
		case models.ResourceTypeFilmStock:
			queue.FilmStocks = append(queue.FilmStocks, item)
		}
	}

	queue.Total = len(queue.Cameras) + len(queue.FilmStocks)
	return queue, nil
}

// Review approves or rejects a pending submission. The pending-status
// precondition is enforced with a conditional update inside the transaction,
// so concurrent reviews of the same submission resolve to exactly one
// winner; the loser observes a ValidationError.
func (s *ModerationService) Review(ctx context.Context, kind *ResourceKind, submissionID, reviewerID, action string, editedFields map[string]string) (string, error) {
	if action != ActionApprove && action != ActionReject {
		return "", validationf("Invalid action")
	}

	var sub models.ModerationSubmission
	if err := s.db.Where("id = ? AND resource_type = ?", submissionID, kind.Name).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if sub.Status != models.SubmissionStatusPending {
		return "", validationf("Submission already processed")
	}

	newStatus := models.SubmissionStatusApproved
	if action == ActionReject {
		newStatus = models.SubmissionStatusRejected
	}

	now := time.Now()
	var staleImageURL string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// One-shot claim: the WHERE on status is the concurrency gate.
		claim := tx.Model(&models.ModerationSubmission{}).
			Where("id = ? AND status = ?", sub.ID, models.SubmissionStatusPending).
			Updates(map[string]interface{}{
				"status":      newStatus,
				"reviewed_by": reviewerID,
				"reviewed_at": now,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return validationf("Submission already processed")
		}

		if action == ActionReject {
			return nil
		}

		resource, err := kind.Load(tx, sub.ResourceID)
		if err != nil {
			return err
		}

		// Reviewer overrides apply per key; only fields originally proposed
		// are eligible.
		finalData := make(map[string]interface{}, len(sub.ProposedData))
		for field, value := range sub.ProposedData {
			finalData[field] = value
		}
		for field, value := range editedFields {
			if _, proposed := sub.ProposedData[field]; proposed {
				finalData[field] = value
			}
		}

		update := make(map[string]interface{}, len(finalData)+4)
		for field, value := range finalData {
			column, known := kind.Columns[field]
			if !known {
				continue
			}
			update[column] = coerceValue(kind, field, value)
		}

		if sub.ProposedImage != nil {
			if current := resource.GetImageURL(); current != nil {
				staleImageURL = *current
			}
			update["image_url"] = *sub.ProposedImage
			update["image_uploaded_by"] = sub.SubmittedBy
			update["image_uploaded_at"] = now
		}
		update["image_status"] = models.ImageStatusApproved

		return tx.Model(kind.Model()).Where("id = ?", sub.ResourceID).Updates(update).Error
	})
	if err != nil {
		return "", err
	}

	// Storage cleanup happens after the terminal transition commits; a
	// failed delete only leaves an orphaned object.
	if action == ActionApprove {
		if staleImageURL != "" {
			s.removeObject(ctx, staleImageURL)
		}
		return fmt.Sprintf("%s edit approved and changes applied", kind.DisplayName), nil
	}

	if sub.ProposedImage != nil {
		s.removeObject(ctx, *sub.ProposedImage)
	}
	return fmt.Sprintf("%s edit rejected. Original data preserved.", kind.DisplayName), nil
}
