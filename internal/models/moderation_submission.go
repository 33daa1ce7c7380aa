package models

import (
	"time"
)

// Moderation submission statuses. Once a submission leaves pending it is
// immutable history and is never re-queued.
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// Resource type discriminators for moderation submissions
const (
	ResourceTypeCamera    = "camera"
	ResourceTypeFilmStock = "filmstock"
)

// ModerationSubmission represents one community edit proposal for a catalog
// resource. ProposedData holds only the fields the submitter actually changed;
// OriginalData snapshots the same field set at submission time so reviewers
// can see a before/after diff even if the resource changes underneath.
type ModerationSubmission struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceType  string     `gorm:"size:20;not null;index" json:"resource_type"` // camera, filmstock
	ResourceID    string     `gorm:"type:uuid;not null;index" json:"resource_id"`
	SubmittedBy   string     `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Status        string     `gorm:"size:20;default:pending;index" json:"status"` // pending, approved, rejected
	ProposedImage *string    `json:"proposed_image,omitempty"`
	ProposedData  JSONB      `gorm:"type:jsonb" json:"proposed_data"`
	OriginalImage *string    `json:"original_image,omitempty"`
	OriginalData  JSONB      `gorm:"type:jsonb" json:"original_data"`
	CreatedAt     time.Time  `json:"created_at"`
	ReviewedBy    *string    `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// TableName specifies the table name for ModerationSubmission model
func (ModerationSubmission) TableName() string {
	return "moderation_submissions"
}
