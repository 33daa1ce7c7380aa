package models

import (
	"time"
)

// Image moderation statuses shared by Camera and FilmStock
const (
	ImageStatusNone     = "none"
	ImageStatusPending  = "pending"
	ImageStatusApproved = "approved"
	ImageStatusRejected = "rejected"
)

// Camera represents a camera model in the shared community catalog
type Camera struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Brand           *string    `gorm:"size:255" json:"brand,omitempty"`
	UserID          *string    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Description     *string    `gorm:"type:text" json:"description,omitempty"`
	CameraType      *string    `gorm:"size:100" json:"camera_type,omitempty"`
	Format          *string    `gorm:"size:100" json:"format,omitempty"`
	MountType       *string    `gorm:"size:100" json:"mount_type,omitempty"`
	Year            *int       `json:"year,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	ImageStatus     string     `gorm:"size:20;default:none" json:"image_status,omitempty"`
	ImageUploadedBy *string    `gorm:"type:uuid" json:"image_uploaded_by,omitempty"`
	ImageUploadedAt *time.Time `json:"image_uploaded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Camera model
func (Camera) TableName() string {
	return "cameras"
}

func (c *Camera) GetID() string               { return c.ID }
func (c *Camera) GetName() string             { return c.Name }
func (c *Camera) GetBrand() *string           { return c.Brand }
func (c *Camera) GetImageURL() *string        { return c.ImageURL }
func (c *Camera) GetImageUploadedBy() *string { return c.ImageUploadedBy }

// FieldValue returns the current value of a moderatable field by its API name.
func (c *Camera) FieldValue(field string) interface{} {
	switch field {
	case "description":
		return strOrNil(c.Description)
	case "cameraType":
		return strOrNil(c.CameraType)
	case "format":
		return strOrNil(c.Format)
	case "mountType":
		return strOrNil(c.MountType)
	case "year":
		return intOrNil(c.Year)
	}
	return nil
}

// CanDeleteImage reports whether a user may remove the camera's image.
// Cameras carry a creator, so the policy is owner-or-admin.
func (c *Camera) CanDeleteImage(userID string, isAdmin bool) bool {
	return isAdmin || (c.UserID != nil && *c.UserID == userID)
}

func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}
