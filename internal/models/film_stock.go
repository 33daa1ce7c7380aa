package models

import (
	"time"
)

// FilmStock represents a film stock in the shared community catalog
type FilmStock struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Brand           *string    `gorm:"size:255" json:"brand,omitempty"`
	Description     *string    `gorm:"type:text" json:"description,omitempty"`
	FilmType        *string    `gorm:"size:100" json:"film_type,omitempty"`
	Format          *string    `gorm:"size:100" json:"format,omitempty"`
	Process         *string    `gorm:"size:100" json:"process,omitempty"`
	Exposures       *string    `gorm:"size:100" json:"exposures,omitempty"`
	ISO             *int       `json:"iso,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	ImageStatus     string     `gorm:"size:20;default:none" json:"image_status,omitempty"`
	ImageUploadedBy *string    `gorm:"type:uuid" json:"image_uploaded_by,omitempty"`
	ImageUploadedAt *time.Time `json:"image_uploaded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for FilmStock model
func (FilmStock) TableName() string {
	return "film_stocks"
}

func (f *FilmStock) GetID() string               { return f.ID }
func (f *FilmStock) GetName() string             { return f.Name }
func (f *FilmStock) GetBrand() *string           { return f.Brand }
func (f *FilmStock) GetImageURL() *string        { return f.ImageURL }
func (f *FilmStock) GetImageUploadedBy() *string { return f.ImageUploadedBy }

// FieldValue returns the current value of a moderatable field by its API name.
func (f *FilmStock) FieldValue(field string) interface{} {
	switch field {
	case "description":
		return strOrNil(f.Description)
	case "filmType":
		return strOrNil(f.FilmType)
	case "format":
		return strOrNil(f.Format)
	case "process":
		return strOrNil(f.Process)
	case "exposures":
		return strOrNil(f.Exposures)
	case "iso":
		return intOrNil(f.ISO)
	}
	return nil
}

// CanDeleteImage reports whether a user may remove the film stock's image.
// Film stocks have no owner row, so the policy is admin-or-original-uploader.
func (f *FilmStock) CanDeleteImage(userID string, isAdmin bool) bool {
	return isAdmin || (f.ImageUploadedBy != nil && *f.ImageUploadedBy == userID)
}
