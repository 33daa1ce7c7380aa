package services

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"avoidxray/internal/models"
	"avoidxray/internal/storage"
)

// Resource abstracts the two moderatable catalog entity kinds. Camera and
// FilmStock share the moderation workflow but differ in field schema,
// validators and delete-permission policy.
type Resource interface {
	GetID() string
	GetName() string
	GetBrand() *string
	GetImageURL() *string
	GetImageUploadedBy() *string
	FieldValue(field string) interface{}
	CanDeleteImage(userID string, isAdmin bool) bool
}

// ResourceKind parameterizes the moderation engine per catalog entity kind:
// field list, validators, storage folder and database accessors.
type ResourceKind struct {
	Name        string // discriminator stored on submissions: camera, filmstock
	DisplayName string
	Folder      string // object storage folder for canonical image keys

	// Categorization fields; description is implicit for every kind.
	Fields     []string
	Validators map[string]func(string) bool

	// Fields coerced from string to integer when merged into the resource.
	NumericFields map[string]bool

	// API field name -> database column, for targeted update maps.
	Columns map[string]string

	Load  func(db *gorm.DB, id string) (Resource, error)
	Model func() interface{}
}

// CameraKind configures moderation for the camera catalog
var CameraKind = &ResourceKind{
	Name:        models.ResourceTypeCamera,
	DisplayName: "Camera",
	Folder:      storage.FolderCameras,
	Fields:      []string{"cameraType", "format", "mountType", "year"},
	Validators: map[string]func(string) bool{
		"year": ValidYear,
	},
	NumericFields: map[string]bool{"year": true},
	Columns: map[string]string{
		"description": "description",
		"cameraType":  "camera_type",
		"format":      "format",
		"mountType":   "mount_type",
		"year":        "year",
	},
	Load: func(db *gorm.DB, id string) (Resource, error) {
		var camera models.Camera
		if err := db.Where("id = ?", id).First(&camera).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &camera, nil
	},
	Model: func() interface{} { return &models.Camera{} },
}

// FilmStockKind configures moderation for the film stock catalog
var FilmStockKind = &ResourceKind{
	Name:        models.ResourceTypeFilmStock,
	DisplayName: "Film stock",
	Folder:      storage.FolderFilmStocks,
	Fields:      []string{"filmType", "format", "process", "exposures", "iso"},
	Validators: map[string]func(string) bool{
		"iso": ValidISO,
	},
	NumericFields: map[string]bool{"iso": true},
	Columns: map[string]string{
		"description": "description",
		"filmType":    "film_type",
		"format":      "format",
		"process":     "process",
		"exposures":   "exposures",
		"iso":         "iso",
	},
	Load: func(db *gorm.DB, id string) (Resource, error) {
		var film models.FilmStock
		if err := db.Where("id = ?", id).First(&film).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &film, nil
	},
	Model: func() interface{} { return &models.FilmStock{} },
}

// KindFor resolves a resource type discriminator to its kind config
func KindFor(resourceType string) (*ResourceKind, bool) {
	switch resourceType {
	case models.ResourceTypeCamera:
		return CameraKind, true
	case models.ResourceTypeFilmStock:
		return FilmStockKind, true
	}
	return nil, false
}

// ValidYear accepts an integer between 1800 and the current year
func ValidYear(value string) bool {
	year, err := strconv.Atoi(value)
	return err == nil && year >= 1800 && year <= time.Now().Year()
}

// ValidISO accepts an integer between 1 and 100000
func ValidISO(value string) bool {
	iso, err := strconv.Atoi(value)
	return err == nil && iso >= 1 && iso <= 100000
}

// coerceValue converts numeric fields to integers before they are merged
// into a resource. Unparseable values degrade to nil (stored as NULL)
// instead of failing the merge.
func coerceValue(kind *ResourceKind, field string, value interface{}) interface{} {
	if !kind.NumericFields[field] {
		return value
	}
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil
		}
		return n
	}
	return nil
}
