package models

import (
	"time"
)

// Album represents a user-curated collection of photos
type Album struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`
	Public      bool         `gorm:"default:false" json:"public"`
	Photos      []AlbumPhoto `gorm:"foreignKey:AlbumID" json:"photos,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName specifies the table name for Album model
func (Album) TableName() string {
	return "albums"
}

// AlbumPhoto links a photo into an album with an explicit ordering
type AlbumPhoto struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	AlbumID string `gorm:"type:uuid;not null;uniqueIndex:idx_album_photo;index" json:"album_id"`
	PhotoID string `gorm:"type:uuid;not null;uniqueIndex:idx_album_photo" json:"photo_id"`
	Photo   *Photo `gorm:"foreignKey:PhotoID" json:"photo,omitempty"`
	Order   int    `gorm:"column:position;default:0" json:"order"`
}

// TableName specifies the table name for AlbumPhoto model
func (AlbumPhoto) TableName() string {
	return "album_photos"
}
