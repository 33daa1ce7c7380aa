package models

import (
	"time"
)

// Photo represents an uploaded photograph
type Photo struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OriginalPath  string     `gorm:"not null" json:"original_path"`
	MediumPath    string     `gorm:"not null" json:"medium_path"`
	ThumbnailPath string     `gorm:"not null" json:"thumbnail_path"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Caption       *string    `gorm:"type:text" json:"caption,omitempty"`
	CameraID      *string    `gorm:"type:uuid;index" json:"camera_id,omitempty"`
	Camera        *Camera    `gorm:"foreignKey:CameraID" json:"camera,omitempty"`
	FilmStockID   *string    `gorm:"type:uuid;index" json:"film_stock_id,omitempty"`
	FilmStock     *FilmStock `gorm:"foreignKey:FilmStockID" json:"film_stock,omitempty"`
	TakenDate     *time.Time `json:"taken_date,omitempty"`
	Published     bool       `gorm:"default:true;index" json:"published"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Photo model
func (Photo) TableName() string {
	return "photos"
}

// Like represents a user liking a photo
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_photo" json:"user_id"`
	PhotoID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_photo;index" json:"photo_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Like model
func (Like) TableName() string {
	return "likes"
}
