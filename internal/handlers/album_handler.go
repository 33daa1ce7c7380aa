package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"avoidxray/internal/auth"
	"avoidxray/internal/models"
)

// AlbumHandler exposes album CRUD
type AlbumHandler struct {
	db *gorm.DB
}

func NewAlbumHandler(db *gorm.DB) *AlbumHandler {
	return &AlbumHandler{db: db}
}

// GetAlbums returns the authenticated user's albums
func (h *AlbumHandler) GetAlbums(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var albums []models.Album
	if err := h.db.Where("user_id = ?", userID).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Limit(4)
		}).
		Preload("Photos.Photo").
		Order("created_at DESC").
		Find(&albums).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch albums"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    albums,
	})
}

// CreateAlbum creates a new album, optionally seeding it with photos
func (h *AlbumHandler) CreateAlbum(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var req struct {
		Name        string   `json:"name"`
		Description *string  `json:"description"`
		Public      bool     `json:"public"`
		PhotoIDs    []string `json:"photo_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Album name is required"})
		return
	}

	album := models.Album{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		Public:      req.Public,
	}
	for i, photoID := range req.PhotoIDs {
		album.Photos = append(album.Photos, models.AlbumPhoto{
			PhotoID: photoID,
			Order:   i,
		})
	}

	if err := h.db.Create(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create album"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    album,
	})
}

// GetAlbum returns a single album. Private albums are only visible to their
// owner.
func (h *AlbumHandler) GetAlbum(c *gin.Context) {
	var album models.Album
	if err := h.db.Where("id = ?", c.Param("id")).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Photos.Photo").
		First(&album).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Album not found"})
		return
	}

	if !album.Public {
		userID, ok := auth.GetUserID(c)
		if !ok || userID != album.UserID {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Album not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    album,
	})
}
