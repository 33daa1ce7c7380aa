package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"avoidxray/internal/auth"
	"avoidxray/internal/models"
)

// CatalogHandler exposes browse/create endpoints for the shared camera and
// film stock catalog. Public listings only show image and description for
// approved entries.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// GetCameras returns all cameras with public sanitization
func (h *CatalogHandler) GetCameras(c *gin.Context) {
	var cameras []models.Camera
	if err := h.db.Order("name ASC").Find(&cameras).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch cameras"})
		return
	}

	for i := range cameras {
		sanitizeCamera(&cameras[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cameras,
		"count":   len(cameras),
	})
}

// CreateCamera creates a new camera catalog entry
func (h *CatalogHandler) CreateCamera(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var req struct {
		Name       string  `json:"name" binding:"required"`
		Brand      *string `json:"brand"`
		CameraType *string `json:"camera_type"`
		Format     *string `json:"format"`
		MountType  *string `json:"mount_type"`
		Year       *string `json:"year"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var year *int
	if req.Year != nil && *req.Year != "" {
		n, err := strconv.Atoi(*req.Year)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid year value"})
			return
		}
		year = &n
	}

	camera := models.Camera{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Brand:       req.Brand,
		UserID:      &userID,
		CameraType:  req.CameraType,
		Format:      req.Format,
		MountType:   req.MountType,
		Year:        year,
		ImageStatus: h.initialStatus(userID),
	}
	if err := h.db.Create(&camera).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create camera"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    camera,
	})
}

// GetFilmStocks returns all film stocks with public sanitization
func (h *CatalogHandler) GetFilmStocks(c *gin.Context) {
	var films []models.FilmStock
	if err := h.db.Order("name ASC").Find(&films).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch film stocks"})
		return
	}

	for i := range films {
		sanitizeFilmStock(&films[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    films,
		"count":   len(films),
	})
}

// CreateFilmStock creates a new film stock catalog entry
func (h *CatalogHandler) CreateFilmStock(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var req struct {
		Name      string  `json:"name" binding:"required"`
		Brand     *string `json:"brand"`
		FilmType  *string `json:"film_type"`
		Format    *string `json:"format"`
		Process   *string `json:"process"`
		Exposures *string `json:"exposures"`
		ISO       *string `json:"iso"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var iso *int
	if req.ISO != nil && *req.ISO != "" {
		n, err := strconv.Atoi(*req.ISO)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid iso value"})
			return
		}
		iso = &n
	}

	film := models.FilmStock{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Brand:       req.Brand,
		FilmType:    req.FilmType,
		Format:      req.Format,
		Process:     req.Process,
		Exposures:   req.Exposures,
		ISO:         iso,
		ImageStatus: h.initialStatus(userID),
	}
	if err := h.db.Create(&film).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create film stock"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    film,
	})
}

// initialStatus marks admin-created entries approved so their description
// shows up in public listings immediately.
func (h *CatalogHandler) initialStatus(userID string) string {
	var user models.User
	if err := h.db.Select("is_admin").Where("id = ?", userID).First(&user).Error; err == nil && user.IsAdmin {
		return models.ImageStatusApproved
	}
	return models.ImageStatusNone
}

// sanitizeCamera suppresses unapproved image and description from public
// reads and hides moderation bookkeeping fields.
func sanitizeCamera(camera *models.Camera) {
	if camera.ImageStatus != models.ImageStatusApproved {
		camera.ImageURL = nil
		camera.Description = nil
	}
	camera.ImageStatus = ""
	camera.ImageUploadedBy = nil
	camera.ImageUploadedAt = nil
}

func sanitizeFilmStock(film *models.FilmStock) {
	if film.ImageStatus != models.ImageStatusApproved {
		film.ImageURL = nil
		film.Description = nil
	}
	film.ImageStatus = ""
	film.ImageUploadedBy = nil
	film.ImageUploadedAt = nil
}
