package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"avoidxray/internal/models"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// AdminMiddleware checks if the authenticated user is an admin
func (h *AdminHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var user models.User
		if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetDashboard returns admin dashboard counts
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	var totalUsers int64
	var totalPhotos int64
	var totalCameras int64
	var totalFilmStocks int64
	var pendingSubmissions int64

	h.db.Model(&models.User{}).Count(&totalUsers)
	h.db.Model(&models.Photo{}).Count(&totalPhotos)
	h.db.Model(&models.Camera{}).Count(&totalCameras)
	h.db.Model(&models.FilmStock{}).Count(&totalFilmStocks)
	h.db.Model(&models.ModerationSubmission{}).
		Where("status = ?", models.SubmissionStatusPending).
		Count(&pendingSubmissions)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_users":         totalUsers,
			"total_photos":        totalPhotos,
			"total_cameras":       totalCameras,
			"total_film_stocks":   totalFilmStocks,
			"pending_submissions": pendingSubmissions,
		},
	})
}
