package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"avoidxray/internal/auth"
	"avoidxray/internal/services"
)

// PhotoHandler exposes photo upload, the public feed and like toggling
type PhotoHandler struct {
	photos *services.PhotoService
}

func NewPhotoHandler(photos *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Upload handles POST /api/upload (multipart, one or more files)
func (h *PhotoHandler) Upload(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid multipart form"})
		return
	}

	var files [][]byte
	for _, header := range form.File["files"] {
		opened, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		data, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			respondError(c, err)
			return
		}
		files = append(files, data)
	}

	in := services.UploadInput{
		UserID:      userID,
		Files:       files,
		Caption:     optionalForm(c, "caption"),
		CameraID:    optionalForm(c, "camera_id"),
		FilmStockID: optionalForm(c, "film_stock_id"),
		AsUserID:    optionalForm(c, "as_user_id"),
	}

	if raw := c.PostForm("taken_date"); raw != "" {
		taken, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid taken_date, expected YYYY-MM-DD"})
			return
		}
		in.TakenDate = &taken
	}

	photos, err := h.photos.Upload(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    photos,
	})
}

// GetFeed handles GET /api/photos
func (h *PhotoHandler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.photos.Feed(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page,
	})
}

// ToggleLike handles POST /api/likes
func (h *PhotoHandler) ToggleLike(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var req struct {
		PhotoID string `json:"photo_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	liked, err := h.photos.ToggleLike(userID, req.PhotoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"liked": liked},
	})
}

func optionalForm(c *gin.Context, key string) *string {
	value := c.PostForm(key)
	if value == "" {
		return nil
	}
	return &value
}
