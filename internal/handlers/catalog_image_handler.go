package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"avoidxray/internal/auth"
	"avoidxray/internal/services"
)

// CatalogImageHandler exposes the community edit endpoints for catalog
// resources: submit an edit (image and/or fields) and delete an image.
type CatalogImageHandler struct {
	moderation     *services.ModerationService
	maxUploadBytes int64
}

func NewCatalogImageHandler(moderation *services.ModerationService, maxUploadBytes int64) *CatalogImageHandler {
	return &CatalogImageHandler{
		moderation:     moderation,
		maxUploadBytes: maxUploadBytes,
	}
}

// SubmitCameraEdit handles POST /api/cameras/:id/image
func (h *CatalogImageHandler) SubmitCameraEdit(c *gin.Context) {
	h.submit(c, services.CameraKind)
}

// SubmitFilmStockEdit handles POST /api/filmstocks/:id/image
func (h *CatalogImageHandler) SubmitFilmStockEdit(c *gin.Context) {
	h.submit(c, services.FilmStockKind)
}

// DeleteCameraImage handles DELETE /api/cameras/:id/image
func (h *CatalogImageHandler) DeleteCameraImage(c *gin.Context) {
	h.deleteImage(c, services.CameraKind)
}

// DeleteFilmStockImage handles DELETE /api/filmstocks/:id/image
func (h *CatalogImageHandler) DeleteFilmStockImage(c *gin.Context) {
	h.deleteImage(c, services.FilmStockKind)
}

func (h *CatalogImageHandler) submit(c *gin.Context, kind *services.ResourceKind) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	fields := map[string]string{
		"description": c.PostForm("description"),
	}
	for _, field := range kind.Fields {
		fields[field] = c.PostForm(field)
	}

	var file []byte
	var fileType string
	if header, err := c.FormFile("image"); err == nil && header != nil {
		if header.Size > h.maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Image must be smaller than %dMB", h.maxUploadBytes/(1024*1024)),
			})
			return
		}
		opened, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer opened.Close()

		file, err = io.ReadAll(opened)
		if err != nil {
			respondError(c, err)
			return
		}
		fileType = header.Header.Get("Content-Type")
	}

	result, err := h.moderation.Submit(c.Request.Context(), kind, services.SubmitInput{
		ResourceID: c.Param("id"),
		ActorID:    userID,
		File:       file,
		FileType:   fileType,
		Fields:     fields,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	var data interface{}
	if result.Applied {
		data = result.Resource
	} else {
		data = gin.H{"submission_id": result.SubmissionID}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": result.Message,
		"data":    data,
	})
}

func (h *CatalogImageHandler) deleteImage(c *gin.Context, kind *services.ResourceKind) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	resource, err := h.moderation.DeleteImage(c.Request.Context(), kind, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted successfully",
		"data":    resource,
	})
}
