package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"avoidxray/internal/auth"
	"avoidxray/internal/services"
)

// ModerationHandler exposes the admin review surface: list pending
// submissions and approve/reject them.
type ModerationHandler struct {
	moderation *services.ModerationService
}

func NewModerationHandler(moderation *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// GetPending returns all pending submissions grouped by resource kind
func (h *ModerationHandler) GetPending(c *gin.Context) {
	queue, err := h.moderation.PendingSubmissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    queue,
	})
}

// Review handles POST /api/admin/moderation/:type/:id
func (h *ModerationHandler) Review(c *gin.Context) {
	reviewerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	kind, ok := services.KindFor(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid resource type"})
		return
	}

	var req struct {
		Action     string            `json:"action" binding:"required"`
		EditedData map[string]string `json:"edited_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	message, err := h.moderation.Review(c.Request.Context(), kind, c.Param("id"), reviewerID, req.Action, req.EditedData)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}
