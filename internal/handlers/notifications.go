package handlers

import (
	"net/http"
	"strconv"

	"github.com/Kenia972/myyowntour-sub000/internal/middleware"
	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications - GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	profileID, ok := middleware.ProfileIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.services.Notifications.List(c.Request.Context(), profileID, limit)
	if err != nil {
		writeServiceError(c, err, "Failed to list notifications")
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// UnreadCount - GET /api/notifications/unread-count
// Polled by the client on a fixed interval.
func (h *Handlers) UnreadCount(c *gin.Context) {
	profileID, ok := middleware.ProfileIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.services.Notifications.UnreadCount(c.Request.Context(), profileID)
	if err != nil {
		writeServiceError(c, err, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, models.UnreadCountResponse{Count: count})
}

// MarkNotificationsRead - PATCH /api/notifications/read
func (h *Handlers) MarkNotificationsRead(c *gin.Context) {
	profileID, ok := middleware.ProfileIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), profileID, req.NotificationIDs); err != nil {
		writeServiceError(c, err, "Failed to mark notifications read")
		return
	}

	c.Status(http.StatusNoContent)
}
