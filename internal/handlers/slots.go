package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// ListSlots - GET /api/excursions/:id/slots
// Each slot carries its derived available_spots and is_available. Cache
// hits come back as raw JSON and are written through unchanged.
func (h *Handlers) ListSlots(c *gin.Context) {
	excursionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid excursion id"})
		return
	}

	var from, to *string
	if v := c.Query("from"); v != "" {
		from = &v
	}
	if v := c.Query("to"); v != "" {
		to = &v
	}

	response, raw, err := h.services.Slots.List(c.Request.Context(), excursionID, from, to)
	if err != nil {
		slog.Error("Failed to list slots", "error", err, "excursion_id", excursionID)
		writeServiceError(c, err, "Failed to list slots")
		return
	}

	if raw != nil {
		c.Data(http.StatusOK, "application/json", raw)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateSlot - POST /api/slots
func (h *Handlers) CreateSlot(c *gin.Context) {
	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.services.Slots.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create slot", "error", err)
		writeServiceError(c, err, "Failed to create slot")
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// UpdateSlot - PUT /api/slots/:id
func (h *Handlers) UpdateSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}

	var req models.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.services.Slots.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err, "Failed to update slot")
		return
	}

	c.JSON(http.StatusOK, slot)
}

// DeleteSlot - DELETE /api/slots/:id
func (h *Handlers) DeleteSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}

	if err := h.services.Slots.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "Failed to delete slot")
		return
	}

	c.Status(http.StatusNoContent)
}
