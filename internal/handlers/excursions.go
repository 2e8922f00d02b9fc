package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateExcursion - POST /api/excursions
func (h *Handlers) CreateExcursion(c *gin.Context) {
	var req models.CreateExcursionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Excursions.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create excursion", "error", err)
		writeServiceError(c, err, "Failed to create excursion")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListExcursions - GET /api/excursions
// A non-empty query or date filter goes through the search index.
func (h *Handlers) ListExcursions(c *gin.Context) {
	query := c.Query("query")
	date := c.Query("date")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
			return
		}
	}

	response, err := h.services.Excursions.List(c.Request.Context(), query, date, page, pageSize)
	if err != nil {
		slog.Error("Failed to list excursions", "error", err)
		writeServiceError(c, err, "Failed to list excursions")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetExcursion - GET /api/excursions/:id
func (h *Handlers) GetExcursion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid excursion id"})
		return
	}

	excursion, err := h.services.Excursions.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "Failed to get excursion")
		return
	}

	c.JSON(http.StatusOK, excursion)
}
