package handlers

import (
	"net/http"

	"github.com/Kenia972/myyowntour-sub000/internal/middleware"
	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// ScanCheckin - POST /api/checkin/scan
// Runs one scanned code through the check-in flow for the authenticated
// guide. A failed scan is a 200 with the failure state and the remote
// error message; only transport and authorization problems are HTTP
// errors.
func (h *Handlers) ScanCheckin(c *gin.Context) {
	profileID, ok := middleware.ProfileIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Checkin.Scan(c.Request.Context(), profileID, req.Code)
	if err != nil {
		writeServiceError(c, err, "Failed to process scan")
		return
	}

	c.JSON(http.StatusOK, response)
}
