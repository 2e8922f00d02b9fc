package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/Kenia972/myyowntour-sub000/internal/errors"
	"github.com/Kenia972/myyowntour-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		services: services,
	}
}

// writeServiceError maps service errors to HTTP responses. Validation
// errors name the violated constraint; not-found sentinels map to 404.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSlotNotFound),
		errors.Is(err, apperrors.ErrExcursionNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
