package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Kenia972/myyowntour-sub000/internal/middleware"
	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// SubmitBooking - POST /api/bookings
// Runs the submission flow; validation failures name the violated
// constraint in the error message.
func (h *Handlers) SubmitBooking(c *gin.Context) {
	var req models.SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Bookings.Submit(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to submit booking", "error", err, "excursion_id", req.ExcursionID)
		writeServiceError(c, err, "Failed to submit booking")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListBookings - GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	profileID, ok := middleware.ProfileIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Bookings.List(c.Request.Context(), profileID)
	if err != nil {
		slog.Error("Failed to list bookings", "error", err)
		writeServiceError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking - GET /api/bookings/:id
// Serves the confirmation and payment page.
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.services.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "Failed to get booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ConfirmBooking - PATCH /api/bookings/confirm
func (h *Handlers) ConfirmBooking(c *gin.Context) {
	var req models.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Bookings.Confirm(c.Request.Context(), &req); err != nil {
		slog.Error("Failed to confirm booking", "error", err, "booking_id", req.BookingID)
		writeServiceError(c, err, "Failed to confirm booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.BookingStatusConfirmed})
}

// CancelBooking - PATCH /api/bookings/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Bookings.Cancel(c.Request.Context(), &req); err != nil {
		slog.Error("Failed to cancel booking", "error", err, "booking_id", req.BookingID)
		writeServiceError(c, err, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.BookingStatusCancelled})
}

// CreateManualBooking - POST /api/bookings/manual
// Operator-sold booking, no slot attached.
func (h *Handlers) CreateManualBooking(c *gin.Context) {
	var req models.CreateManualBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Bookings.CreateManual(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create manual booking", "error", err, "excursion_id", req.ExcursionID)
		writeServiceError(c, err, "Failed to create manual booking")
		return
	}

	c.JSON(http.StatusCreated, response)
}
