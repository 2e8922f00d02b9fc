package models

import (
	"fmt"
	"strings"
)

// FlexibleBool accepts boolean values encoded as bool, string or number.
// The hosted frontend historically sent availability flags in all three forms.
type FlexibleBool bool

func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	switch strings.ToLower(str) {
	case "true", "1", "yes", "on":
		*fb = true
	case "false", "0", "no", "off":
		*fb = false
	default:
		return fmt.Errorf("invalid boolean value: %s", str)
	}
	return nil
}

func (fb FlexibleBool) Bool() bool {
	return bool(fb)
}

// CreateExcursionRequest - payload for creating an excursion
type CreateExcursionRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description"`
	Destination     string  `json:"destination" binding:"required"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"duration_minutes"`
	PriceCents      int64   `json:"price_cents" binding:"required"`
	MaxParticipants int     `json:"max_participants" binding:"required"`
}

// CreateExcursionResponse - response after creating an excursion
type CreateExcursionResponse struct {
	ID int64 `json:"id"`
}

// ListExcursionsResponseItem - one excursion in a listing
type ListExcursionsResponseItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	PriceCents  int64  `json:"price_cents"`
}

// ListExcursionsResponse - excursion listing
type ListExcursionsResponse []ListExcursionsResponseItem

// CreateSlotRequest - payload for creating an availability slot
type CreateSlotRequest struct {
	ExcursionID     int64        `json:"excursion_id" binding:"required"`
	SlotDate        string       `json:"slot_date" binding:"required"`
	StartTime       string       `json:"start_time" binding:"required"`
	EndTime         string       `json:"end_time" binding:"required"`
	MaxParticipants int          `json:"max_participants" binding:"required"`
	PriceOverride   *int64       `json:"price_override"`
	IsAvailable     FlexibleBool `json:"is_available"`
}

// UpdateSlotRequest - payload for editing an availability slot
type UpdateSlotRequest struct {
	SlotDate        *string       `json:"slot_date"`
	StartTime       *string       `json:"start_time"`
	EndTime         *string       `json:"end_time"`
	MaxParticipants *int          `json:"max_participants"`
	PriceOverride   *int64        `json:"price_override"`
	IsAvailable     *FlexibleBool `json:"is_available"`
}

// SlotResponseItem - one slot in a listing, with derived availability
type SlotResponseItem struct {
	ID              int64  `json:"id"`
	ExcursionID     int64  `json:"excursion_id"`
	SlotDate        string `json:"slot_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	MaxParticipants int    `json:"max_participants"`
	PriceOverride   *int64 `json:"price_override"`
	AvailableSpots  int    `json:"available_spots"`
	IsAvailable     bool   `json:"is_available"`
}

// ListSlotsResponse - slot listing for an excursion
type ListSlotsResponse []SlotResponseItem

// SubmitBookingRequest - payload for the booking submission flow
type SubmitBookingRequest struct {
	ExcursionID       int64   `json:"excursion_id" binding:"required"`
	SlotID            *int64  `json:"slot_id"`
	ParticipantsCount int     `json:"participants_count" binding:"required"`
	SpecialRequests   *string `json:"special_requests"`
}

// SubmitBookingResponse - response after submitting a booking
type SubmitBookingResponse struct {
	ID               int64  `json:"id"`
	Status           string `json:"status"`
	TotalAmountCents int64  `json:"total_amount_cents"`
}

// ListBookingsResponseItem - one booking in a listing
type ListBookingsResponseItem struct {
	ID                int64  `json:"id"`
	ExcursionID       int64  `json:"excursion_id"`
	SlotID            *int64 `json:"slot_id"`
	ParticipantsCount int    `json:"participants_count"`
	Status            string `json:"status"`
	TotalAmountCents  int64  `json:"total_amount_cents"`
}

// ListBookingsResponse - booking listing
type ListBookingsResponse []ListBookingsResponseItem

// CreateManualBookingRequest - payload for an operator-made booking.
// Manual bookings are not tied to a slot and never count against
// slot capacity.
type CreateManualBookingRequest struct {
	ExcursionID       int64   `json:"excursion_id" binding:"required"`
	ParticipantsCount int     `json:"participants_count" binding:"required"`
	SpecialRequests   *string `json:"special_requests"`
}

// ConfirmBookingRequest - payload to confirm a booking after payment
type ConfirmBookingRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// CancelBookingRequest - payload to cancel a booking
type CancelBookingRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// ScanRequest - payload for the check-in scan endpoint.
// Code carries the encoded text decoded from the QR code.
type ScanRequest struct {
	Code string `json:"code" binding:"required"`
}

// ScanResponse - outcome of a check-in scan
type ScanResponse struct {
	State       string `json:"state"`
	BookingID   int64  `json:"booking_id,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
	CheckinTime string `json:"checkin_time,omitempty"`
	Error       string `json:"error,omitempty"`
}

// UnreadCountResponse - unread notification counter, polled by the client
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkReadRequest - payload to mark notifications as read
type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids" binding:"required"`
}
