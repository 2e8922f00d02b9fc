package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/availability"
	apperrors "github.com/Kenia972/myyowntour-sub000/internal/errors"
	"github.com/Kenia972/myyowntour-sub000/internal/logger"
	"github.com/Kenia972/myyowntour-sub000/internal/metrics"
	"github.com/Kenia972/myyowntour-sub000/internal/middleware"
	"github.com/Kenia972/myyowntour-sub000/internal/models"

	"github.com/google/uuid"
)

// Narrow store interfaces so the submission flow is testable without a
// database. The concrete repositories satisfy them.

type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByClientID(ctx context.Context, clientID int64) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type SlotStore interface {
	GetByID(ctx context.Context, id int64) (*models.AvailabilitySlot, error)
	ConfirmedParticipantsForSlot(ctx context.Context, slotID int64) (int, error)
}

type ExcursionStore interface {
	GetByID(ctx context.Context, id int64) (*models.Excursion, error)
}

type OperatorStore interface {
	GetOperatorByProfileID(ctx context.Context, profileID int64) (*models.TourOperator, error)
}

type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

type BookingService struct {
	bookings   BookingStore
	slots      SlotStore
	excursions ExcursionStore
	operators  OperatorStore
	publisher  EventPublisher
}

func NewBookingService(bookings BookingStore, slots SlotStore, excursions ExcursionStore, operators OperatorStore, publisher EventPublisher) *BookingService {
	return &BookingService{
		bookings:   bookings,
		slots:      slots,
		excursions: excursions,
		operators:  operators,
		publisher:  publisher,
	}
}

// Submit runs the client booking submission flow: validate the slot,
// validate the participant count, re-check remaining capacity from the
// freshest booking snapshot, then insert the booking as pending.
//
// The capacity check and the insert are two separate steps with no lock
// or database constraint between them. Two submissions racing for the
// last spot can both pass the check and both be accepted; the audit job
// reports the resulting oversell.
func (s *BookingService) Submit(ctx context.Context, req *models.SubmitBookingRequest) (*models.SubmitBookingResponse, error) {
	if req.SlotID == nil {
		metrics.BookingsRejected.WithLabelValues("no_slot").Inc()
		return nil, apperrors.ErrNoSlotSelected
	}

	slot, err := s.slots.GetByID(ctx, *req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	if slot == nil || slot.ExcursionID != req.ExcursionID {
		metrics.BookingsRejected.WithLabelValues("slot_not_found").Inc()
		return nil, apperrors.ErrSlotNotFound
	}

	excursion, err := s.excursions.GetByID(ctx, req.ExcursionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get excursion: %w", err)
	}
	if excursion == nil {
		metrics.BookingsRejected.WithLabelValues("excursion_not_found").Inc()
		return nil, apperrors.ErrExcursionNotFound
	}

	if req.ParticipantsCount < 1 || req.ParticipantsCount > excursion.MaxParticipants {
		metrics.BookingsRejected.WithLabelValues("invalid_participants").Inc()
		return nil, apperrors.ErrInvalidParticipants
	}

	// Fresh capacity snapshot right before the insert
	confirmed, err := s.slots.ConfirmedParticipantsForSlot(ctx, slot.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed participants: %w", err)
	}

	avail := availability.ComputeFromCount(slot, confirmed)
	if !slot.IsAvailable {
		metrics.BookingsRejected.WithLabelValues("slot_unavailable").Inc()
		return nil, apperrors.ErrSlotUnavailable
	}
	if req.ParticipantsCount > avail.SpotsLeft {
		metrics.BookingsRejected.WithLabelValues("insufficient_spots").Inc()
		return nil, &apperrors.InsufficientSpotsError{Remaining: avail.SpotsLeft}
	}

	pricePerPerson := excursion.PriceCents
	if slot.PriceOverride != nil {
		pricePerPerson = *slot.PriceOverride
	}

	booking := &models.Booking{
		ExcursionID:       req.ExcursionID,
		SlotID:            req.SlotID,
		ParticipantsCount: req.ParticipantsCount,
		TotalAmountCents:  pricePerPerson * int64(req.ParticipantsCount),
		Status:            models.BookingStatusPending,
		SpecialRequests:   req.SpecialRequests,
		CheckinToken:      uuid.New().String(),
	}

	if id, ok := middleware.ProfileIDFromContext(ctx); ok {
		booking.ClientID = &id
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingsSubmitted.Inc()

	event := models.BookingCreatedEvent{
		BookingID:    booking.ID,
		ExcursionID:  booking.ExcursionID,
		SlotID:       booking.SlotID,
		ClientID:     booking.ClientID,
		Participants: booking.ParticipantsCount,
		Timestamp:    time.Now(),
	}

	if err := s.publisher.Publish(models.EventBookingCreated, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventBookingCreated)
	}

	return &models.SubmitBookingResponse{
		ID:               booking.ID,
		Status:           booking.Status,
		TotalAmountCents: booking.TotalAmountCents,
	}, nil
}

// Confirm moves a pending or on-hold booking to confirmed once payment
// has completed. Confirmed bookings start counting against slot capacity.
func (s *BookingService) Confirm(ctx context.Context, req *models.ConfirmBookingRequest) error {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return apperrors.ErrBookingNotFound
	}

	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusOnHold {
		return fmt.Errorf("booking %d cannot be confirmed from status %s", booking.ID, booking.Status)
	}

	if err := s.bookings.UpdateStatus(ctx, booking.ID, models.BookingStatusConfirmed); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	metrics.BookingsConfirmed.Inc()

	event := models.BookingConfirmedEvent{
		BookingID:   booking.ID,
		ExcursionID: booking.ExcursionID,
		ClientID:    booking.ClientID,
		Timestamp:   time.Now(),
	}

	if err := s.publisher.Publish(models.EventBookingConfirmed, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking confirmed event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventBookingConfirmed)
	}

	return nil
}

// Cancel moves a booking to cancelled. Cancelling a confirmed booking
// frees its spots: availability is derived, so no counter is touched.
func (s *BookingService) Cancel(ctx context.Context, req *models.CancelBookingRequest) error {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return apperrors.ErrBookingNotFound
	}

	if booking.Status == models.BookingStatusCancelled || booking.Status == models.BookingStatusCompleted {
		return fmt.Errorf("booking %d cannot be cancelled from status %s", booking.ID, booking.Status)
	}

	if err := s.bookings.UpdateStatus(ctx, booking.ID, models.BookingStatusCancelled); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	metrics.BookingsCancelled.Inc()

	event := models.BookingCancelledEvent{
		BookingID:   booking.ID,
		ExcursionID: booking.ExcursionID,
		Reason:      "User cancellation",
		Timestamp:   time.Now(),
	}

	if err := s.publisher.Publish(models.EventBookingCancelled, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking cancelled event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventBookingCancelled)
	}

	return nil
}

// CreateManual records an operator-sold booking. Manual bookings carry no
// slot, skip the capacity check and are confirmed immediately.
func (s *BookingService) CreateManual(ctx context.Context, req *models.CreateManualBookingRequest) (*models.SubmitBookingResponse, error) {
	profileID, ok := middleware.ProfileIDFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	operator, err := s.operators.GetOperatorByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	if operator == nil {
		return nil, apperrors.ErrForbidden
	}

	excursion, err := s.excursions.GetByID(ctx, req.ExcursionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get excursion: %w", err)
	}
	if excursion == nil {
		return nil, apperrors.ErrExcursionNotFound
	}

	if req.ParticipantsCount < 1 || req.ParticipantsCount > excursion.MaxParticipants {
		return nil, apperrors.ErrInvalidParticipants
	}

	booking := &models.Booking{
		ExcursionID:       req.ExcursionID,
		OperatorID:        &operator.ID,
		ParticipantsCount: req.ParticipantsCount,
		TotalAmountCents:  excursion.PriceCents * int64(req.ParticipantsCount),
		Status:            models.BookingStatusConfirmed,
		SpecialRequests:   req.SpecialRequests,
		CheckinToken:      uuid.New().String(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingsSubmitted.Inc()
	metrics.BookingsConfirmed.Inc()

	event := models.BookingConfirmedEvent{
		BookingID:   booking.ID,
		ExcursionID: booking.ExcursionID,
		Timestamp:   time.Now(),
	}

	if err := s.publisher.Publish(models.EventBookingConfirmed, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking confirmed event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventBookingConfirmed)
	}

	return &models.SubmitBookingResponse{
		ID:               booking.ID,
		Status:           booking.Status,
		TotalAmountCents: booking.TotalAmountCents,
	}, nil
}

// Get returns one booking, serving the confirmation and payment page.
func (s *BookingService) Get(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	return booking, nil
}

// List returns the authenticated client's bookings, newest first.
func (s *BookingService) List(ctx context.Context, clientID int64) (models.ListBookingsResponse, error) {
	bookings, err := s.bookings.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	result := make(models.ListBookingsResponse, len(bookings))
	for i, booking := range bookings {
		result[i] = models.ListBookingsResponseItem{
			ID:                booking.ID,
			ExcursionID:       booking.ExcursionID,
			SlotID:            booking.SlotID,
			ParticipantsCount: booking.ParticipantsCount,
			Status:            booking.Status,
			TotalAmountCents:  booking.TotalAmountCents,
		}
	}

	return result, nil
}
