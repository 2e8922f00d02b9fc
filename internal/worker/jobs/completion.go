// Package jobs holds the scheduled tasks run by the worker's pollers.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetPastConfirmed(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	GetConfirmedForDate(ctx context.Context, date time.Time) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// CompletionJob moves confirmed bookings whose slot date has passed to
// completed. The transition is driven by time, not by any user action.
type CompletionJob struct {
	bookings  BookingStore
	publisher EventPublisher
}

func NewCompletionJob(bookings BookingStore, publisher EventPublisher) *CompletionJob {
	return &CompletionJob{bookings: bookings, publisher: publisher}
}

func (j *CompletionJob) Run(ctx context.Context) error {
	// Midnight today: a slot dated yesterday or earlier is in the past
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	bookings, err := j.bookings.GetPastConfirmed(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to get past confirmed bookings: %w", err)
	}

	if len(bookings) == 0 {
		return nil
	}

	completed := 0
	for _, booking := range bookings {
		if err := j.bookings.UpdateStatus(ctx, booking.ID, models.BookingStatusCompleted); err != nil {
			slog.Error("Failed to complete booking", "booking_id", booking.ID, "error", err)
			continue
		}
		completed++

		event := models.BookingCompletedEvent{
			BookingID:   booking.ID,
			ExcursionID: booking.ExcursionID,
			Timestamp:   time.Now(),
		}

		if err := j.publisher.Publish(models.EventBookingCompleted, event); err != nil {
			slog.Error("Failed to publish booking completed event",
				"error", err, "booking_id", booking.ID)
		}
	}

	slog.Info("Completion job finished", "candidates", len(bookings), "completed", completed)
	return nil
}
