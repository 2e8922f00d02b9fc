package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/checkin"
	apperrors "github.com/Kenia972/myyowntour-sub000/internal/errors"
	"github.com/Kenia972/myyowntour-sub000/internal/logger"
	"github.com/Kenia972/myyowntour-sub000/internal/metrics"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"
)

// CheckinService runs one scanner coordinator per guide. Scans arrive
// over HTTP, so the code source is a stub that never produces codes on
// its own; each request submits its code directly.
type CheckinService struct {
	validator     checkin.Validator
	bookings      *repository.BookingRepository
	notifications *repository.NotificationRepository
	profiles      *repository.ProfileRepository
	publisher     EventPublisher

	mu           sync.Mutex
	coordinators map[int64]*checkin.Coordinator
}

func NewCheckinService(validator checkin.Validator, bookings *repository.BookingRepository, notifications *repository.NotificationRepository, profiles *repository.ProfileRepository, publisher EventPublisher) *CheckinService {
	return &CheckinService{
		validator:     validator,
		bookings:      bookings,
		notifications: notifications,
		profiles:      profiles,
		publisher:     publisher,
		coordinators:  make(map[int64]*checkin.Coordinator),
	}
}

// Scan runs one scanned code through the check-in flow for the
// authenticated guide and reports the resulting scanner state.
func (s *CheckinService) Scan(ctx context.Context, profileID int64, code string) (*models.ScanResponse, error) {
	guide, err := s.profiles.GetGuideByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	if guide == nil {
		return nil, apperrors.ErrForbidden
	}

	coordinator, err := s.coordinator(guide.ID)
	if err != nil {
		return nil, err
	}

	result, err := coordinator.Submit(code)
	if err != nil {
		metrics.Checkins.WithLabelValues("failure").Inc()
		message := coordinator.LastError()
		if message == "" {
			message = err.Error()
		}
		return &models.ScanResponse{
			State: string(coordinator.State()),
			Error: message,
		}, nil
	}

	metrics.Checkins.WithLabelValues("success").Inc()

	return &models.ScanResponse{
		State:       string(coordinator.State()),
		BookingID:   result.Payload.BookingID,
		ClientName:  result.Payload.ClientName,
		CheckinTime: result.CheckinTime.Format(time.RFC3339),
	}, nil
}

// Shutdown closes every open scanner session.
func (s *CheckinService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for guideID, coordinator := range s.coordinators {
		if err := coordinator.Close(); err != nil {
			logger.Get().Error("Failed to close scanner session",
				"error", err, "guide_id", guideID)
		}
		delete(s.coordinators, guideID)
	}
}

// coordinator returns the guide's scanner, creating and opening it on
// first use and rearming it between scans.
func (s *CheckinService) coordinator(guideID int64) (*checkin.Coordinator, error) {
	s.mu.Lock()
	coordinator, ok := s.coordinators[guideID]
	if !ok {
		coordinator = checkin.NewCoordinator(s.validator, guideID, s.onCheckin(guideID))
		s.coordinators[guideID] = coordinator
	}
	s.mu.Unlock()

	switch coordinator.State() {
	case checkin.StateIdle:
		if err := coordinator.Open(newHTTPSource()); err != nil {
			return nil, err
		}
	case checkin.StateSuccess:
		if err := coordinator.Rearm(); err != nil {
			return nil, err
		}
	case checkin.StateFailure:
		if err := coordinator.Retry(); err != nil {
			return nil, err
		}
	}

	return coordinator, nil
}

// onCheckin records the local view of a completed check-in: booking
// flags, a client notification and the checkin.completed event. The
// platform already holds the authoritative state, so local failures are
// logged and never undo the check-in.
func (s *CheckinService) onCheckin(guideID int64) func(checkin.Result) {
	return func(result checkin.Result) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		bookingID := result.Payload.BookingID

		if err := s.bookings.SetCheckedIn(ctx, bookingID, result.CheckinTime); err != nil {
			logger.Get().Error("Failed to record check-in locally",
				"error", err, "booking_id", bookingID)
		}

		booking, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil || booking == nil {
			logger.Get().Error("Failed to load booking after check-in",
				"error", err, "booking_id", bookingID)
			return
		}

		if booking.ClientID != nil {
			notification := &models.Notification{
				ProfileID: *booking.ClientID,
				Type:      "checkin",
				Title:     "Enregistrement confirmé",
				Message:   fmt.Sprintf("Votre arrivée pour « %s » a été enregistrée.", result.Payload.ExcursionTitle),
			}
			if err := s.notifications.Create(ctx, notification); err != nil {
				logger.Get().Error("Failed to create check-in notification",
					"error", err, "booking_id", bookingID)
			}
		}

		event := models.CheckinCompletedEvent{
			BookingID:   bookingID,
			ExcursionID: result.Payload.ExcursionID,
			GuideID:     guideID,
			CheckinTime: result.CheckinTime,
			Timestamp:   time.Now(),
		}

		if err := s.publisher.Publish(models.EventCheckinCompleted, event); err != nil {
			logger.Get().Error("Failed to publish checkin completed event",
				"error", err,
				"booking_id", bookingID,
				"event_type", models.EventCheckinCompleted)
		}
	}
}

// httpSource satisfies the scanner's code source for request-driven
// scans: it never emits codes and only unblocks when closed.
type httpSource struct {
	done chan struct{}
	once sync.Once
}

func newHTTPSource() *httpSource {
	return &httpSource{done: make(chan struct{})}
}

func (s *httpSource) Next() (string, error) {
	<-s.done
	return "", io.EOF
}

func (s *httpSource) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
