package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/cache"
	"github.com/Kenia972/myyowntour-sub000/internal/checkin"
	"github.com/Kenia972/myyowntour-sub000/internal/external"
	"github.com/Kenia972/myyowntour-sub000/internal/messaging"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos       *repository.Repositories
	emailClient *external.EmailClient
	valkey      *cache.ValkeyClient
	nats        *messaging.NATSClient
}

func NewHandlers(repos *repository.Repositories, emailClient *external.EmailClient, valkey *cache.ValkeyClient, nats *messaging.NATSClient) *Handlers {
	return &Handlers{
		repos:       repos,
		emailClient: emailClient,
		valkey:      valkey,
		nats:        nats,
	}
}

// HandleBookingCreated notifies the client that the submission was
// received and is awaiting payment.
func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	slog.Info("Processing booking created event", "booking_id", event.BookingID)

	if event.ClientID != nil {
		h.notify(*event.ClientID, "booking", "Réservation reçue",
			"Votre réservation est en attente de paiement.")
	}

	m.Ack()
}

// HandleBookingConfirmed notifies the client and emails the confirmation
// with the scannable check-in code.
func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		return
	}

	slog.Info("Processing booking confirmed event", "booking_id", event.BookingID)

	ctx := context.Background()

	booking, err := h.repos.Bookings.GetByID(ctx, event.BookingID)
	if err != nil || booking == nil {
		slog.Error("Failed to get booking", "booking_id", event.BookingID, "error", err)
		return
	}

	excursion, err := h.repos.Excursions.GetByID(ctx, booking.ExcursionID)
	if err != nil || excursion == nil {
		slog.Error("Failed to get excursion", "excursion_id", booking.ExcursionID, "error", err)
		return
	}

	if booking.ClientID != nil {
		h.notify(*booking.ClientID, "booking", "Réservation confirmée",
			fmt.Sprintf("Votre réservation pour « %s » est confirmée.", excursion.Title))

		profile, err := h.repos.Profiles.GetByID(ctx, *booking.ClientID)
		if err != nil || profile == nil {
			slog.Error("Failed to get client profile", "profile_id", *booking.ClientID, "error", err)
		} else {
			h.sendConfirmationEmail(ctx, profile, booking, excursion)
		}
	}

	m.Ack()
}

func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	slog.Info("Processing booking cancelled event", "booking_id", event.BookingID)

	ctx := context.Background()
	booking, err := h.repos.Bookings.GetByID(ctx, event.BookingID)
	if err != nil || booking == nil {
		slog.Error("Failed to get booking", "booking_id", event.BookingID, "error", err)
		return
	}

	if booking.ClientID != nil {
		h.notify(*booking.ClientID, "booking", "Réservation annulée",
			"Votre réservation a été annulée.")
	}

	m.Ack()
}

func (h *Handlers) HandleBookingCompleted(m *stan.Msg) {
	var event models.BookingCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking completed event", "error", err)
		return
	}

	slog.Info("Processing booking completed event", "booking_id", event.BookingID)

	ctx := context.Background()
	booking, err := h.repos.Bookings.GetByID(ctx, event.BookingID)
	if err != nil || booking == nil {
		slog.Error("Failed to get booking", "booking_id", event.BookingID, "error", err)
		return
	}

	if booking.ClientID != nil {
		h.notify(*booking.ClientID, "booking", "Excursion terminée",
			"Merci d'avoir voyagé avec nous. Partagez votre avis !")
	}

	m.Ack()
}

// HandleCheckinCompleted notifies the guide's profile that a participant
// arrived. The client notification is already created by the scan flow.
func (h *Handlers) HandleCheckinCompleted(m *stan.Msg) {
	var event models.CheckinCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal checkin completed event", "error", err)
		return
	}

	slog.Info("Processing checkin completed event",
		"booking_id", event.BookingID, "guide_id", event.GuideID)

	ctx := context.Background()
	guide, err := h.repos.Profiles.GetGuideByID(ctx, event.GuideID)
	if err != nil || guide == nil {
		slog.Error("Failed to get guide", "guide_id", event.GuideID, "error", err)
		return
	}

	h.notify(guide.ProfileID, "checkin", "Participant enregistré",
		fmt.Sprintf("Réservation n°%d enregistrée à %s.",
			event.BookingID, event.CheckinTime.Format("15:04")))

	m.Ack()
}

// HandleNotificationCreated drops the cached unread counter so the next
// poll sees the new notification immediately.
func (h *Handlers) HandleNotificationCreated(m *stan.Msg) {
	var event models.NotificationCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal notification created event", "error", err)
		return
	}

	if h.valkey != nil {
		h.valkey.InvalidateUnreadCount(context.Background(), event.ProfileID)
	}

	m.Ack()
}

// notify writes a notification row and announces it.
func (h *Handlers) notify(profileID int64, notificationType, title, message string) {
	ctx := context.Background()

	notification := &models.Notification{
		ProfileID: profileID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
	}

	if err := h.repos.Notifications.Create(ctx, notification); err != nil {
		slog.Error("Failed to create notification", "profile_id", profileID, "error", err)
		return
	}

	event := models.NotificationCreatedEvent{
		NotificationID: notification.ID,
		ProfileID:      profileID,
		Type:           notificationType,
		Timestamp:      time.Now(),
	}

	if err := h.nats.Publish(models.EventNotificationCreated, event); err != nil {
		slog.Error("Failed to publish notification created event",
			"error", err, "notification_id", notification.ID)
	}
}

// sendConfirmationEmail builds the scannable check-in code for the
// booking and emails the confirmation.
func (h *Handlers) sendConfirmationEmail(ctx context.Context, profile *models.Profile, booking *models.Booking, excursion *models.Excursion) {
	bookingDate := ""
	if booking.SlotID != nil {
		if slot, err := h.repos.Slots.GetByID(ctx, *booking.SlotID); err == nil && slot != nil {
			bookingDate = slot.SlotDate.Format("2006-01-02")
		}
	}

	payload := &checkin.QRPayload{
		BookingID:         booking.ID,
		CheckinToken:      booking.CheckinToken,
		ExcursionID:       excursion.ID,
		ClientName:        fmt.Sprintf("%s %s", profile.FirstName, profile.LastName),
		ClientEmail:       profile.Email,
		ExcursionTitle:    excursion.Title,
		BookingDate:       bookingDate,
		ParticipantsCount: booking.ParticipantsCount,
		TotalAmountCents:  booking.TotalAmountCents,
	}

	code, err := checkin.EncodePayload(payload)
	if err != nil {
		slog.Error("Failed to encode check-in code", "booking_id", booking.ID, "error", err)
		return
	}

	if err := h.emailClient.SendBookingConfirmation(profile.Email, excursion.Title, code); err != nil {
		slog.Error("Failed to send confirmation email",
			"booking_id", booking.ID, "error", err)
	}
}
