package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

type SlotGetter interface {
	GetByID(ctx context.Context, id int64) (*models.AvailabilitySlot, error)
}

type ProfileGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
}

type ExcursionGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Excursion, error)
}

type ReminderSender interface {
	SendReminder(to, excursionTitle, slotDate string) error
}

// ReminderJob emails clients the day before their excursion. Sent
// booking ids are tracked in memory, so a worker restart may re-send a
// reminder; the email is harmless to receive twice.
type ReminderJob struct {
	bookings   BookingStore
	slots      SlotGetter
	profiles   ProfileGetter
	excursions ExcursionGetter
	sender     ReminderSender

	mu   sync.Mutex
	sent map[int64]struct{}
}

func NewReminderJob(bookings BookingStore, slots SlotGetter, profiles ProfileGetter, excursions ExcursionGetter, sender ReminderSender) *ReminderJob {
	return &ReminderJob{
		bookings:   bookings,
		slots:      slots,
		profiles:   profiles,
		excursions: excursions,
		sender:     sender,
		sent:       make(map[int64]struct{}),
	}
}

func (j *ReminderJob) Run(ctx context.Context) error {
	tomorrow := time.Now().AddDate(0, 0, 1)

	bookings, err := j.bookings.GetConfirmedForDate(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("failed to get bookings for reminder: %w", err)
	}

	reminded := 0
	for _, booking := range bookings {
		if j.alreadySent(booking.ID) {
			continue
		}
		if booking.ClientID == nil || booking.SlotID == nil {
			continue
		}

		profile, err := j.profiles.GetByID(ctx, *booking.ClientID)
		if err != nil || profile == nil {
			slog.Error("Failed to get client profile for reminder",
				"booking_id", booking.ID, "error", err)
			continue
		}

		excursion, err := j.excursions.GetByID(ctx, booking.ExcursionID)
		if err != nil || excursion == nil {
			slog.Error("Failed to get excursion for reminder",
				"booking_id", booking.ID, "error", err)
			continue
		}

		slot, err := j.slots.GetByID(ctx, *booking.SlotID)
		if err != nil || slot == nil {
			slog.Error("Failed to get slot for reminder",
				"booking_id", booking.ID, "error", err)
			continue
		}

		slotDate := fmt.Sprintf("%s %s", slot.SlotDate.Format("2006-01-02"), slot.StartTime)
		if err := j.sender.SendReminder(profile.Email, excursion.Title, slotDate); err != nil {
			slog.Error("Failed to send reminder email",
				"booking_id", booking.ID, "error", err)
			continue
		}

		j.markSent(booking.ID)
		reminded++
	}

	if reminded > 0 {
		slog.Info("Reminder job finished", "reminders_sent", reminded)
	}
	return nil
}

func (j *ReminderJob) alreadySent(bookingID int64) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, ok := j.sent[bookingID]
	return ok
}

func (j *ReminderJob) markSent(bookingID int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sent[bookingID] = struct{}{}
}
