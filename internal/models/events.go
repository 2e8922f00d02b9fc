package models

import "time"

// NATS subjects
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventCheckinCompleted = "checkin.completed"

	EventNotificationCreated = "notification.created"
)

// BookingCreatedEvent is published when a booking is submitted
type BookingCreatedEvent struct {
	BookingID    int64     `json:"booking_id"`
	ExcursionID  int64     `json:"excursion_id"`
	SlotID       *int64    `json:"slot_id"`
	ClientID     *int64    `json:"client_id"`
	Participants int       `json:"participants"`
	Timestamp    time.Time `json:"timestamp"`
}

// BookingConfirmedEvent is published when payment completes
type BookingConfirmedEvent struct {
	BookingID   int64     `json:"booking_id"`
	ExcursionID int64     `json:"excursion_id"`
	ClientID    *int64    `json:"client_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published on user or guide cancellation
type BookingCancelledEvent struct {
	BookingID   int64     `json:"booking_id"`
	ExcursionID int64     `json:"excursion_id"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingCompletedEvent is published by the completion job once the
// excursion date has passed
type BookingCompletedEvent struct {
	BookingID   int64     `json:"booking_id"`
	ExcursionID int64     `json:"excursion_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// NotificationCreatedEvent is published by the worker after it writes a
// notification row, so counters and caches downstream can react
type NotificationCreatedEvent struct {
	NotificationID int64     `json:"notification_id"`
	ProfileID      int64     `json:"profile_id"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
}

// CheckinCompletedEvent is published after a successful QR check-in
type CheckinCompletedEvent struct {
	BookingID   int64     `json:"booking_id"`
	ExcursionID int64     `json:"excursion_id"`
	GuideID     int64     `json:"guide_id"`
	CheckinTime time.Time `json:"checkin_time"`
	Timestamp   time.Time `json:"timestamp"`
}
