package models

import (
	"time"
)

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusOnHold    = "on_hold"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Profile roles
const (
	RoleClient   = "client"
	RoleGuide    = "guide"
	RoleOperator = "tour_operator"
	RoleAdmin    = "admin"
)

// Profile represents a user profile in the system
type Profile struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         string    `json:"role" db:"role"`
	Phone        *string   `json:"phone" db:"phone"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Guide represents a guide account linked to a profile
type Guide struct {
	ID          int64     `json:"id" db:"id"`
	ProfileID   int64     `json:"profile_id" db:"profile_id"`
	CompanyName *string   `json:"company_name" db:"company_name"`
	Bio         *string   `json:"bio" db:"bio"`
	IsVerified  bool      `json:"is_verified" db:"is_verified"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TourOperator represents a reseller account linked to a profile
type TourOperator struct {
	ID             int64     `json:"id" db:"id"`
	ProfileID      int64     `json:"profile_id" db:"profile_id"`
	CompanyName    string    `json:"company_name" db:"company_name"`
	CommissionRate float64   `json:"commission_rate" db:"commission_rate"`
	IsVerified     bool      `json:"is_verified" db:"is_verified"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Excursion represents a bookable excursion offered by a guide
type Excursion struct {
	ID              int64     `json:"id" db:"id"`
	GuideID         int64     `json:"guide_id" db:"guide_id"`
	Title           string    `json:"title" db:"title"`
	Description     *string   `json:"description" db:"description"`
	Destination     string    `json:"destination" db:"destination"`
	Category        string    `json:"category" db:"category"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	PriceCents      int64     `json:"price_cents" db:"price_cents"`
	MaxParticipants int       `json:"max_participants" db:"max_participants"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AvailabilitySlot represents one bookable occasion of an excursion.
// AvailableSpots is derived from confirmed bookings and is never stored.
type AvailabilitySlot struct {
	ID              int64     `json:"id" db:"id"`
	ExcursionID     int64     `json:"excursion_id" db:"excursion_id"`
	SlotDate        time.Time `json:"slot_date" db:"slot_date"`
	StartTime       string    `json:"start_time" db:"start_time"`
	EndTime         string    `json:"end_time" db:"end_time"`
	MaxParticipants int       `json:"max_participants" db:"max_participants"`
	PriceOverride   *int64    `json:"price_override" db:"price_override"`
	IsAvailable     bool      `json:"is_available" db:"is_available"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Booking represents a reservation of participant spots against a slot.
// SlotID is nullable: operator-made bookings are not tied to a slot.
type Booking struct {
	ID                int64      `json:"id" db:"id"`
	ExcursionID       int64      `json:"excursion_id" db:"excursion_id"`
	SlotID            *int64     `json:"slot_id" db:"slot_id"`
	ClientID          *int64     `json:"client_id" db:"client_id"`
	OperatorID        *int64     `json:"operator_id" db:"operator_id"`
	ParticipantsCount int        `json:"participants_count" db:"participants_count"`
	TotalAmountCents  int64      `json:"total_amount_cents" db:"total_amount_cents"`
	Status            string     `json:"status" db:"status"`
	SpecialRequests   *string    `json:"special_requests" db:"special_requests"`
	CheckinToken      string     `json:"checkin_token" db:"checkin_token"`
	IsCheckedIn       bool       `json:"is_checked_in" db:"is_checked_in"`
	CheckinTime       *time.Time `json:"checkin_time" db:"checkin_time"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Notification represents an in-app notification for a profile
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	ProfileID int64     `json:"profile_id" db:"profile_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
