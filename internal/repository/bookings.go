package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, excursion_id, slot_id, client_id, operator_id, participants_count,
	       total_amount_cents, status, special_requests, checkin_token,
	       is_checked_in, checkin_time, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *models.Booking) error {
	return row.Scan(
		&b.ID,
		&b.ExcursionID,
		&b.SlotID,
		&b.ClientID,
		&b.OperatorID,
		&b.ParticipantsCount,
		&b.TotalAmountCents,
		&b.Status,
		&b.SpecialRequests,
		&b.CheckinToken,
		&b.IsCheckedIn,
		&b.CheckinTime,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (excursion_id, slot_id, client_id, operator_id, participants_count,
		                      total_amount_cents, status, special_requests, checkin_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.ExcursionID,
		booking.SlotID,
		booking.ClientID,
		booking.OperatorID,
		booking.ParticipantsCount,
		booking.TotalAmountCents,
		booking.Status,
		booking.SpecialRequests,
		booking.CheckinToken,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	err := scanBooking(r.db.QueryRowContext(ctx, query, id), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByClientID(ctx context.Context, clientID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE client_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, query, clientID)
}

func (r *BookingRepository) GetBySlotID(ctx context.Context, slotID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE slot_id = $1 ORDER BY created_at`
	return r.queryBookings(ctx, query, slotID)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// SetCheckedIn records the local view of a successful check-in.
func (r *BookingRepository) SetCheckedIn(ctx context.Context, id int64, checkinTime time.Time) error {
	query := `
		UPDATE bookings
		SET is_checked_in = TRUE, checkin_time = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, checkinTime, id)
	return err
}

// GetPastConfirmed returns confirmed bookings whose slot date has passed,
// candidates for the completed transition.
func (r *BookingRepository) GetPastConfirmed(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.status = 'confirmed'
		  AND b.slot_id IS NOT NULL
		  AND EXISTS (
		      SELECT 1 FROM availability_slots s
		      WHERE s.id = b.slot_id AND s.slot_date < $1
		  )
		ORDER BY b.created_at ASC`

	return r.queryBookings(ctx, query, cutoff)
}

// GetConfirmedForDate returns confirmed bookings whose slot falls on the
// given date, used for reminder dispatch.
func (r *BookingRepository) GetConfirmedForDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.status = 'confirmed'
		  AND b.slot_id IS NOT NULL
		  AND EXISTS (
		      SELECT 1 FROM availability_slots s
		      WHERE s.id = b.slot_id AND s.slot_date = $1::date
		  )
		ORDER BY b.created_at ASC`

	return r.queryBookings(ctx, query, date)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	var bookings []models.Booking

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
