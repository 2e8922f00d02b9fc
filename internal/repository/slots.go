package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

type SlotRepository struct {
	db *database.DB
}

func NewSlotRepository(db *database.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (excursion_id, slot_date, start_time, end_time, max_participants, price_override, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		slot.ExcursionID,
		slot.SlotDate,
		slot.StartTime,
		slot.EndTime,
		slot.MaxParticipants,
		slot.PriceOverride,
		slot.IsAvailable,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)

	return err
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*models.AvailabilitySlot, error) {
	slot := &models.AvailabilitySlot{}
	query := `
		SELECT id, excursion_id, slot_date, start_time, end_time, max_participants,
		       price_override, is_available, created_at, updated_at
		FROM availability_slots
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&slot.ID,
		&slot.ExcursionID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxParticipants,
		&slot.PriceOverride,
		&slot.IsAvailable,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return slot, err
}

func (r *SlotRepository) GetByExcursionID(ctx context.Context, excursionID int64, from, to *string) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	query := `
		SELECT id, excursion_id, slot_date, start_time, end_time, max_participants,
		       price_override, is_available, created_at, updated_at
		FROM availability_slots
		WHERE excursion_id = $1
		  AND ($2::date IS NULL OR slot_date >= $2)
		  AND ($3::date IS NULL OR slot_date <= $3)
		ORDER BY slot_date, start_time`

	rows, err := r.db.QueryContext(ctx, query, excursionID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slot models.AvailabilitySlot
		err := rows.Scan(
			&slot.ID,
			&slot.ExcursionID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.MaxParticipants,
			&slot.PriceOverride,
			&slot.IsAvailable,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

func (r *SlotRepository) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	query := `
		UPDATE availability_slots
		SET slot_date = $1, start_time = $2, end_time = $3, max_participants = $4,
		    price_override = $5, is_available = $6, updated_at = NOW()
		WHERE id = $7`

	_, err := r.db.ExecContext(ctx, query,
		slot.SlotDate,
		slot.StartTime,
		slot.EndTime,
		slot.MaxParticipants,
		slot.PriceOverride,
		slot.IsAvailable,
		slot.ID,
	)

	return err
}

func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM availability_slots WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ListAll returns every slot, for the overbooking audit.
func (r *SlotRepository) ListAll(ctx context.Context) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	query := `
		SELECT id, excursion_id, slot_date, start_time, end_time, max_participants,
		       price_override, is_available, created_at, updated_at
		FROM availability_slots
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slot models.AvailabilitySlot
		err := rows.Scan(
			&slot.ID,
			&slot.ExcursionID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.MaxParticipants,
			&slot.PriceOverride,
			&slot.IsAvailable,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// ConfirmedParticipants returns slot id → sum of participants_count over
// confirmed bookings for the given slots. Slots with no confirmed bookings
// are absent from the map.
func (r *SlotRepository) ConfirmedParticipants(ctx context.Context, slotIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int)
	if len(slotIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT slot_id, COALESCE(SUM(participants_count), 0)
		FROM bookings
		WHERE slot_id = ANY($1) AND status = 'confirmed'
		GROUP BY slot_id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(slotIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slotID int64
		var count int
		if err := rows.Scan(&slotID, &count); err != nil {
			return nil, err
		}
		result[slotID] = count
	}

	return result, rows.Err()
}

// ConfirmedParticipantsForSlot returns the confirmed participant sum for a
// single slot, the snapshot the submission flow re-validates against.
func (r *SlotRepository) ConfirmedParticipantsForSlot(ctx context.Context, slotID int64) (int, error) {
	var count int
	query := `
		SELECT COALESCE(SUM(participants_count), 0)
		FROM bookings
		WHERE slot_id = $1 AND status = 'confirmed'`

	err := r.db.QueryRowContext(ctx, query, slotID).Scan(&count)
	return count, err
}
