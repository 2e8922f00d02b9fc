package repository

import (
	"context"
	"database/sql"

	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/search"
)

type ExcursionRepository struct {
	db *database.DB
}

func NewExcursionRepository(db *database.DB) *ExcursionRepository {
	return &ExcursionRepository{db: db}
}

func (r *ExcursionRepository) Create(ctx context.Context, excursion *models.Excursion) error {
	query := `
		INSERT INTO excursions (guide_id, title, description, destination, category,
		                        duration_minutes, price_cents, max_participants, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		excursion.GuideID,
		excursion.Title,
		excursion.Description,
		excursion.Destination,
		excursion.Category,
		excursion.DurationMinutes,
		excursion.PriceCents,
		excursion.MaxParticipants,
		excursion.IsActive,
	).Scan(&excursion.ID, &excursion.CreatedAt, &excursion.UpdatedAt)

	return err
}

func (r *ExcursionRepository) GetByID(ctx context.Context, id int64) (*models.Excursion, error) {
	excursion := &models.Excursion{}
	query := `
		SELECT id, guide_id, title, description, destination, category,
		       duration_minutes, price_cents, max_participants, is_active, created_at, updated_at
		FROM excursions
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&excursion.ID,
		&excursion.GuideID,
		&excursion.Title,
		&excursion.Description,
		&excursion.Destination,
		&excursion.Category,
		&excursion.DurationMinutes,
		&excursion.PriceCents,
		&excursion.MaxParticipants,
		&excursion.IsActive,
		&excursion.CreatedAt,
		&excursion.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return excursion, err
}

func (r *ExcursionRepository) List(ctx context.Context, page, pageSize int) ([]models.Excursion, error) {
	var excursions []models.Excursion
	offset := (page - 1) * pageSize

	query := `
		SELECT id, guide_id, title, description, destination, category,
		       duration_minutes, price_cents, max_participants, is_active, created_at, updated_at
		FROM excursions
		WHERE is_active = TRUE
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var excursion models.Excursion
		err := rows.Scan(
			&excursion.ID,
			&excursion.GuideID,
			&excursion.Title,
			&excursion.Description,
			&excursion.Destination,
			&excursion.Category,
			&excursion.DurationMinutes,
			&excursion.PriceCents,
			&excursion.MaxParticipants,
			&excursion.IsActive,
			&excursion.CreatedAt,
			&excursion.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		excursions = append(excursions, excursion)
	}

	return excursions, rows.Err()
}

func (r *ExcursionRepository) Update(ctx context.Context, excursion *models.Excursion) error {
	query := `
		UPDATE excursions
		SET title = $1, description = $2, destination = $3, category = $4,
		    duration_minutes = $5, price_cents = $6, max_participants = $7,
		    is_active = $8, updated_at = NOW()
		WHERE id = $9`

	_, err := r.db.ExecContext(ctx, query,
		excursion.Title,
		excursion.Description,
		excursion.Destination,
		excursion.Category,
		excursion.DurationMinutes,
		excursion.PriceCents,
		excursion.MaxParticipants,
		excursion.IsActive,
		excursion.ID,
	)

	return err
}

// ExcursionSearchRepository serves catalog discovery from Elasticsearch.
// Postgres stays the system of record; the index is a mirror.
type ExcursionSearchRepository struct {
	es *search.ElasticsearchClient
}

func NewExcursionSearchRepository(es *search.ElasticsearchClient) *ExcursionSearchRepository {
	return &ExcursionSearchRepository{es: es}
}

func (r *ExcursionSearchRepository) Search(ctx context.Context, query, date string, page, pageSize int) ([]models.Excursion, error) {
	return r.es.Search(ctx, query, date, page, pageSize)
}

func (r *ExcursionSearchRepository) Index(ctx context.Context, excursion *models.Excursion, slotDates []string) error {
	return r.es.IndexExcursion(ctx, excursion, slotDates)
}

func (r *ExcursionSearchRepository) Delete(ctx context.Context, id int64) error {
	return r.es.DeleteExcursion(ctx, id)
}
