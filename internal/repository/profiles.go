package repository

import (
	"context"
	"database/sql"

	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

type ProfileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, email, password_hash, first_name, last_name, role, phone,
		       is_active, created_at, updated_at
		FROM profiles
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.FirstName,
		&profile.LastName,
		&profile.Role,
		&profile.Phone,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return profile, err
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, email, password_hash, first_name, last_name, role, phone,
		       is_active, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.FirstName,
		&profile.LastName,
		&profile.Role,
		&profile.Phone,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return profile, err
}

// GetGuideByProfileID resolves the guide account for an authenticated profile.
func (r *ProfileRepository) GetGuideByProfileID(ctx context.Context, profileID int64) (*models.Guide, error) {
	guide := &models.Guide{}
	query := `
		SELECT id, profile_id, company_name, bio, is_verified, created_at
		FROM guides
		WHERE profile_id = $1`

	err := r.db.QueryRowContext(ctx, query, profileID).Scan(
		&guide.ID,
		&guide.ProfileID,
		&guide.CompanyName,
		&guide.Bio,
		&guide.IsVerified,
		&guide.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return guide, err
}

// GetGuideByID returns a guide account by its own id.
func (r *ProfileRepository) GetGuideByID(ctx context.Context, id int64) (*models.Guide, error) {
	guide := &models.Guide{}
	query := `
		SELECT id, profile_id, company_name, bio, is_verified, created_at
		FROM guides
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&guide.ID,
		&guide.ProfileID,
		&guide.CompanyName,
		&guide.Bio,
		&guide.IsVerified,
		&guide.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return guide, err
}

// GetOperatorByProfileID resolves the tour operator account for a profile.
func (r *ProfileRepository) GetOperatorByProfileID(ctx context.Context, profileID int64) (*models.TourOperator, error) {
	operator := &models.TourOperator{}
	query := `
		SELECT id, profile_id, company_name, commission_rate, is_verified, created_at
		FROM tour_operators
		WHERE profile_id = $1`

	err := r.db.QueryRowContext(ctx, query, profileID).Scan(
		&operator.ID,
		&operator.ProfileID,
		&operator.CompanyName,
		&operator.CommissionRate,
		&operator.IsVerified,
		&operator.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return operator, err
}
