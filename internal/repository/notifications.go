package repository

import (
	"context"

	"github.com/lib/pq"

	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (profile_id, type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		n.ProfileID,
		n.Type,
		n.Title,
		n.Message,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) GetByProfileID(ctx context.Context, profileID int64, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := `
		SELECT id, profile_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.ProfileID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, profileID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE profile_id = $1 AND is_read = FALSE`
	err := r.db.QueryRowContext(ctx, query, profileID).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, profileID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE notifications SET is_read = TRUE WHERE profile_id = $1 AND id = ANY($2)`
	_, err := r.db.ExecContext(ctx, query, profileID, pq.Array(ids))
	return err
}
