package service

import (
	"context"
	"fmt"

	"github.com/Kenia972/myyowntour-sub000/internal/cache"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"
)

type NotificationService struct {
	notifications *repository.NotificationRepository
	valkey        *cache.ValkeyClient
}

func NewNotificationService(notifications *repository.NotificationRepository, valkey *cache.ValkeyClient) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		valkey:        valkey,
	}
}

// List returns the newest notifications for a profile.
func (s *NotificationService) List(ctx context.Context, profileID int64, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	notifications, err := s.notifications.GetByProfileID(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the unread counter. The client polls this endpoint
// on a fixed interval, so the value is cached briefly.
func (s *NotificationService) UnreadCount(ctx context.Context, profileID int64) (int64, error) {
	if s.valkey != nil {
		if count, err := s.valkey.GetUnreadCount(ctx, profileID); err == nil {
			return count, nil
		}
	}

	count, err := s.notifications.CountUnread(ctx, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if s.valkey != nil {
		s.valkey.SetUnreadCount(ctx, profileID, count)
	}

	return count, nil
}

// MarkRead marks the given notifications read for the profile that owns
// them and drops the cached counter.
func (s *NotificationService) MarkRead(ctx context.Context, profileID int64, ids []int64) error {
	if err := s.notifications.MarkRead(ctx, profileID, ids); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	if s.valkey != nil {
		s.valkey.InvalidateUnreadCount(ctx, profileID)
	}

	return nil
}
