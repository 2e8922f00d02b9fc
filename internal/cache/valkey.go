package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	slotListTTL    = 15 * time.Second
	unreadCountTTL = 10 * time.Second
)

type ValkeyClient struct {
	client      *redis.Client
	authHashKey string
}

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("VALKEY_PASSWORD")
	authHashKey := os.Getenv("VALKEY_AUTH_HASH_KEY")
	if authHashKey == "" {
		authHashKey = "profiles:auth"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:      rdb,
		authHashKey: authHashKey,
	}, nil
}

// GetProfileIDByAuth looks up a profile id for an email/password-hash pair
// in the auth lookaside hash.
func (v *ValkeyClient) GetProfileIDByAuth(ctx context.Context, email, passwordHash string) (int64, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	profileIDStr, err := v.client.HGet(ctx, v.authHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("profile not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	profileID, err := strconv.ParseInt(profileIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid profile ID in cache: %w", err)
	}

	return profileID, nil
}

// SetProfileAuth stores an email/password-hash → profile id mapping after a
// successful database authentication.
func (v *ValkeyClient) SetProfileAuth(ctx context.Context, email, passwordHash string, profileID int64) error {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))
	return v.client.HSet(ctx, v.authHashKey, cacheKey, strconv.FormatInt(profileID, 10)).Err()
}

func slotListKey(excursionID int64) string {
	return fmt.Sprintf("slots:list:%d", excursionID)
}

// GetSlotListRaw returns the cached raw JSON slot listing for an excursion.
// Raw bytes avoid an unmarshal/marshal round trip on the hot path.
func (v *ValkeyClient) GetSlotListRaw(ctx context.Context, excursionID int64) ([]byte, error) {
	data, err := v.client.Get(ctx, slotListKey(excursionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("slot list not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetSlotList caches a slot listing. Availability is derived data, so the
// TTL is kept short rather than invalidating on every booking change.
func (v *ValkeyClient) SetSlotList(ctx context.Context, excursionID int64, response any) {
	data, err := json.Marshal(response)
	if err != nil {
		return
	}
	v.client.Set(ctx, slotListKey(excursionID), data, slotListTTL)
}

// InvalidateSlotList drops the cached listing after a slot edit.
func (v *ValkeyClient) InvalidateSlotList(ctx context.Context, excursionID int64) {
	v.client.Del(ctx, slotListKey(excursionID))
}

func unreadCountKey(profileID int64) string {
	return fmt.Sprintf("notifications:unread:%d", profileID)
}

// GetUnreadCount returns the cached unread notification count.
func (v *ValkeyClient) GetUnreadCount(ctx context.Context, profileID int64) (int64, error) {
	count, err := v.client.Get(ctx, unreadCountKey(profileID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("unread count not in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}
	return count, nil
}

// SetUnreadCount caches the unread notification count briefly; the client
// polls this endpoint on a fixed interval.
func (v *ValkeyClient) SetUnreadCount(ctx context.Context, profileID int64, count int64) {
	v.client.Set(ctx, unreadCountKey(profileID), count, unreadCountTTL)
}

// InvalidateUnreadCount drops the counter after notifications change.
func (v *ValkeyClient) InvalidateUnreadCount(ctx context.Context, profileID int64) {
	v.client.Del(ctx, unreadCountKey(profileID))
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
