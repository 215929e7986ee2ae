package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dkotlyar/invest-ledger/internal/logger"
)

// ErrAdminFlagNotCached is returned when no admin flag is cached for the identity.
var ErrAdminFlagNotCached = errors.New("admin flag not found in cache")

// AdminCacheRepository caches the admin-role predicate per identity in
// Redis so repeated gate passes within the TTL issue no database query.
type AdminCacheRepository struct {
	client *redis.Client
	exp    time.Duration // validity window for a cached flag
}

// NewAdminCacheRepository creates a new repository instance with the given TTL
func NewAdminCacheRepository(client *redis.Client, expiration time.Duration) *AdminCacheRepository {
	return &AdminCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// Get fetches the cached admin flag for an identity.
func (r *AdminCacheRepository) Get(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := fmt.Sprintf("admin:%s", userID)

	val, err := r.client.Get(ctx, key).Result()

	logger.Log.Infow(
		"key", key,
		"result", val,
		"error", err,
	)

	if err != nil {
		if err == redis.Nil {
			return false, ErrAdminFlagNotCached
		}
		return false, err
	}

	return val == "1", nil
}

// Set caches the admin flag for an identity with the repository TTL.
func (r *AdminCacheRepository) Set(ctx context.Context, userID uuid.UUID, isAdmin bool) error {
	key := fmt.Sprintf("admin:%s", userID)

	val := "0"
	if isAdmin {
		val = "1"
	}
	err := r.client.Set(ctx, key, val, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"value", val,
		"error", err,
	)

	return err
}
