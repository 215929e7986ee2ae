package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// ErrLedgerPageNotCached is returned when no ledger page is cached for the key.
var ErrLedgerPageNotCached = errors.New("ledger page not found in cache")

// LedgerCacheRepository caches ledger pages in Redis. The key carries
// both the identity and the row limit, so views with different limits
// never collide.
type LedgerCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewLedgerCacheRepository creates a new repository instance with the given TTL
func NewLedgerCacheRepository(client *redis.Client, expiration time.Duration) *LedgerCacheRepository {
	return &LedgerCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func ledgerKey(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("ledger:%s:%d", userID, limit)
}

// Get fetches a cached ledger page.
func (r *LedgerCacheRepository) Get(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDB, error) {
	key := ledgerKey(userID, limit)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, ErrLedgerPageNotCached
		}
		return nil, err
	}

	var txns []models.TransactionDB
	if err := json.Unmarshal(val, &txns); err != nil {
		logger.Log.Errorw("failed to unmarshal cached ledger page", "key", key, "error", err)
		return nil, err
	}

	logger.Log.Infow(
		"key", key,
		"rows", len(txns),
		"error", nil,
	)

	return txns, nil
}

// Set caches a ledger page with the repository TTL.
func (r *LedgerCacheRepository) Set(ctx context.Context, userID uuid.UUID, limit int, txns []models.TransactionDB) error {
	key := ledgerKey(userID, limit)

	data, err := json.Marshal(txns)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"rows", len(txns),
		"error", err,
	)

	return err
}

// Invalidate drops every cached page for the identity, whatever the
// limit. Called after any ledger write for the user.
func (r *LedgerCacheRepository) Invalidate(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("ledger:%s:*", userID)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Errorw("failed to scan ledger cache keys", "pattern", pattern, "error", err)
		return err
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			logger.Log.Errorw("failed to invalidate ledger cache", "pattern", pattern, "error", err)
			return err
		}
	}

	logger.Log.Infow(
		"pattern", pattern,
		"invalidated", len(keys),
		"error", nil,
	)

	return nil
}
