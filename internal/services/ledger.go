package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// TransactionLister lists ledger entries from the backend.
type TransactionLister interface {
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDB, error)
	ListPending(ctx context.Context, limit int) ([]models.TransactionDB, error)
}

// LedgerCache caches ledger pages keyed by identity and row limit.
type LedgerCache interface {
	Get(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDB, error)
	Set(ctx context.Context, userID uuid.UUID, limit int, txns []models.TransactionDB) error
}

// LedgerService produces the ordered sequence of a user's transactions.
type LedgerService struct {
	repo  TransactionLister
	cache LedgerCache
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repo TransactionLister, cache LedgerCache) *LedgerService {
	return &LedgerService{
		repo:  repo,
		cache: cache,
	}
}

// ListTransactions returns the user's ledger newest first, at most limit
// rows when limit > 0. The nil identity short-circuits to an empty
// sequence without touching the backend or the cache. An empty ledger is
// an empty sequence, never an error.
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDB, error) {
	if userID == uuid.Nil {
		return []models.TransactionDB{}, nil
	}

	if s.cache != nil {
		if txns, err := s.cache.Get(ctx, userID, limit); err == nil {
			return txns, nil
		}
	}

	txns, err := s.repo.ListByUserID(ctx, userID, limit)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", userID, "limit", limit, "error", err)
		return nil, err
	}
	if txns == nil {
		txns = []models.TransactionDB{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, limit, txns); err != nil {
			logger.Log.Errorw("failed to cache ledger page", "userID", userID, "limit", limit, "error", err)
		}
	}

	return txns, nil
}

// ListPending returns the admin review queue, oldest first.
func (s *LedgerService) ListPending(ctx context.Context, limit int) ([]models.TransactionDB, error) {
	txns, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		logger.Log.Errorw("failed to list pending transactions", "limit", limit, "error", err)
		return nil, err
	}
	if txns == nil {
		txns = []models.TransactionDB{}
	}
	return txns, nil
}
