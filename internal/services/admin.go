package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
)

// AdminReader answers the admin-role predicate from the backend.
type AdminReader interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AdminCache caches the predicate per identity within a validity window.
type AdminCache interface {
	Get(ctx context.Context, userID uuid.UUID) (bool, error)
	Set(ctx context.Context, userID uuid.UUID, isAdmin bool) error
}

// AdminAccessService answers "does this identity hold the admin role"
// as an idempotent, cacheable predicate.
type AdminAccessService struct {
	reader AdminReader
	cache  AdminCache
}

// NewAdminAccessService creates a new AdminAccessService.
func NewAdminAccessService(reader AdminReader, cache AdminCache) *AdminAccessService {
	return &AdminAccessService{
		reader: reader,
		cache:  cache,
	}
}

// IsAdmin resolves the predicate for an identity. The nil identity
// resolves to a definite non-admin immediately, with no backend call.
// Cache misses fall through to the backend and repopulate the cache;
// a failed cache write is logged and otherwise ignored.
func (s *AdminAccessService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}

	if s.cache != nil {
		if isAdmin, err := s.cache.Get(ctx, userID); err == nil {
			return isAdmin, nil
		}
	}

	isAdmin, err := s.reader.IsAdmin(ctx, userID)
	if err != nil {
		logger.Log.Errorw("admin role check failed", "userID", userID, "error", err)
		return false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, isAdmin); err != nil {
			logger.Log.Errorw("failed to cache admin flag", "userID", userID, "error", err)
		}
	}

	return isAdmin, nil
}
