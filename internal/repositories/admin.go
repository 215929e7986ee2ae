package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dkotlyar/invest-ledger/internal/logger"
)

// AdminReadRepository answers the admin-role predicate from the
// user_roles table.
type AdminReadRepository struct {
	db *sqlx.DB
}

func NewAdminReadRepository(db *sqlx.DB) *AdminReadRepository {
	return &AdminReadRepository{db: db}
}

// IsAdmin reports whether the identity holds the admin role.
func (r *AdminReadRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM user_roles
			WHERE user_id = $1 AND role = 'admin'
		)
	`

	var isAdmin bool
	err := r.db.GetContext(ctx, &isAdmin, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", isAdmin,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return isAdmin, nil
}
