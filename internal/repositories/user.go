package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// UserReadRepository handles user read operations
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, balance, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NULL OR username = $1)
		  AND ($2::VARCHAR IS NULL OR email = $2)
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetBalance returns the cached balance projection for the user.
func (r *UserReadRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	const query = `
		SELECT balance
		FROM users
		WHERE user_id = $1
	`

	var balance float64
	err := r.db.GetContext(ctx, &balance, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", balance,
		"error", err,
	)

	if err != nil {
		return 0, err
	}

	return balance, nil
}

// UserWriteRepository handles user write operations
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

func (r *UserWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new user with a zero balance.
func (r *UserWriteRepository) Save(ctx context.Context, username, passwordHash, email string) error {
	query := `
		INSERT INTO users (user_id, username, email, password_hash, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, NOW(), NOW())
	`
	args := []any{uuid.New(), username, email, passwordHash}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// ApplyBalanceDelta adjusts the balance projection by delta and returns the
// new balance. The projection never goes negative: a debit larger than the
// current balance matches no rows and surfaces as sql.ErrNoRows.
func (r *UserWriteRepository) ApplyBalanceDelta(ctx context.Context, userID uuid.UUID, delta float64) (float64, error) {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1 AND balance + $2 >= 0
		RETURNING balance
	`
	args := []any{userID, delta}

	var balance float64
	err := sqlx.GetContext(ctx, r.executor(ctx), &balance, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", balance,
		"error", err,
	)

	if err != nil {
		return 0, err
	}

	return balance, nil
}

// SyncBalance recomputes the balance projection from completed ledger
// entries. This is the refresh operation behind the balance refresh
// endpoint: it folds in rows written by external writers such as the
// profit distribution job.
func (r *UserWriteRepository) SyncBalance(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET balance = COALESCE((
			SELECT SUM(CASE WHEN type IN ('deposit', 'profit', 'referral') THEN amount ELSE -amount END)
			FROM transactions
			WHERE user_id = $1 AND status = 'completed'
		), 0), updated_at = NOW()
		WHERE user_id = $1
	`
	args := []any{userID}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}
