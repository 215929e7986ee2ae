package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// TransactionReadRepository handles ledger read operations
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// ListByUserID returns the user's ledger entries strictly descending by
// creation time. A limit of zero or less returns the full set.
func (r *TransactionReadRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDB, error) {
	query := `
		SELECT transaction_id, user_id, type, amount, description, reference_id, status, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var txns []models.TransactionDB
	err := r.db.SelectContext(ctx, &txns, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"rows", len(txns),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return txns, nil
}

// ListPending returns pending ledger entries oldest first, the order an
// admin reviews them in. A limit of zero or less returns the full queue.
func (r *TransactionReadRepository) ListPending(ctx context.Context, limit int) ([]models.TransactionDB, error) {
	query := `
		SELECT transaction_id, user_id, type, amount, description, reference_id, status, created_at
		FROM transactions
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var txns []models.TransactionDB
	err := r.db.SelectContext(ctx, &txns, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"rows", len(txns),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return txns, nil
}

// TransactionWriteRepository handles ledger write operations
type TransactionWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, txGetter: txGetter}
}

func (r *TransactionWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new pending ledger entry and returns it.
func (r *TransactionWriteRepository) Save(ctx context.Context, userID uuid.UUID, txType string, amount float64, description *string, referenceID *uuid.UUID) (*models.TransactionDB, error) {
	query := `
		INSERT INTO transactions (transaction_id, user_id, type, amount, description, reference_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', NOW())
		RETURNING transaction_id, user_id, type, amount, description, reference_id, status, created_at
	`
	args := []any{uuid.New(), userID, txType, amount, description, referenceID}

	var txn models.TransactionDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &txn, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// UpdateStatus transitions a pending entry to the given terminal status
// and returns the updated row. Entries already completed or failed never
// match the WHERE clause, so terminal states are immutable at the SQL
// level; the caller sees sql.ErrNoRows for them.
func (r *TransactionWriteRepository) UpdateStatus(ctx context.Context, transactionID uuid.UUID, status string) (*models.TransactionDB, error) {
	query := `
		UPDATE transactions
		SET status = $2
		WHERE transaction_id = $1 AND status = 'pending'
		RETURNING transaction_id, user_id, type, amount, description, reference_id, status, created_at
	`
	args := []any{transactionID, status}

	var txn models.TransactionDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &txn, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &txn, nil
}
