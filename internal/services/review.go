package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

var (
	// ErrTransactionFinalized is returned when a review targets an entry
	// already completed or failed. Terminal states never transition.
	ErrTransactionFinalized = errors.New("transaction already finalized")
	// ErrInsufficientFunds is returned when approving a debit the user's
	// balance cannot cover.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// StatusUpdater transitions a pending ledger entry to a terminal status.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, transactionID uuid.UUID, status string) (*models.TransactionDB, error)
}

// BalanceApplier adjusts the balance projection.
type BalanceApplier interface {
	ApplyBalanceDelta(ctx context.Context, userID uuid.UUID, delta float64) (float64, error)
}

// LedgerInvalidator drops cached ledger pages for an identity.
type LedgerInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// ReviewService finalizes pending ledger entries on behalf of an admin.
// Callers run it inside a database transaction: a failed approval leaves
// the handler with an error status and the transaction middleware rolls
// the status change back.
type ReviewService struct {
	txns        StatusUpdater
	balances    BalanceApplier
	cache       LedgerInvalidator
	notifier    Notifier
	kafkaWriter KafkaWriter
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	txns StatusUpdater,
	balances BalanceApplier,
	cache LedgerInvalidator,
	notifier Notifier,
	kafkaWriter KafkaWriter,
) *ReviewService {
	return &ReviewService{
		txns:        txns,
		balances:    balances,
		cache:       cache,
		notifier:    notifier,
		kafkaWriter: kafkaWriter,
	}
}

// Approve completes a pending entry and applies its amount to the
// owner's balance projection, credit or debit according to the type.
func (s *ReviewService) Approve(ctx context.Context, transactionID uuid.UUID) (*models.TransactionDB, error) {
	txn, err := s.txns.UpdateStatus(ctx, transactionID, models.StatusCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionFinalized
		}
		logger.Log.Errorw("failed to complete transaction", "transactionID", transactionID, "error", err)
		return nil, err
	}

	delta := txn.Amount
	if !models.IsCredit(txn.Type) {
		delta = -delta
	}

	if _, err := s.balances.ApplyBalanceDelta(ctx, txn.UserID, delta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.Warnw("approval rejected, insufficient funds", "transactionID", transactionID, "userID", txn.UserID, "amount", txn.Amount)
			return nil, ErrInsufficientFunds
		}
		logger.Log.Errorw("failed to apply balance delta", "transactionID", transactionID, "userID", txn.UserID, "error", err)
		return nil, err
	}

	s.finalize(ctx, txn, "approved", models.SeveritySuccess)
	return txn, nil
}

// Reject fails a pending entry. The balance projection is untouched.
func (s *ReviewService) Reject(ctx context.Context, transactionID uuid.UUID) (*models.TransactionDB, error) {
	txn, err := s.txns.UpdateStatus(ctx, transactionID, models.StatusFailed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionFinalized
		}
		logger.Log.Errorw("failed to reject transaction", "transactionID", transactionID, "error", err)
		return nil, err
	}

	s.finalize(ctx, txn, "rejected", models.SeverityNeutral)
	return txn, nil
}

// finalize runs the post-decision side effects: ledger cache
// invalidation, the transaction event and the owner's notification.
func (s *ReviewService) finalize(ctx context.Context, txn *models.TransactionDB, verb, severity string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, txn.UserID); err != nil {
			logger.Log.Errorw("failed to invalidate ledger cache", "userID", txn.UserID, "error", err)
		}
	}

	s.publishEvent(ctx, txn)

	if s.notifier != nil {
		n := models.Notification{
			UserID:    txn.UserID.String(),
			Severity:  severity,
			Message:   fmt.Sprintf("Your %s of %.2f was %s", txn.Type, txn.Amount, verb),
			CreatedAt: time.Now(),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.Log.Errorw("failed to notify transaction owner", "userID", txn.UserID, "error", err)
		}
	}
}

// publishEvent publishes a transaction event to Kafka.
func (s *ReviewService) publishEvent(ctx context.Context, txn *models.TransactionDB) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	evt := models.TransactionEvent{
		TransactionID: txn.TransactionID.String(),
		Timestamp:     time.Now().Unix(),
		Amount:        txn.Amount,
		UserID:        txn.UserID.String(),
		Type:          txn.Type,
		Status:        txn.Status,
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("failed to marshal transaction event", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.TransactionID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish transaction event", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.Log.Infow("transaction event published", "transaction_id", txn.TransactionID, "status", txn.Status)
	}
}
