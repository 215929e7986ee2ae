package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types. The set is closed: the sign convention of Amount
// is implied by the type (deposit/profit/referral credit the balance,
// withdrawal/investment debit it), never stored.
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypeInvestment = "investment"
	TypeProfit     = "profit"
	TypeReferral   = "referral"
)

// Transaction statuses. Pending is the only non-terminal state:
// the valid transitions are pending->completed and pending->failed.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// TransactionDB represents a ledger row in the database
type TransactionDB struct {
	TransactionID uuid.UUID  `json:"transaction_id" db:"transaction_id"` // Unique ledger entry identifier
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`               // Owning identity, immutable
	Type          string     `json:"type" db:"type"`                     // One of the Type* constants
	Amount        float64    `json:"amount" db:"amount"`                 // Monetary value, always positive
	Description   *string    `json:"description,omitempty" db:"description"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty" db:"reference_id"` // Optional link to an external request record
	Status        string     `json:"status" db:"status"`                       // One of the Status* constants
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`               // Sole ordering key, newest first
}

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// IsCredit reports whether the transaction type increases the balance
// projection when the entry completes.
func IsCredit(txType string) bool {
	switch txType {
	case TypeDeposit, TypeProfit, TypeReferral:
		return true
	}
	return false
}

// TransactionEvent is the message published to Kafka whenever a ledger
// entry is finalized by an admin review.
type TransactionEvent struct {
	TransactionID string  `json:"transaction_id"` // Ledger entry identifier
	Timestamp     int64   `json:"timestamp"`      // Unix timestamp of the review decision
	Amount        float64 `json:"amount"`         // Monetary value of the entry
	UserID        string  `json:"user_id"`        // Owner of the entry
	Type          string  `json:"type"`           // Transaction type
	Status        string  `json:"status"`         // Final status after review
}
