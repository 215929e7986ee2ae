package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/middlewares"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// LedgerReader defines the interface that the ledger service must implement.
type LedgerReader interface {
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDB, error)
}

// TransactionsResponse represents a successful ledger listing
// swagger:model TransactionsResponse
type TransactionsResponse struct {
	// Ledger entries, newest first
	Transactions []models.TransactionDB `json:"transactions"`
}

// TransactionsErrorResponse represents an error response when listing transactions
// swagger:model TransactionsErrorResponse
type TransactionsErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewTransactionsHandler returns an HTTP handler listing the caller's ledger.
// @Summary List transactions
// @Description Returns the authenticated user's ledger entries in descending creation order, optionally limited.
// @Tags ledger
// @Produce json
// @Param limit query int false "Maximum number of rows"
// @Success 200 {object} handlers.TransactionsResponse "Ledger entries"
// @Failure 400 {object} handlers.TransactionsErrorResponse "Invalid limit"
// @Failure 401 {object} handlers.TransactionsErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.TransactionsErrorResponse "Internal server error"
// @Router /transactions [get]
// @Security BearerAuth
func NewTransactionsHandler(svc LedgerReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := middlewares.GetSessionFromContext(ctx)

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Invalid limit",
				})
				return
			}
			limit = parsed
		}

		txns, err := svc.ListTransactions(ctx, session.Identity(), limit)
		if err != nil {
			logger.Log.Errorw("failed to list transactions", "userID", session.Identity(), "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(TransactionsErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransactionsResponse{
			Transactions: txns,
		})
	}
}
