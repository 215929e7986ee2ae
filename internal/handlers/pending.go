package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// PendingLister defines the interface that the ledger service must implement.
type PendingLister interface {
	ListPending(ctx context.Context, limit int) ([]models.TransactionDB, error)
}

// PendingResponse represents the admin review queue
// swagger:model PendingResponse
type PendingResponse struct {
	// Pending ledger entries, oldest first
	Transactions []models.TransactionDB `json:"transactions"`
}

// PendingErrorResponse represents an error response when listing the queue
// swagger:model PendingErrorResponse
type PendingErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewPendingHandler returns an HTTP handler listing the admin review queue.
// @Summary List pending transactions
// @Description Returns pending ledger entries awaiting review, oldest first. Admin only.
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum number of rows"
// @Success 200 {object} handlers.PendingResponse "Pending entries"
// @Failure 400 {object} handlers.PendingErrorResponse "Invalid limit"
// @Failure 401 {object} handlers.PendingErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.PendingErrorResponse "Access denied"
// @Failure 500 {object} handlers.PendingErrorResponse "Internal server error"
// @Router /admin/transactions/pending [get]
// @Security BearerAuth
func NewPendingHandler(svc PendingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PendingErrorResponse{
					Error: "Invalid limit",
				})
				return
			}
			limit = parsed
		}

		txns, err := svc.ListPending(ctx, limit)
		if err != nil {
			logger.Log.Errorw("failed to list pending transactions", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(PendingErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(PendingResponse{
			Transactions: txns,
		})
	}
}
