package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
	"github.com/dkotlyar/invest-ledger/internal/services"
)

// Reviewer defines the interface that the review service must implement.
type Reviewer interface {
	Approve(ctx context.Context, transactionID uuid.UUID) (*models.TransactionDB, error)
	Reject(ctx context.Context, transactionID uuid.UUID) (*models.TransactionDB, error)
}

// ReviewResponse represents a finalized review decision
// swagger:model ReviewResponse
type ReviewResponse struct {
	// Success message
	// default: Transaction approved
	Message string `json:"message"`

	// The finalized ledger entry
	Transaction *models.TransactionDB `json:"transaction"`
}

// ReviewErrorResponse represents an error response for a review decision
// swagger:model ReviewErrorResponse
type ReviewErrorResponse struct {
	// Error message
	// default: Transaction already finalized
	Error string `json:"error"`
}

// NewApproveHandler returns an HTTP handler approving a pending transaction.
// @Summary Approve a transaction
// @Description Completes a pending ledger entry and applies its amount to the owner's balance. Admin only.
// @Tags admin
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} handlers.ReviewResponse "Transaction approved"
// @Failure 400 {object} handlers.ReviewErrorResponse "Invalid transaction ID"
// @Failure 401 {object} handlers.ReviewErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ReviewErrorResponse "Access denied"
// @Failure 409 {object} handlers.ReviewErrorResponse "Already finalized / insufficient funds"
// @Router /admin/transactions/{transactionID}/approve [post]
// @Security BearerAuth
func NewApproveHandler(svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ReviewErrorResponse{
				Error: "Invalid transaction ID",
			})
			return
		}

		txn, err := svc.Approve(r.Context(), transactionID)
		if err != nil {
			writeReviewError(w, transactionID, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ReviewResponse{
			Message:     "Transaction approved",
			Transaction: txn,
		})
	}
}

// NewRejectHandler returns an HTTP handler rejecting a pending transaction.
// @Summary Reject a transaction
// @Description Fails a pending ledger entry. The owner's balance is untouched. Admin only.
// @Tags admin
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} handlers.ReviewResponse "Transaction rejected"
// @Failure 400 {object} handlers.ReviewErrorResponse "Invalid transaction ID"
// @Failure 401 {object} handlers.ReviewErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ReviewErrorResponse "Access denied"
// @Failure 409 {object} handlers.ReviewErrorResponse "Already finalized"
// @Router /admin/transactions/{transactionID}/reject [post]
// @Security BearerAuth
func NewRejectHandler(svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ReviewErrorResponse{
				Error: "Invalid transaction ID",
			})
			return
		}

		txn, err := svc.Reject(r.Context(), transactionID)
		if err != nil {
			writeReviewError(w, transactionID, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ReviewResponse{
			Message:     "Transaction rejected",
			Transaction: txn,
		})
	}
}

func writeReviewError(w http.ResponseWriter, transactionID uuid.UUID, err error) {
	switch {
	case errors.Is(err, services.ErrTransactionFinalized):
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(ReviewErrorResponse{
			Error: "Transaction already finalized",
		})
	case errors.Is(err, services.ErrInsufficientFunds):
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(ReviewErrorResponse{
			Error: "Insufficient funds",
		})
	default:
		logger.Log.Errorw("review decision failed", "transactionID", transactionID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ReviewErrorResponse{
			Error: "Internal server error",
		})
	}
}
