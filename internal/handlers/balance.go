package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/middlewares"
)

// BalanceGetter defines the interface that the balance source must implement.
type BalanceGetter interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (float64, error)
}

// BalanceResponse represents a successful response with the user balance
// swagger:model BalanceResponse
type BalanceResponse struct {
	// Current balance projection
	// default: 100.0
	Balance float64 `json:"balance"`
}

// BalanceErrorResponse represents an error response when fetching balance
// swagger:model BalanceErrorResponse
type BalanceErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewGetBalanceHandler returns an HTTP handler for fetching the user balance.
// @Summary Get user balance
// @Description Returns the cached balance projection for the authenticated user
// @Tags balance
// @Produce json
// @Success 200 {object} handlers.BalanceResponse "User balance"
// @Failure 401 {object} handlers.BalanceErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.BalanceErrorResponse "Internal server error"
// @Router /balance [get]
// @Security BearerAuth
func NewGetBalanceHandler(reader BalanceGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := middlewares.GetSessionFromContext(ctx)

		balance, err := reader.GetBalance(ctx, session.Identity())
		if err != nil {
			logger.Log.Errorw("failed to get balance", "userID", session.Identity(), "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(BalanceErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(BalanceResponse{
			Balance: balance,
		})
	}
}
