package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/middlewares"
	"github.com/dkotlyar/invest-ledger/internal/services"
)

// Refresher defines the interface that the refresh controller must implement.
type Refresher interface {
	Refresh(ctx context.Context, userID uuid.UUID) error
	IsRefreshing(userID uuid.UUID) bool
}

// RefreshResponse represents an accepted refresh request
// swagger:model RefreshResponse
type RefreshResponse struct {
	// Status message
	// default: Balance refresh started
	Message string `json:"message"`

	// Whether a refresh is currently in flight
	// default: true
	Refreshing bool `json:"refreshing"`
}

// RefreshErrorResponse represents an error response for refresh
// swagger:model RefreshErrorResponse
type RefreshErrorResponse struct {
	// Error message
	// default: Balance refresh failed
	Error string `json:"error"`
}

// NewRefreshHandler returns an HTTP handler triggering a balance refresh.
// @Summary Refresh balance
// @Description Rebuilds the balance projection from the ledger. At most one refresh per user is in flight; a concurrent request is a no-op.
// @Tags balance
// @Produce json
// @Success 202 {object} handlers.RefreshResponse "Refresh started or already in progress"
// @Failure 401 {object} handlers.RefreshErrorResponse "Unauthorized"
// @Failure 502 {object} handlers.RefreshErrorResponse "Refresh operation failed"
// @Router /balance/refresh [post]
// @Security BearerAuth
func NewRefreshHandler(svc Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := middlewares.GetSessionFromContext(ctx)
		userID := session.Identity()

		if err := svc.Refresh(ctx, userID); err != nil {
			if errors.Is(err, services.ErrRefreshInFlight) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusAccepted)
				json.NewEncoder(w).Encode(RefreshResponse{
					Message:    "Balance refresh already in progress",
					Refreshing: true,
				})
				return
			}

			logger.Log.Errorw("balance refresh failed", "userID", userID, "error", err)
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(RefreshErrorResponse{
				Error: "Balance refresh failed",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(RefreshResponse{
			Message:    "Balance refresh started",
			Refreshing: svc.IsRefreshing(userID),
		})
	}
}
