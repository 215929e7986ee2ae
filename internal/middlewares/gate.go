package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkotlyar/invest-ledger/internal/models"
	"github.com/dkotlyar/invest-ledger/internal/services"
)

// Routing destinations consumed by the access guards.
const (
	// LoginPath is where unauthenticated viewers are sent.
	LoginPath = "/login"
	// DashboardPath is the non-admin landing destination for denied viewers.
	DashboardPath = "/dashboard"
)

// AccessAuthorizer resolves the access gate state for a session.
type AccessAuthorizer interface {
	Authorize(ctx context.Context, session models.Session) services.AccessState
}

// GateErrorResponse is the JSON body for requests stopped by the gate.
type GateErrorResponse struct {
	// Error message
	// default: Access denied
	Error string `json:"error"`

	// Destination the client should navigate to, replacing history
	// default: /dashboard
	Redirect string `json:"redirect,omitempty"`
}

// AdminGateMiddleware guards admin routes behind the access gate.
// Protected handlers run only in the Authorized state; every other state
// stops the request here, so protected content is never written for an
// unauthorized viewer, not even transiently.
func AdminGateMiddleware(gate AccessAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())

			switch gate.Authorize(r.Context(), session) {
			case services.AccessAuthorized:
				next.ServeHTTP(w, r)

			case services.AccessUnauthenticated:
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(GateErrorResponse{
					Error:    "Unauthorized",
					Redirect: LoginPath,
				})

			case services.AccessUnauthorized:
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(GateErrorResponse{
					Error:    "Access denied",
					Redirect: DashboardPath,
				})

			default:
				// Verifying: neither check has settled. Fail closed
				// without redirecting anywhere.
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(GateErrorResponse{
					Error: "Authorization pending",
				})
			}
		})
	}
}
