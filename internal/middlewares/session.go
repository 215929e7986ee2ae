package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// SessionTokener defines the token operations needed to resolve a session.
type SessionTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetUserID(ctx context.Context, tokenString string) (uuid.UUID, error)
}

// sessionKey is the context key under which the resolved session is stored.
type sessionKey struct{}

// SetSessionToContext stores a resolved session in the context.
func SetSessionToContext(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext retrieves the resolved session. A missing session
// reads as "still loading" so downstream gates stay in their waiting
// state instead of acting on an unset identity.
func GetSessionFromContext(ctx context.Context) models.Session {
	session, ok := ctx.Value(sessionKey{}).(models.Session)
	if !ok {
		return models.Session{Loading: true}
	}
	return session
}

// SessionMiddleware resolves the bearer token into a settled
// models.Session and threads it through the request context. It never
// rejects: a missing or invalid token settles as an anonymous session,
// and downstream guards decide what that means for the route.
func SessionMiddleware(tokener SessionTokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session := models.Session{}
			if tokenString, err := tokener.GetTokenFromRequest(ctx, r); err == nil {
				if userID, err := tokener.GetUserID(ctx, tokenString); err == nil {
					session.UserID = &userID
				} else {
					logger.Log.Infow("session token rejected", "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(SetSessionToContext(ctx, session)))
		})
	}
}

// AuthErrorResponse is the JSON body for rejected requests.
type AuthErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`

	// Destination the client should navigate to, replacing history
	// default: /login
	Redirect string `json:"redirect,omitempty"`
}

// RequireAuth rejects requests whose session settled without an identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session.Loading || session.UserID == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AuthErrorResponse{
				Error:    "Unauthorized",
				Redirect: LoginPath,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
