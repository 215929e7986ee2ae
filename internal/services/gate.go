package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// AccessState is the observable state of the admin access gate.
type AccessState string

const (
	// AccessVerifying means at least one of the two checks has not
	// settled yet. No protected content, no redirect.
	AccessVerifying AccessState = "verifying"
	// AccessUnauthenticated means the session settled without an
	// identity. The viewer belongs at the login destination.
	AccessUnauthenticated AccessState = "unauthenticated"
	// AccessUnauthorized means the identity is present but does not
	// hold the admin role, or the role check itself failed.
	AccessUnauthorized AccessState = "unauthorized"
	// AccessAuthorized is the only state that renders protected content.
	AccessAuthorized AccessState = "authorized"
)

// AdminCheck is a snapshot of the admin-role predicate for one identity.
type AdminCheck struct {
	Loading bool
	IsAdmin bool
	Err     error
}

// ResolveAccess computes the gate state from the session and the admin
// check. Session resolution is evaluated strictly first: an absent
// identity yields Unauthenticated no matter what the admin check says
// or in which order it settled. Until both checks settle the state is
// Verifying, and an admin check error is fail-closed: it gates exactly
// like "not admin".
func ResolveAccess(session models.Session, check AdminCheck) AccessState {
	if session.Loading {
		return AccessVerifying
	}
	if session.UserID == nil {
		return AccessUnauthenticated
	}
	if check.Loading {
		return AccessVerifying
	}
	if check.Err != nil || !check.IsAdmin {
		return AccessUnauthorized
	}
	return AccessAuthorized
}

// AdminChecker resolves the admin-role predicate for an identity.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// GateService guards admin destinations. It composes the session with
// the admin predicate into an AccessState and owns the denial
// notification side effect.
type GateService struct {
	admin    AdminChecker
	notifier Notifier

	mu   sync.Mutex
	last map[uuid.UUID]AccessState // last resolved state per identity, the edge-trigger memory
}

// NewGateService creates a new GateService.
func NewGateService(admin AdminChecker, notifier Notifier) *GateService {
	return &GateService{
		admin:    admin,
		notifier: notifier,
		last:     make(map[uuid.UUID]AccessState),
	}
}

// Authorize resolves the access state for the session. The admin check
// runs only once the session has settled with an identity, so an
// unauthenticated viewer is decided before the role predicate can say
// anything. The denial notification fires at most once per resolved
// state transition, not on every evaluation.
func (s *GateService) Authorize(ctx context.Context, session models.Session) AccessState {
	state := ResolveAccess(session, AdminCheck{Loading: true})

	if state == AccessVerifying && !session.Loading && session.UserID != nil {
		isAdmin, err := s.admin.IsAdmin(ctx, *session.UserID)
		if err != nil {
			logger.Log.Errorw("admin check failed, denying access", "userID", *session.UserID, "error", err)
		}
		state = ResolveAccess(session, AdminCheck{IsAdmin: isAdmin, Err: err})
	}

	s.react(ctx, session, state)
	return state
}

// react runs the edge-triggered side effects for a resolved state.
func (s *GateService) react(ctx context.Context, session models.Session, state AccessState) {
	if session.UserID == nil {
		return
	}
	userID := *session.UserID

	s.mu.Lock()
	if prev, ok := s.last[userID]; ok && prev == state {
		s.mu.Unlock()
		return
	}
	s.last[userID] = state
	s.mu.Unlock()

	if state == AccessUnauthorized && s.notifier != nil {
		n := models.Notification{
			UserID:    userID.String(),
			Severity:  models.SeverityDestructive,
			Message:   "Access denied",
			CreatedAt: time.Now(),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.Log.Errorw("failed to emit denial notification", "userID", userID, "error", err)
		}
	}
}
