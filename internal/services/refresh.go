package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// ErrRefreshInFlight is returned when a refresh is requested while the
// previous one for the same user has not settled yet.
var ErrRefreshInFlight = errors.New("balance refresh already in progress")

// DefaultClearDelay is how long the refreshing flag stays up after the
// refresh operation succeeds, so dependent readers see the updated value
// before the spinner stops. A UX debounce, not a correctness requirement.
const DefaultClearDelay = 600 * time.Millisecond

// BalanceReader reads the live balance projection.
type BalanceReader interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (float64, error)
}

// BalanceSyncer is the external refresh operation: it rebuilds the
// balance projection from the ledger.
type BalanceSyncer interface {
	SyncBalance(ctx context.Context, userID uuid.UUID) error
}

// refreshState is the per-user controller memory: the in-flight flag and
// the balance observed at the start of the most recent refresh. Single
// writer (the service), mutated only under the service mutex.
type refreshState struct {
	refreshing bool
	previous   float64
	timer      *time.Timer
}

// RefreshService triggers balance refreshes and reports balance
// increases detected across the refresh boundary. Detection is a
// pull-based diff: it only sees increases that land while a refresh the
// user asked for is settling, which makes it best-effort by design.
type RefreshService struct {
	reader     BalanceReader
	syncer     BalanceSyncer
	notifier   Notifier
	clearDelay time.Duration

	mu     sync.Mutex
	states map[uuid.UUID]*refreshState
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(reader BalanceReader, syncer BalanceSyncer, notifier Notifier, clearDelay time.Duration) *RefreshService {
	if clearDelay <= 0 {
		clearDelay = DefaultClearDelay
	}
	return &RefreshService{
		reader:     reader,
		syncer:     syncer,
		notifier:   notifier,
		clearDelay: clearDelay,
		states:     make(map[uuid.UUID]*refreshState),
	}
}

func (s *RefreshService) state(userID uuid.UUID) *refreshState {
	st, ok := s.states[userID]
	if !ok {
		st = &refreshState{}
		s.states[userID] = st
	}
	return st
}

// IsRefreshing reports whether a refresh for the user is in flight.
func (s *RefreshService) IsRefreshing(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(userID).refreshing
}

// Refresh records the current balance, runs the external refresh
// operation and schedules the flag clearing. At most one refresh per
// user is in flight: a second call while the flag is up returns
// ErrRefreshInFlight without touching the controller state. On failure
// the flag clears immediately, a destructive notification goes out and
// the recorded previous balance is left for the next attempt.
func (s *RefreshService) Refresh(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	st := s.state(userID)
	if st.refreshing {
		s.mu.Unlock()
		return ErrRefreshInFlight
	}
	st.refreshing = true
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	s.mu.Unlock()

	current, err := s.reader.GetBalance(ctx, userID)
	if err != nil {
		s.fail(ctx, userID, err)
		return err
	}

	s.mu.Lock()
	st.previous = current
	s.mu.Unlock()

	if err := s.syncer.SyncBalance(ctx, userID); err != nil {
		s.fail(ctx, userID, err)
		return err
	}

	s.mu.Lock()
	st.timer = time.AfterFunc(s.clearDelay, func() {
		s.settle(userID)
	})
	s.mu.Unlock()

	return nil
}

// fail clears the in-flight flag and surfaces the failure to the user.
func (s *RefreshService) fail(ctx context.Context, userID uuid.UUID, cause error) {
	s.mu.Lock()
	st := s.state(userID)
	st.refreshing = false
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	s.mu.Unlock()

	logger.Log.Errorw("balance refresh failed", "userID", userID, "error", cause)

	if s.notifier != nil {
		n := models.Notification{
			UserID:    userID.String(),
			Severity:  models.SeverityDestructive,
			Message:   "Balance refresh failed",
			CreatedAt: time.Now(),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.Log.Errorw("failed to emit refresh failure notification", "userID", userID, "error", err)
		}
	}
}

// settle runs when the clearing timer fires: it drops the flag, compares
// the live balance with the one recorded at refresh start and reports an
// increase exactly once, advancing the recorded value so the same
// increase can never be reported twice.
func (s *RefreshService) settle(userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	current, readErr := s.reader.GetBalance(ctx, userID)

	s.mu.Lock()
	st := s.state(userID)
	st.refreshing = false
	st.timer = nil
	previous := st.previous
	increased := readErr == nil && current > previous
	if increased {
		st.previous = current
	}
	s.mu.Unlock()

	if readErr != nil {
		logger.Log.Errorw("failed to read balance after refresh", "userID", userID, "error", readErr)
		return
	}

	if increased && s.notifier != nil {
		n := models.Notification{
			UserID:    userID.String(),
			Severity:  models.SeveritySuccess,
			Message:   fmt.Sprintf("Balance increased by +%.2f", current-previous),
			CreatedAt: time.Now(),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.Log.Errorw("failed to emit balance increase notification", "userID", userID, "error", err)
		}
	}
}
