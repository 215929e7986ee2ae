package models

import "github.com/google/uuid"

// Session is the resolved authentication state for one request.
// Loading marks a session whose resolution has not settled yet;
// a settled session with a nil UserID means "no identity".
type Session struct {
	UserID  *uuid.UUID
	Loading bool
}

// Identity returns the session's user ID, or uuid.Nil when absent.
func (s Session) Identity() uuid.UUID {
	if s.UserID == nil {
		return uuid.Nil
	}
	return *s.UserID
}

// Anonymous reports whether the session settled without an identity.
func (s Session) Anonymous() bool {
	return !s.Loading && s.UserID == nil
}
