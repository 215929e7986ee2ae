package models

import "time"

// Notification severities for the user-visible message channel.
const (
	SeverityNeutral     = "neutral"
	SeveritySuccess     = "success"
	SeverityDestructive = "destructive"
)

// Notification is a transient user-visible message delivered through
// the notification channel (Kafka topic consumed by the delivery system).
type Notification struct {
	UserID    string    `json:"user_id"`         // Recipient identity
	Severity  string    `json:"severity"`        // One of the Severity* constants
	Message   string    `json:"message"`         // Human-readable text
	Style     string    `json:"style,omitempty"` // Optional styling hint for the client
	CreatedAt time.Time `json:"created_at"`      // Emission time
}
