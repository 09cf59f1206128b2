package domain

import "time"

// Severity grades a notification.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeveritySuccess Severity = "SUCCESS"
	SeverityAlert   Severity = "ALERT"
)

// Notification is the user-facing side-channel record paired with every
// successful mutation. Notifications are process-local, not tenant
// scoped, and retained in a bounded window (see MaxNotifications).
type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// MaxNotifications is the retention bound for the notification list.
const MaxNotifications = 100
