package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// SubscriptionRecord represents a row in the trigger_subscriptions table.
type SubscriptionRecord struct {
	SubscriptionID pgtype.UUID
	DocumentID     string
	Kind           string
	CreatedAt      time.Time
}

// LogRowRecord represents a row of a per-destination log table.
type LogRowRecord struct {
	Timestamp  string
	User       string
	ActionType string
	Details    string
}
