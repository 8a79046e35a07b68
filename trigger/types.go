package trigger

import (
	"time"

	"f0oster/sheetaudit/audit"

	"github.com/google/uuid"
)

// Subscription wires one notification kind of one document to the service.
type Subscription struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID string     `json:"document_id"`
	Kind       audit.Kind `json:"kind"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewSubscription creates a subscription with a fresh id.
func NewSubscription(documentID string, kind audit.Kind) Subscription {
	return Subscription{
		ID:         uuid.New(),
		DocumentID: documentID,
		Kind:       kind,
		CreatedAt:  time.Now().UTC(),
	}
}
