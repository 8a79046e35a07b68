package trigger

import (
	"context"
	"fmt"
	"sync"

	"f0oster/sheetaudit/audit"
)

// Registry stores subscriptions. Registering the same document and kind twice
// keeps both records.
type Registry interface {
	Register(ctx context.Context, sub Subscription) error
	Subscriptions(ctx context.Context, documentID string, kind audit.Kind) ([]Subscription, error)
}

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu   sync.Mutex
	subs []Subscription
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

func (r *MemoryRegistry) Register(_ context.Context, sub Subscription) error {
	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) Subscriptions(_ context.Context, documentID string, kind audit.Kind) ([]Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Subscription
	for _, s := range r.subs {
		if s.DocumentID == documentID && s.Kind == kind {
			out = append(out, s)
		}
	}
	return out, nil
}

// Install registers edit, change and open subscriptions for every document.
// It is not idempotent: running it twice registers every subscription twice.
func Install(ctx context.Context, registry Registry, documentIDs []string) ([]Subscription, error) {
	var installed []Subscription
	for _, doc := range documentIDs {
		for _, kind := range []audit.Kind{audit.KindEdit, audit.KindChange, audit.KindOpen} {
			sub := NewSubscription(doc, kind)
			if err := registry.Register(ctx, sub); err != nil {
				return installed, fmt.Errorf("failed to register %s subscription for %s: %w", kind, doc, err)
			}
			installed = append(installed, sub)
		}
	}
	return installed, nil
}
