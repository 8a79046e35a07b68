package sink

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"f0oster/sheetaudit/audit"
)

// Sink is an append-only log destination.
type Sink interface {
	// Name is the destination name the sink was opened with.
	Name() string

	Append(ctx context.Context, entry audit.LogEntry) error

	// Entries returns up to limit entries, newest first.
	Entries(ctx context.Context, limit int) ([]audit.LogEntry, error)
}

// Backend opens a destination, creating it with audit.Header when missing.
type Backend interface {
	Open(ctx context.Context, destination string) (Sink, error)
}

// Router maps a document to the name of its log destination.
type Router interface {
	Destination(documentID string) (string, bool)

	// Destinations lists every destination a document can be routed to.
	Destinations() []string
}

// Resolver locates or creates the log sink for a document and caches it.
type Resolver struct {
	router  Router
	backend Backend

	mu    sync.Mutex
	sinks map[string]Sink
}

func NewResolver(router Router, backend Backend) *Resolver {
	return &Resolver{
		router:  router,
		backend: backend,
		sinks:   make(map[string]Sink),
	}
}

// Resolve returns the sink for documentID. The bool is false for documents the
// router does not know; callers skip those silently.
func (r *Resolver) Resolve(ctx context.Context, documentID string) (Sink, bool, error) {
	destination, ok := r.router.Destination(documentID)
	if !ok {
		return nil, false, nil
	}
	s, err := r.open(ctx, destination)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// Lookup returns the sink for a destination name. The bool is false for names
// the router never routes to, and nothing is created for them.
func (r *Resolver) Lookup(ctx context.Context, destination string) (Sink, bool, error) {
	if !slices.Contains(r.router.Destinations(), destination) {
		return nil, false, nil
	}
	s, err := r.open(ctx, destination)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (r *Resolver) open(ctx context.Context, destination string) (Sink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sinks[destination]; ok {
		return s, nil
	}
	s, err := r.backend.Open(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("failed to open log destination '%s': %w", destination, err)
	}
	r.sinks[destination] = s
	return s, nil
}

// MemorySink keeps entries in a slice. Useful for tests and dry runs.
type MemorySink struct {
	name string

	mu      sync.Mutex
	entries []audit.LogEntry
}

func NewMemorySink(name string) *MemorySink {
	return &MemorySink{name: name}
}

func (m *MemorySink) Name() string { return m.name }

func (m *MemorySink) Append(_ context.Context, entry audit.LogEntry) error {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

func (m *MemorySink) Entries(_ context.Context, limit int) ([]audit.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newestFirst(m.entries, limit), nil
}

// Len is the number of appended entries.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// MemoryBackend hands out one MemorySink per destination.
type MemoryBackend struct {
	mu    sync.Mutex
	sinks map[string]*MemorySink
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sinks: make(map[string]*MemorySink)}
}

func (b *MemoryBackend) Open(_ context.Context, destination string) (Sink, error) {
	return b.Sink(destination), nil
}

// Sink returns the memory sink for a destination, creating it if needed.
func (b *MemoryBackend) Sink(destination string) *MemorySink {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sinks[destination]
	if !ok {
		s = NewMemorySink(destination)
		b.sinks[destination] = s
	}
	return s
}

func newestFirst(entries []audit.LogEntry, limit int) []audit.LogEntry {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]audit.LogEntry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out
}
