package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// KeyPrefix is the storage key used for the structure snapshot of a document.
const KeyPrefix = "sheetStructure"

// Store persists the most recent snapshot under a key.
// Load returns an empty snapshot when nothing was saved under the key.
type Store interface {
	Load(ctx context.Context, key string) (Snapshot, error)
	Save(ctx context.Context, key string, snap Snapshot) error
}

// StorageKey returns the key for a document. Single-document deployments pass an
// empty documentID and share the fixed key.
func StorageKey(documentID string) string {
	if documentID == "" {
		return KeyPrefix
	}
	return KeyPrefix + ":" + documentID
}

// Encode serializes a snapshot for storage.
func Encode(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// Decode parses stored bytes. Empty input decodes to an empty snapshot.
func Decode(data []byte) (Snapshot, error) {
	var snap Snapshot
	if len(data) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// MemoryStore keeps snapshots in process memory, encoded the same way as the
// durable stores so round trips behave identically.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Snapshot, error) {
	m.mu.Lock()
	raw := m.data[key]
	m.mu.Unlock()
	return Decode(raw)
}

func (m *MemoryStore) Save(_ context.Context, key string, snap Snapshot) error {
	raw, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}
