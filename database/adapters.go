package database

import (
	"context"
	"fmt"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/sink"
	"f0oster/sheetaudit/snapshot"
	"f0oster/sheetaudit/trigger"
)

// SnapshotStore implements snapshot.Store on the sheet_structures table.
type SnapshotStore struct {
	client *DBClient
}

func NewSnapshotStore(client *DBClient) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Load(ctx context.Context, key string) (snapshot.Snapshot, error) {
	raw, err := s.client.GetStructure(ctx, key)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Decode(raw)
}

func (s *SnapshotStore) Save(ctx context.Context, key string, snap snapshot.Snapshot) error {
	raw, err := snapshot.Encode(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.client.UpsertStructure(ctx, key, raw)
}

// LogBackend implements sink.Backend with one table per log destination.
type LogBackend struct {
	client *DBClient
}

func NewLogBackend(client *DBClient) *LogBackend {
	return &LogBackend{client: client}
}

func (b *LogBackend) Open(ctx context.Context, destination string) (sink.Sink, error) {
	if err := b.client.CreateLogTable(ctx, destination); err != nil {
		return nil, err
	}
	return &logSink{client: b.client, destination: destination}, nil
}

type logSink struct {
	client      *DBClient
	destination string
}

func (s *logSink) Name() string { return s.destination }

func (s *logSink) Append(ctx context.Context, entry audit.LogEntry) error {
	return s.client.InsertLogRow(ctx, s.destination, LogRowRecord{
		Timestamp:  entry.Timestamp,
		User:       entry.User,
		ActionType: string(entry.ActionType),
		Details:    entry.Details,
	})
}

func (s *logSink) Entries(ctx context.Context, limit int) ([]audit.LogEntry, error) {
	rows, err := s.client.ListLogRows(ctx, s.destination, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]audit.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, audit.LogEntry{
			Timestamp:  row.Timestamp,
			User:       row.User,
			ActionType: audit.ActionType(row.ActionType),
			Details:    row.Details,
		})
	}
	return entries, nil
}

// SubscriptionRegistry implements trigger.Registry on the trigger_subscriptions table.
type SubscriptionRegistry struct {
	client *DBClient
}

func NewSubscriptionRegistry(client *DBClient) *SubscriptionRegistry {
	return &SubscriptionRegistry{client: client}
}

func (r *SubscriptionRegistry) Register(ctx context.Context, sub trigger.Subscription) error {
	return r.client.InsertSubscription(ctx, sub.ID, sub.DocumentID, string(sub.Kind), sub.CreatedAt)
}

func (r *SubscriptionRegistry) Subscriptions(ctx context.Context, documentID string, kind audit.Kind) ([]trigger.Subscription, error) {
	records, err := r.client.ListSubscriptions(ctx, documentID, string(kind))
	if err != nil {
		return nil, err
	}
	subs := make([]trigger.Subscription, 0, len(records))
	for _, rec := range records {
		k, ok := audit.ParseKind(rec.Kind)
		if !ok {
			return nil, fmt.Errorf("subscription %s has unknown kind %q", pgtypeToUUID(rec.SubscriptionID), rec.Kind)
		}
		subs = append(subs, trigger.Subscription{
			ID:         pgtypeToUUID(rec.SubscriptionID),
			DocumentID: rec.DocumentID,
			Kind:       k,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return subs, nil
}
