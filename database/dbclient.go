package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DBClient struct {
	pool *pgxpool.Pool
}

func NewDBClient(pool *pgxpool.Pool) *DBClient {
	return &DBClient{pool: pool}
}

// GetStructure returns the stored snapshot JSON, or nil when the key is unknown.
func (r *DBClient) GetStructure(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, GetStructure, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get structure query failed: %w", err)
	}
	return raw, nil
}

func (r *DBClient) UpsertStructure(ctx context.Context, key string, structureJSON []byte) error {
	if _, err := r.pool.Exec(ctx, UpsertStructure, key, structureJSON); err != nil {
		return fmt.Errorf("upsert structure query failed: %w", err)
	}
	return nil
}

func (r *DBClient) CreateLogTable(ctx context.Context, destination string) error {
	if _, err := r.pool.Exec(ctx, createLogTableQuery(logTable(destination))); err != nil {
		return fmt.Errorf("create log table %s failed: %w", destination, err)
	}
	return nil
}

func (r *DBClient) InsertLogRow(ctx context.Context, destination string, row LogRowRecord) error {
	_, err := r.pool.Exec(ctx, insertLogRowQuery(logTable(destination)),
		row.Timestamp, row.User, row.ActionType, row.Details)
	if err != nil {
		return fmt.Errorf("insert log row into %s failed: %w", destination, err)
	}
	return nil
}

// ListLogRows returns up to limit rows, newest first. A limit of zero or less returns all rows.
func (r *DBClient) ListLogRows(ctx context.Context, destination string, limit int) ([]LogRowRecord, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.pool.Query(ctx, listLogRowsQuery(logTable(destination)), limitArg)
	if err != nil {
		return nil, fmt.Errorf("list log rows from %s failed: %w", destination, err)
	}
	defer rows.Close()

	var out []LogRowRecord
	for rows.Next() {
		var rec LogRowRecord
		if err := rows.Scan(&rec.Timestamp, &rec.User, &rec.ActionType, &rec.Details); err != nil {
			return nil, fmt.Errorf("scan log row from %s failed: %w", destination, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *DBClient) InsertSubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
	documentID string,
	kind string,
	createdAt time.Time,
) error {
	_, err := r.pool.Exec(ctx, InsertSubscription, uuidToPgtype(subscriptionID), documentID, kind, createdAt)
	if err != nil {
		return fmt.Errorf("insert subscription failed: %w", err)
	}
	return nil
}

func (r *DBClient) ListSubscriptions(ctx context.Context, documentID string, kind string) ([]SubscriptionRecord, error) {
	rows, err := r.pool.Query(ctx, ListSubscriptions, documentID, kind)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions query failed: %w", err)
	}
	defer rows.Close()

	var out []SubscriptionRecord
	for rows.Next() {
		var rec SubscriptionRecord
		if err := rows.Scan(&rec.SubscriptionID, &rec.DocumentID, &rec.Kind, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription failed: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
