package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"f0oster/sheetaudit/audit"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps each destination as a table in one SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// one writer; SQLite serializes writes anyway
	db.SetMaxOpenConns(1)
	return &SQLiteBackend{db: db}, nil
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Open(ctx context.Context, destination string) (Sink, error) {
	table := quoteIdent(destination)
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		"Timestamp" TEXT NOT NULL,
		"User" TEXT NOT NULL,
		"Action Type" TEXT NOT NULL,
		"Details" TEXT NOT NULL
	);`, table)
	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return &sqliteSink{db: b.db, name: destination, table: table}, nil
}

type sqliteSink struct {
	db    *sql.DB
	name  string
	table string
}

func (s *sqliteSink) Name() string { return s.name }

func (s *sqliteSink) Append(ctx context.Context, entry audit.LogEntry) error {
	query := fmt.Sprintf(`INSERT INTO %s ("Timestamp", "User", "Action Type", "Details") VALUES (?, ?, ?, ?)`, s.table)
	if _, err := s.db.ExecContext(ctx, query, entry.Timestamp, entry.User, string(entry.ActionType), entry.Details); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.table, err)
	}
	return nil
}

func (s *sqliteSink) Entries(ctx context.Context, limit int) ([]audit.LogEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	query := fmt.Sprintf(`SELECT "Timestamp", "User", "Action Type", "Details" FROM %s ORDER BY id DESC LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.table, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []audit.LogEntry
	for rows.Next() {
		var e audit.LogEntry
		var action string
		if err := rows.Scan(&e.Timestamp, &e.User, &action, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.table, err)
		}
		e.ActionType = audit.ActionType(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
