package database_test

import (
	"context"
	"os"
	"testing"
	"time"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/database"
	"f0oster/sheetaudit/snapshot"
	"f0oster/sheetaudit/trigger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *database.DBClient {
	t.Helper()
	dsn := os.Getenv("SHEETAUDIT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SHEETAUDIT_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	db := database.NewDatabase(dsn)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))
	return db.Client()
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	client := connect(t)
	ctx := context.Background()
	store := database.NewSnapshotStore(client)

	key := snapshot.StorageKey("pg-" + uuid.NewString())
	missing, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, missing.IsEmpty())

	s, err := snapshot.New(
		snapshot.SheetStructure{Name: "Zeta", Dimensions: snapshot.Dimensions{Rows: 10, Cols: 5}},
		snapshot.SheetStructure{Name: "Alpha", Dimensions: snapshot.Dimensions{Rows: 3, Cols: 2}},
	)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, key, s))

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, s.Names(), loaded.Names(), "sheet order survives JSON column storage")
	assert.Equal(t, s, loaded)
}

func TestLogBackend_AppendAndList(t *testing.T) {
	client := connect(t)
	ctx := context.Background()
	backend := database.NewLogBackend(client)

	destination := "Logs " + uuid.NewString()
	s, err := backend.Open(ctx, destination)
	require.NoError(t, err)

	first := audit.LogEntry{Timestamp: "2026-10-17 09:30:00", User: "a", ActionType: audit.ActionEdit, Details: "one"}
	second := audit.LogEntry{Timestamp: "2026-10-17 09:31:00", User: "b", ActionType: audit.ActionInsertGrid, Details: "two"}
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	reopened, err := backend.Open(ctx, destination)
	require.NoError(t, err)
	got, err := reopened.Entries(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []audit.LogEntry{second, first}, got)
}

func TestSubscriptionRegistry(t *testing.T) {
	client := connect(t)
	ctx := context.Background()
	reg := database.NewSubscriptionRegistry(client)

	doc := "pg-" + uuid.NewString()
	_, err := trigger.Install(ctx, reg, []string{doc})
	require.NoError(t, err)
	_, err = trigger.Install(ctx, reg, []string{doc})
	require.NoError(t, err)

	subs, err := reg.Subscriptions(ctx, doc, audit.KindChange)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, doc, subs[0].DocumentID)
	assert.Equal(t, audit.KindChange, subs[0].Kind)
	assert.NotEqual(t, uuid.Nil, subs[0].ID)
}

func TestSubscriptionRegistry_RejectsUnknownKind(t *testing.T) {
	client := connect(t)
	ctx := context.Background()
	reg := database.NewSubscriptionRegistry(client)

	doc := "pg-" + uuid.NewString()
	require.NoError(t, client.InsertSubscription(ctx, uuid.New(), doc, "SAVE", time.Now()))

	_, err := reg.Subscriptions(ctx, doc, audit.Kind("SAVE"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}
