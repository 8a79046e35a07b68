package database

import "fmt"

const (
	GetStructure = `
		SELECT structure
		FROM sheet_structures
		WHERE structure_key = $1`

	UpsertStructure = `
		INSERT INTO sheet_structures (structure_key, structure, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (structure_key)
		DO UPDATE SET
			structure = EXCLUDED.structure,
			updated_at = NOW()`

	InsertSubscription = `
		INSERT INTO trigger_subscriptions (subscription_id, document_id, kind, created_at)
		VALUES ($1, $2, $3, $4)`

	ListSubscriptions = `
		SELECT subscription_id, document_id, kind, created_at
		FROM trigger_subscriptions
		WHERE document_id = $1 AND kind = $2
		ORDER BY created_at`
)

// The log table queries take the quoted table name, which cannot be a bind parameter.

func createLogTableQuery(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			"Timestamp" TEXT NOT NULL,
			"User" TEXT NOT NULL,
			"Action Type" TEXT NOT NULL,
			"Details" TEXT NOT NULL
		)`, table)
}

func insertLogRowQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s ("Timestamp", "User", "Action Type", "Details")
		VALUES ($1, $2, $3, $4)`, table)
}

func listLogRowsQuery(table string) string {
	return fmt.Sprintf(`
		SELECT "Timestamp", "User", "Action Type", "Details"
		FROM %s
		ORDER BY id DESC
		LIMIT $1`, table)
}
