package audit_test

import (
	"testing"
	"time"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = audit.Stamp{Timestamp: "2026-10-17 09:30:00", User: "ana@example.com"}

func strPtr(s string) *string { return &s }

func cellRange(row, col, rows, cols int, top sheet.Cell) sheet.Range {
	return sheet.Range{Sheet: "Budget", Row: row, Column: col, NumRows: rows, NumColumns: cols, TopLeft: top}
}

func TestRecordEdit_SingleCell(t *testing.T) {
	entry, err := audit.RecordEdit(audit.EditNotification{
		Range:    cellRange(3, 2, 1, 1, sheet.Cell{Value: "120"}),
		OldValue: strPtr("100"),
	}, stamp)
	require.NoError(t, err)

	assert.Equal(t, audit.ActionEdit, entry.ActionType)
	assert.Equal(t, "ana@example.com edited B3 on 'Budget' from '100' to '120' at 2026-10-17 09:30:00", entry.Details)
	assert.Equal(t, []string{"2026-10-17 09:30:00", "ana@example.com", "EDIT", entry.Details}, entry.Row())
}

func TestRecordEdit_SingleCellSentinels(t *testing.T) {
	entry, err := audit.RecordEdit(audit.EditNotification{
		Range: cellRange(1, 1, 1, 1, sheet.Cell{}),
	}, stamp)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com edited A1 on 'Budget' from '(blank)' to '(cleared)' at 2026-10-17 09:30:00", entry.Details)
}

func TestRecordEdit_SingleCellFormula(t *testing.T) {
	entry, err := audit.RecordEdit(audit.EditNotification{
		Range:    cellRange(5, 3, 1, 1, sheet.Cell{Value: "30", Formula: "=SUM(C1:C4)"}),
		OldValue: strPtr(""),
	}, stamp)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionEdit, entry.ActionType)
	assert.Equal(t, "ana@example.com edited C5 on 'Budget' from '' to 'Formula: =SUM(C1:C4)' at 2026-10-17 09:30:00", entry.Details)
}

func TestRecordEdit_BulkEdit(t *testing.T) {
	tests := []struct {
		name    string
		rng     sheet.Range
		details string
	}{
		{
			name:    "paste values",
			rng:     cellRange(2, 1, 4, 3, sheet.Cell{Value: "North"}),
			details: "ana@example.com updated range A2:C5 on 'Budget' with values (first cell: 'North') at 2026-10-17 09:30:00",
		},
		{
			name:    "drag formulas",
			rng:     cellRange(2, 4, 10, 1, sheet.Cell{Value: "7", Formula: "=B2*C2"}),
			details: "ana@example.com updated range D2:D11 on 'Budget' with formulas (first cell: 'Formula: =B2*C2') at 2026-10-17 09:30:00",
		},
		{
			name:    "clear row",
			rng:     cellRange(7, 1, 1, 5, sheet.Cell{}),
			details: "ana@example.com updated range A7:E7 on 'Budget' with values (first cell: '(cleared)') at 2026-10-17 09:30:00",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entry, err := audit.RecordEdit(audit.EditNotification{Range: test.rng, OldValue: strPtr("ignored")}, stamp)
			require.NoError(t, err)
			assert.Equal(t, audit.ActionBulkEdit, entry.ActionType)
			assert.Equal(t, test.details, entry.Details)
		})
	}
}

func TestRecordEdit_InvalidRange(t *testing.T) {
	_, err := audit.RecordEdit(audit.EditNotification{Range: sheet.Range{Sheet: "Budget"}}, stamp)
	assert.ErrorIs(t, err, audit.ErrInvalidRange)
}

func TestNewStamp(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	at := time.Date(2026, 1, 15, 14, 5, 9, 0, time.UTC)
	s := audit.NewStamp(at, loc, "")
	assert.Equal(t, "2026-01-15 09:05:09", s.Timestamp)
	assert.Equal(t, audit.UnknownUser, s.User)

	s = audit.NewStamp(at, nil, "bo@example.com")
	assert.Equal(t, "2026-01-15 14:05:09", s.Timestamp)
	assert.Equal(t, "bo@example.com", s.User)
}

func TestParseChangeType(t *testing.T) {
	assert.Equal(t, audit.ActionInsertRow, audit.ParseChangeType("INSERT_ROW"))
	assert.Equal(t, audit.ActionRenameSheet, audit.ParseChangeType("RENAME_SHEET"))
	assert.Equal(t, audit.ActionUnknownChange, audit.ParseChangeType("FORMAT"))
	assert.Equal(t, audit.ActionUnknownChange, audit.ParseChangeType(""))
}

func TestEntryFromRow(t *testing.T) {
	e := audit.LogEntry{Timestamp: "t", User: "u", ActionType: audit.ActionEdit, Details: "d"}
	back, ok := audit.EntryFromRow(e.Row())
	require.True(t, ok)
	assert.Equal(t, e, back)

	_, ok = audit.EntryFromRow([]string{"too", "short"})
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]audit.Kind{"EDIT": audit.KindEdit, "change": audit.KindChange, "Open": audit.KindOpen} {
		got, ok := audit.ParseKind(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := audit.ParseKind("SAVE")
	assert.False(t, ok)
}
