package audit

import (
	"strings"

	"f0oster/sheetaudit/sheet"
	"f0oster/sheetaudit/snapshot"
)

// EditNotification is delivered when a cell range is edited.
type EditNotification struct {
	Source string      `json:"source"`
	User   string      `json:"user"`
	Range  sheet.Range `json:"range"`

	// OldValue is only delivered for single-cell edits, and not always then.
	OldValue *string `json:"old_value,omitempty"`

	// Structure is the document structure after the edit, if the host captured it.
	Structure *snapshot.Snapshot `json:"structure,omitempty"`
}

// ChangeNotification is delivered for structural changes.
type ChangeNotification struct {
	Source     string `json:"source"`
	User       string `json:"user"`
	ChangeType string `json:"change_type"`

	// ActiveSheet, ActiveRow and ActiveColumn describe the selection when the
	// notification was delivered. The host does not report where a row or column
	// was inserted, so these indexes are approximate: focus may have moved since.
	ActiveSheet  string `json:"active_sheet"`
	ActiveRow    int    `json:"active_row"`
	ActiveColumn int    `json:"active_column"`

	Structure snapshot.Snapshot `json:"structure"`
}

// OpenNotification is delivered when a document is opened. It only advances the baseline.
type OpenNotification struct {
	Source    string            `json:"source"`
	User      string            `json:"user"`
	Structure snapshot.Snapshot `json:"structure"`
}

// Kind names the notification types the host delivers.
type Kind string

const (
	KindEdit   Kind = "EDIT"
	KindChange Kind = "CHANGE"
	KindOpen   Kind = "OPEN"
)

// ParseKind accepts the kind names case-insensitively.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToUpper(s)) {
	case KindEdit:
		return KindEdit, true
	case KindChange:
		return KindChange, true
	case KindOpen:
		return KindOpen, true
	}
	return "", false
}
