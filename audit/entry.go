package audit

import "time"

// ActionType is the third column of every log row.
type ActionType string

const (
	ActionEdit          ActionType = "EDIT"
	ActionBulkEdit      ActionType = "BULK_EDIT"
	ActionInsertRow     ActionType = "INSERT_ROW"
	ActionRemoveRow     ActionType = "REMOVE_ROW"
	ActionInsertColumn  ActionType = "INSERT_COLUMN"
	ActionRemoveColumn  ActionType = "REMOVE_COLUMN"
	ActionInsertGrid    ActionType = "INSERT_GRID"
	ActionRemoveGrid    ActionType = "REMOVE_GRID"
	ActionRenameSheet   ActionType = "RENAME_SHEET"
	ActionUnknownChange ActionType = "UNKNOWN_CHANGE"
)

// structuralTags are the change types the structure differ knows how to compare.
var structuralTags = map[string]ActionType{
	string(ActionInsertRow):    ActionInsertRow,
	string(ActionRemoveRow):    ActionRemoveRow,
	string(ActionInsertColumn): ActionInsertColumn,
	string(ActionRemoveColumn): ActionRemoveColumn,
	string(ActionInsertGrid):   ActionInsertGrid,
	string(ActionRemoveGrid):   ActionRemoveGrid,
	string(ActionRenameSheet):  ActionRenameSheet,
}

// ParseChangeType maps a change notification tag to an action type.
// Unrecognized or empty tags map to ActionUnknownChange.
func ParseChangeType(tag string) ActionType {
	if a, ok := structuralTags[tag]; ok {
		return a
	}
	return ActionUnknownChange
}

// Header is the fixed first row of every log destination.
var Header = []string{"Timestamp", "User", "Action Type", "Details"}

// LogEntry is one append-only row of the audit log.
type LogEntry struct {
	Timestamp  string     `json:"timestamp"`
	User       string     `json:"user"`
	ActionType ActionType `json:"action_type"`
	Details    string     `json:"details"`
}

// Row returns the entry's fields in column order.
func (e LogEntry) Row() []string {
	return []string{e.Timestamp, e.User, string(e.ActionType), e.Details}
}

// EntryFromRow is the inverse of Row.
func EntryFromRow(row []string) (LogEntry, bool) {
	if len(row) != len(Header) {
		return LogEntry{}, false
	}
	return LogEntry{
		Timestamp:  row[0],
		User:       row[1],
		ActionType: ActionType(row[2]),
		Details:    row[3],
	}, true
}

const (
	// TimestampLayout renders yyyy-MM-dd HH:mm:ss.
	TimestampLayout = "2006-01-02 15:04:05"

	UnknownUser = "Unknown User"
)

// Stamp carries the who and when shared by every entry of one notification.
type Stamp struct {
	Timestamp string
	User      string
}

// NewStamp formats t in loc and substitutes UnknownUser for an empty user.
func NewStamp(t time.Time, loc *time.Location, user string) Stamp {
	if loc == nil {
		loc = time.UTC
	}
	if user == "" {
		user = UnknownUser
	}
	return Stamp{
		Timestamp: t.In(loc).Format(TimestampLayout),
		User:      user,
	}
}

func (s Stamp) entry(action ActionType, details string) LogEntry {
	return LogEntry{
		Timestamp:  s.Timestamp,
		User:       s.User,
		ActionType: action,
		Details:    details,
	}
}
