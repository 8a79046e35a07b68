package audit

import (
	"errors"
	"fmt"
)

// ErrInvalidRange marks an edit notification whose range cannot be described.
var ErrInvalidRange = errors.New("invalid range")

// RecordEdit turns an edit notification into exactly one log entry.
//
// Ranges wider or taller than one cell are bulk edits and only the top-left
// cell is sampled. Single-cell edits report the previous value, or "(blank)"
// when the host did not deliver one.
func RecordEdit(n EditNotification, stamp Stamp) (LogEntry, error) {
	r := n.Range
	if err := r.Validate(); err != nil {
		return LogEntry{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	if !r.IsSingleCell() {
		sample := orCleared(r.TopLeft.Content())
		details := formatBulkEdit(stamp.User, r.A1Notation(), r.Sheet, r.TopLeft.IsFormula(), sample, stamp.Timestamp)
		return stamp.entry(ActionBulkEdit, details), nil
	}

	oldValue := blankSentinel
	if n.OldValue != nil {
		oldValue = *n.OldValue
	}
	newValue := orCleared(r.TopLeft.Content())

	details := formatEdit(stamp.User, r.A1Notation(), r.Sheet, oldValue, newValue, stamp.Timestamp)
	return stamp.entry(ActionEdit, details), nil
}
