package audit

import (
	"f0oster/sheetaudit/diff"
	"f0oster/sheetaudit/snapshot"
)

// Classify compares the previous snapshot against the structure carried by a
// change notification. It returns the snapshot that becomes the next baseline
// and the entry to log, or nil when no describable delta was found.
//
// Row and column counts are compared for the active sheet only, so inserts on
// another sheet or several simultaneous edits are not attributed correctly.
func Classify(prev snapshot.Snapshot, n ChangeNotification, stamp Stamp) (snapshot.Snapshot, *LogEntry) {
	next := n.Structure
	user, ts := stamp.User, stamp.Timestamp

	switch ParseChangeType(n.ChangeType) {
	case ActionInsertRow, ActionRemoveRow:
		active, _ := diff.ChangeFor(diff.FindChanges(prev, next), n.ActiveSheet)
		return next, lineChange(stamp, active.RowDelta(), "row", n.ActiveRow, n.ActiveSheet, ActionInsertRow, ActionRemoveRow)

	case ActionInsertColumn, ActionRemoveColumn:
		active, _ := diff.ChangeFor(diff.FindChanges(prev, next), n.ActiveSheet)
		return next, lineChange(stamp, active.ColDelta(), "column", n.ActiveColumn, n.ActiveSheet, ActionInsertColumn, ActionRemoveColumn)

	case ActionInsertGrid:
		details := formatUnattributed(user, "added a sheet", ts)
		if name, ok := diff.FirstAdded(prev, next); ok {
			details = formatSheetAdded(user, name, ts)
		}
		e := stamp.entry(ActionInsertGrid, details)
		return next, &e

	case ActionRemoveGrid:
		details := formatUnattributed(user, "deleted a sheet", ts)
		if name, ok := diff.FirstRemoved(prev, next); ok {
			details = formatSheetRemoved(user, name, ts)
		}
		e := stamp.entry(ActionRemoveGrid, details)
		return next, &e

	case ActionRenameSheet:
		details := formatUnattributed(user, "renamed a sheet", ts)
		if from, to, ok := diff.FindRename(prev, next); ok {
			details = formatSheetRenamed(user, from, to, ts)
		}
		e := stamp.entry(ActionRenameSheet, details)
		return next, &e
	}

	tag := n.ChangeType
	if tag == "" {
		tag = string(ActionUnknownChange)
	}
	e := stamp.entry(ActionUnknownChange, formatOther(user, tag, ts))
	return next, &e
}

// lineChange describes a row or column count delta. A zero delta is suppressed.
func lineChange(stamp Stamp, delta int, unit string, index int, sheetName string, insert, remove ActionType) *LogEntry {
	var e LogEntry
	switch {
	case delta > 0:
		e = stamp.entry(insert, formatLineChange(stamp.User, "inserted", unit, index, sheetName, stamp.Timestamp))
	case delta < 0:
		e = stamp.entry(remove, formatLineChange(stamp.User, "deleted", unit, index, sheetName, stamp.Timestamp))
	default:
		return nil
	}
	return &e
}
