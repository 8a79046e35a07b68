package diff

import "f0oster/sheetaudit/snapshot"

// FindChanges compares two structure snapshots and returns a list of changes.
// Added and resized sheets come first in the order of curr, removed sheets
// follow in the order of prev.
func FindChanges(prev, curr snapshot.Snapshot) []SheetChange {
	var changes []SheetChange

	// Detect resized or added sheets
	for _, sh := range curr.Sheets {
		old, exists := prev.Lookup(sh.Name)
		if !exists {
			changes = append(changes, SheetChange{
				Name: sh.Name,
				Kind: SheetAdded,
				New:  sh.Dimensions,
			})
			continue
		}
		if old != sh.Dimensions {
			changes = append(changes, SheetChange{
				Name: sh.Name,
				Kind: SheetResized,
				Old:  old,
				New:  sh.Dimensions,
			})
		}
	}

	// Detect removed sheets
	for _, sh := range prev.Sheets {
		if !curr.Has(sh.Name) {
			changes = append(changes, SheetChange{
				Name: sh.Name,
				Kind: SheetRemoved,
				Old:  sh.Dimensions,
			})
		}
	}

	return changes
}

// ChangeFor returns the change to the named sheet. The bool is false when the
// sheet is unchanged or absent from both snapshots.
func ChangeFor(changes []SheetChange, name string) (SheetChange, bool) {
	for _, c := range changes {
		if c.Name == name {
			return c, true
		}
	}
	return SheetChange{}, false
}

// FirstAdded returns the first sheet of curr that prev does not have.
func FirstAdded(prev, curr snapshot.Snapshot) (string, bool) {
	return firstOnlyIn(curr, prev)
}

// FirstRemoved returns the first sheet of prev that curr does not have.
func FirstRemoved(prev, curr snapshot.Snapshot) (string, bool) {
	return firstOnlyIn(prev, curr)
}

// FindRename pairs the first removed sheet with the first added sheet.
// Both must exist for the rename to be attributed.
func FindRename(prev, curr snapshot.Snapshot) (from, to string, ok bool) {
	from, okFrom := FirstRemoved(prev, curr)
	to, okTo := FirstAdded(prev, curr)
	if !okFrom || !okTo {
		return "", "", false
	}
	return from, to, true
}

func firstOnlyIn(a, b snapshot.Snapshot) (string, bool) {
	for _, sh := range a.Sheets {
		if !b.Has(sh.Name) {
			return sh.Name, true
		}
	}
	return "", false
}
