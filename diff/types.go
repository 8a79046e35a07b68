package diff

import "f0oster/sheetaudit/snapshot"

// ChangeKind classifies how a sheet differs between two snapshots.
type ChangeKind string

const (
	SheetAdded   ChangeKind = "added"
	SheetRemoved ChangeKind = "removed"
	SheetResized ChangeKind = "resized"
)

// SheetChange represents a change to one sheet between two snapshots.
type SheetChange struct {
	Name string
	Kind ChangeKind
	Old  snapshot.Dimensions
	New  snapshot.Dimensions
}

// RowDelta is the change in row count.
func (c SheetChange) RowDelta() int {
	return c.New.Rows - c.Old.Rows
}

// ColDelta is the change in column count.
func (c SheetChange) ColDelta() int {
	return c.New.Cols - c.Old.Cols
}
