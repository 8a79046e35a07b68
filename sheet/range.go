package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell holds the captured content of a single cell.
type Cell struct {
	Value   string `json:"value"`
	Formula string `json:"formula,omitempty"`
}

// Content returns the formula prefixed with "Formula: " when present, otherwise the value.
func (c Cell) Content() string {
	if c.Formula != "" {
		return "Formula: " + c.Formula
	}
	return c.Value
}

// IsFormula reports whether the cell holds a formula.
func (c Cell) IsFormula() bool {
	return c.Formula != ""
}

// Range describes a rectangular block of cells on one sheet.
// Row and Column are 1-based, matching the host platform.
type Range struct {
	Sheet      string `json:"sheet"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	NumRows    int    `json:"num_rows"`
	NumColumns int    `json:"num_columns"`

	// TopLeft is the first cell of the range. Bulk edits only ever sample this cell.
	TopLeft Cell `json:"top_left"`
}

// Validate checks the range bounds.
func (r Range) Validate() error {
	if r.Sheet == "" {
		return fmt.Errorf("range has no sheet name")
	}
	if r.Row < 1 || r.Column < 1 {
		return fmt.Errorf("range origin (%d,%d) is not 1-based", r.Row, r.Column)
	}
	if r.NumRows < 1 || r.NumColumns < 1 {
		return fmt.Errorf("range size %dx%d is empty", r.NumRows, r.NumColumns)
	}
	return nil
}

// IsSingleCell reports whether the range covers exactly one cell.
func (r Range) IsSingleCell() bool {
	return r.NumRows <= 1 && r.NumColumns <= 1
}

// A1Notation renders the range as "B3" or "B3:D5".
func (r Range) A1Notation() string {
	start := CellAddress(r.Row, r.Column)
	if r.IsSingleCell() {
		return start
	}
	return start + ":" + CellAddress(r.Row+r.NumRows-1, r.Column+r.NumColumns-1)
}

// CellAddress renders a 1-based row/column pair in A1 notation.
func CellAddress(row, column int) string {
	return ColumnLetters(column) + strconv.Itoa(row)
}

// ColumnLetters converts a 1-based column index to its letter form (1 -> A, 27 -> AA).
func ColumnLetters(column int) string {
	if column < 1 {
		return ""
	}
	var b strings.Builder
	var letters []byte
	for column > 0 {
		column--
		letters = append(letters, byte('A'+column%26))
		column /= 26
	}
	for i := len(letters) - 1; i >= 0; i-- {
		b.WriteByte(letters[i])
	}
	return b.String()
}
