package sheet_test

import (
	"testing"

	"f0oster/sheetaudit/sheet"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetters(t *testing.T) {
	tests := []struct {
		column int
		want   string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
		{0, ""},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, sheet.ColumnLetters(test.column), "column %d", test.column)
	}
}

func TestRange_A1Notation(t *testing.T) {
	single := sheet.Range{Sheet: "Data", Row: 3, Column: 2, NumRows: 1, NumColumns: 1}
	assert.Equal(t, "B3", single.A1Notation())
	assert.True(t, single.IsSingleCell())

	block := sheet.Range{Sheet: "Data", Row: 3, Column: 2, NumRows: 3, NumColumns: 3}
	assert.Equal(t, "B3:D5", block.A1Notation())
	assert.False(t, block.IsSingleCell())

	column := sheet.Range{Sheet: "Data", Row: 1, Column: 26, NumRows: 10, NumColumns: 1}
	assert.Equal(t, "Z1:Z10", column.A1Notation())
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, sheet.Range{Sheet: "A", Row: 1, Column: 1, NumRows: 1, NumColumns: 1}.Validate())
	assert.Error(t, sheet.Range{Row: 1, Column: 1, NumRows: 1, NumColumns: 1}.Validate())
	assert.Error(t, sheet.Range{Sheet: "A", Row: 0, Column: 1, NumRows: 1, NumColumns: 1}.Validate())
	assert.Error(t, sheet.Range{Sheet: "A", Row: 1, Column: 1, NumRows: 0, NumColumns: 1}.Validate())
}

func TestCell_Content(t *testing.T) {
	assert.Equal(t, "42", sheet.Cell{Value: "42"}.Content())
	assert.Equal(t, "Formula: =SUM(A1:A3)", sheet.Cell{Value: "6", Formula: "=SUM(A1:A3)"}.Content())
	assert.Equal(t, "", sheet.Cell{}.Content())
}
