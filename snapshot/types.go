package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Dimensions is the row and column count of one sheet.
type Dimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SheetStructure names a sheet and its dimensions.
type SheetStructure struct {
	Name string
	Dimensions
}

// Snapshot represents a point-in-time capture of every sheet's row and column counts.
// Sheets are kept in document order; "first" in any comparison means first in this order.
type Snapshot struct {
	Sheets []SheetStructure
}

// New builds a snapshot, rejecting negative counts and duplicate sheet names.
func New(sheets ...SheetStructure) (Snapshot, error) {
	seen := make(map[string]struct{}, len(sheets))
	for _, sh := range sheets {
		if sh.Rows < 0 || sh.Cols < 0 {
			return Snapshot{}, fmt.Errorf("sheet '%s' has negative dimensions %dx%d", sh.Name, sh.Rows, sh.Cols)
		}
		if _, dup := seen[sh.Name]; dup {
			return Snapshot{}, fmt.Errorf("duplicate sheet name '%s'", sh.Name)
		}
		seen[sh.Name] = struct{}{}
	}
	if len(sheets) == 0 {
		return Snapshot{}, nil
	}
	return Snapshot{Sheets: append([]SheetStructure(nil), sheets...)}, nil
}

// Lookup returns the dimensions of the named sheet.
func (s Snapshot) Lookup(name string) (Dimensions, bool) {
	for _, sh := range s.Sheets {
		if sh.Name == name {
			return sh.Dimensions, true
		}
	}
	return Dimensions{}, false
}

// Get returns the dimensions of the named sheet, or zero counts when it is absent.
func (s Snapshot) Get(name string) Dimensions {
	d, _ := s.Lookup(name)
	return d
}

// Has reports whether the named sheet exists.
func (s Snapshot) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Names returns sheet names in document order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.Sheets))
	for _, sh := range s.Sheets {
		names = append(names, sh.Name)
	}
	return names
}

// IsEmpty reports whether the snapshot holds no sheets.
func (s Snapshot) IsEmpty() bool {
	return len(s.Sheets) == 0
}

// MarshalJSON writes the snapshot as {"Sheet1":{"rows":1000,"cols":26},...} in sheet order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sh := range s.Sheets {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(sh.Name)
		if err != nil {
			return nil, err
		}
		dims, err := json.Marshal(sh.Dimensions)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(dims)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON, keeping key order.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if tok == nil {
		s.Sheets = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("snapshot must be a JSON object, got %v", tok)
	}

	var sheets []SheetStructure
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read sheet name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected sheet name, got %v", tok)
		}

		var dims Dimensions
		if err := dec.Decode(&dims); err != nil {
			return fmt.Errorf("failed to decode dimensions for sheet '%s': %w", name, err)
		}
		sheets = append(sheets, SheetStructure{Name: name, Dimensions: dims})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read end of snapshot: %w", err)
	}

	parsed, err := New(sheets...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
