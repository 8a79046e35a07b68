package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"f0oster/sheetaudit/audit"
)

// CSVBackend writes one CSV file per destination under a directory.
type CSVBackend struct {
	dir string
	mu  sync.Mutex
}

func NewCSVBackend(dir string) *CSVBackend {
	return &CSVBackend{dir: dir}
}

// Open creates the destination file if needed. The header is written whenever
// the file is empty, including files left behind by an interrupted Open.
func (b *CSVBackend) Open(_ context.Context, destination string) (Sink, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(b.dir, fileName(destination)+".csv")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(audit.Header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	return &csvSink{name: destination, path: path}, nil
}

type csvSink struct {
	name string
	path string
	mu   sync.Mutex
}

func (s *csvSink) Name() string { return s.name }

func (s *csvSink) Append(_ context.Context, entry audit.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(entry.Row()); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (s *csvSink) Entries(_ context.Context, limit int) ([]audit.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(audit.Header)

	var entries []audit.LogEntry
	header := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
		}
		if header {
			header = false
			continue
		}
		if e, ok := audit.EntryFromRow(row); ok {
			entries = append(entries, e)
		}
	}
	return newestFirst(entries, limit), nil
}

// fileName keeps destination names usable as file names.
func fileName(destination string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, destination)
	if name == "" || strings.Trim(name, ".") == "" {
		return "_"
	}
	return name
}
