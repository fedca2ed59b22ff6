package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrExportNotFound is returned for unknown or expired export IDs.
var ErrExportNotFound = errors.New("export not found or expired")

// DefaultExportTTL is how long a range result stays downloadable.
const DefaultExportTTL = 10 * time.Minute

// ExportFileName returns the download name for a range export. start and end
// are used as the user typed them.
func ExportFileName(start, end string) string {
	return fmt.Sprintf("filtered_diagnosis_%s_to_%s.csv", start, end)
}

// WriteCSV writes header and records as UTF-8 CSV.
func WriteCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// Export is a filtered range result held for download.
type Export struct {
	ID        string
	FileName  string
	Header    []string
	Records   [][]string
	CreatedAt time.Time
}

// WriteCSV writes the export as CSV.
func (e *Export) WriteCSV(w io.Writer) error {
	return WriteCSV(w, e.Header, e.Records)
}

// exportStore keeps recent exports in memory until they expire.
type exportStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	exports map[string]*Export
}

func newExportStore(ttl time.Duration) *exportStore {
	if ttl <= 0 {
		ttl = DefaultExportTTL
	}
	return &exportStore{
		ttl:     ttl,
		now:     time.Now,
		exports: make(map[string]*Export),
	}
}

func (s *exportStore) put(e *Export) {
	e.CreatedAt = s.now()
	s.mu.Lock()
	s.exports[e.ID] = e
	s.mu.Unlock()
}

func (s *exportStore) get(id string) (*Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.exports[id]
	if !ok {
		return nil, ErrExportNotFound
	}
	if s.now().Sub(e.CreatedAt) > s.ttl {
		delete(s.exports, id)
		return nil, ErrExportNotFound
	}
	return e, nil
}

// sweep drops expired exports and returns how many were removed.
func (s *exportStore) sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.exports {
		if e.CreatedAt.Before(cutoff) {
			delete(s.exports, id)
			removed++
		}
	}
	return removed
}

func (s *exportStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.exports)
}
