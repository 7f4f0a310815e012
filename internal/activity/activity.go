// Package activity keeps an append-only CSV record of every change made to
// the tracker's data.
package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Actions recorded by the tracker.
const (
	ActionAdd                = "add"
	ActionEdit               = "edit"
	ActionDelete             = "delete"
	ActionAccept             = "accept"
	ActionDeleteSubscription = "delete_subscription"
	ActionBudget             = "budget"
	ActionImport             = "import"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Action    string
	Details   string
	EntityID  string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,details,entity_id"

const (
	numFields   = 4
	logDir      = "logs"
	fileName    = "activity.csv"
	colTime     = 0
	colAction   = 1
	colDetails  = 2
	colEntityID = 3
)

// Path returns the log location under a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, logDir, fileName)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = e.Action
	row[colDetails] = e.Details
	row[colEntityID] = e.EntityID
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		Details:   record[colDetails],
		EntityID:  record[colEntityID],
	}, nil
}

// Log appends to the activity file of one data directory.
type Log struct {
	dataDir string
}

// New returns a Log for dataDir. Nothing is created until the first Append.
func New(dataDir string) *Log {
	return &Log{dataDir: dataDir}
}

// Append writes entries, creating the file and header if needed.
func (l *Log) Append(entries ...Entry) error {
	if err := os.MkdirAll(filepath.Join(l.dataDir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(l.dataDir)
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every entry, oldest first. A missing file yields no entries.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(Path(l.dataDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()
	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
