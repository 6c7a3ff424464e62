package auditlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// NDJSONFile is the fallback file name inside the logs directory.
const NDJSONFile = "requests.ndjson"

// NDJSONSink appends one JSON object per line to a plain text file. It is
// the fallback when SQLite is unavailable, and the per-entry rescue path
// when a SQLite write fails mid-flight.
type NDJSONSink struct {
	dir  string
	path string

	mu sync.Mutex
}

// NewNDJSONSink creates a sink writing under dir. The directory and file are
// created on first write, and creation is re-checked on every write so the
// sink survives the logs directory being removed at runtime.
func NewNDJSONSink(dir string) *NDJSONSink {
	return &NDJSONSink{
		dir:  dir,
		path: filepath.Join(dir, NDJSONFile),
	}
}

// Write appends one entry.
func (s *NDJSONSink) Write(e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ReadRecent scans the file and returns the last entries, newest first.
// Lines that fail to parse are skipped rather than failing the whole read;
// a torn final line after a crash should not hide the rest of the history.
func (s *NDJSONSink) ReadRecent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()

	var all []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		all = append(all, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit file: %w", err)
	}

	if len(all) > limit {
		all = all[len(all)-limit:]
	}

	// File order is oldest first; reverse for newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

// Close is a no-op; the file handle is per-write.
func (s *NDJSONSink) Close() error {
	return nil
}
