package auditlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteFile is the database file name inside the logs directory.
const SQLiteFile = "requests.db"

// SQLiteSink stores entries in a chat_requests table. Writes are synchronous
// prepared-statement inserts; throughput here is a handful of rows per
// minute, so there is nothing to batch.
type SQLiteSink struct {
	db         *sql.DB
	insertStmt *sql.Stmt
}

// NewSQLiteSink opens (creating directory, file, and schema as needed) the
// audit database under dir.
func NewSQLiteSink(dir string) (*SQLiteSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := filepath.Join(dir, SQLiteFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// WAL lets reads (the admin log view) proceed during writes.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS chat_requests (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      TEXT NOT NULL,
			email          TEXT NOT NULL,
			model          TEXT NOT NULL,
			latency_ms     INTEGER NOT NULL,
			success        INTEGER NOT NULL,
			error_message  TEXT NOT NULL DEFAULT '',
			prompt_chars   INTEGER NOT NULL DEFAULT 0,
			response_chars INTEGER NOT NULL DEFAULT 0
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	insertStmt, err := db.Prepare(`
		INSERT INTO chat_requests
			(timestamp, email, model, latency_ms, success, error_message, prompt_chars, response_chars)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare audit insert: %w", err)
	}

	return &SQLiteSink{db: db, insertStmt: insertStmt}, nil
}

// Write inserts one entry.
func (s *SQLiteSink) Write(e Entry) error {
	success := 0
	if e.Success {
		success = 1
	}
	_, err := s.insertStmt.Exec(
		e.Timestamp, e.Email, e.Model, e.LatencyMs,
		success, e.ErrorMessage, e.PromptChars, e.ResponseChars,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ReadRecent returns up to limit entries, newest first. Insert order, not
// timestamp order: two entries in the same second still come back in the
// order they were written.
func (s *SQLiteSink) ReadRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, email, model, latency_ms, success, error_message, prompt_chars, response_chars
		FROM chat_requests
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var success int
		if err := rows.Scan(&e.Timestamp, &e.Email, &e.Model, &e.LatencyMs,
			&success, &e.ErrorMessage, &e.PromptChars, &e.ResponseChars); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Success = success != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}

// PruneOlderThan deletes entries older than the given number of days and
// returns how many rows went away. RFC 3339 UTC strings order
// lexicographically, so a plain string comparison is a time comparison.
func (s *SQLiteSink) PruneOlderThan(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM chat_requests WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Close releases the prepared statement and database handle.
func (s *SQLiteSink) Close() error {
	s.insertStmt.Close()
	return s.db.Close()
}
