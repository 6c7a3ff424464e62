package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store persists gateway setting overrides in SQLite. The cgo-free driver is
// used here so the settings surface works on every build target; losing the
// settings DB would lock operators out of reconfiguring the proxy.
type Store struct {
	db *sql.DB

	mu       sync.RWMutex
	defaults GatewaySettings
}

// NewStore opens (creating if needed) the settings database at path. The
// defaults are the environment-level values merged under stored overrides on
// every Get.
func NewStore(path string, defaults GatewaySettings) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	// Single writer is plenty for a key/value table this small and avoids
	// SQLITE_BUSY between the API surface and request-path reads.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings schema: %w", err)
	}

	return &Store{db: db, defaults: defaults}, nil
}

// SetDefaults swaps the environment-level defaults, used when the config
// file is reloaded at runtime. Stored overrides keep winning.
func (s *Store) SetDefaults(defaults GatewaySettings) {
	s.mu.Lock()
	s.defaults = defaults
	s.mu.Unlock()
}

func (s *Store) currentDefaults() GatewaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// Get returns the effective settings: every stored, non-empty value replaces
// the corresponding default. Read per request by the gateway client so saves
// apply to the next request.
func (s *Store) Get() (GatewaySettings, error) {
	defaults := s.currentDefaults()

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return defaults, fmt.Errorf("failed to read settings: %w", err)
	}
	defer rows.Close()

	eff := defaults
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return defaults, fmt.Errorf("failed to scan setting: %w", err)
		}
		if value == "" {
			continue
		}
		switch key {
		case KeyGatewayURL:
			eff.URL = value
		case KeyGatewayToken:
			eff.Token = value
		case KeyChatPath:
			eff.ChatPath = value
		case KeyChatMode:
			eff.ChatMode = value
		case KeyDefaultModel:
			eff.DefaultModel = value
		}
	}
	if err := rows.Err(); err != nil {
		return defaults, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return eff, nil
}

// Save upserts the non-nil fields of the patch inside one transaction.
func (s *Store) Save(patch Patch) error {
	pairs := make(map[string]string)
	if patch.URL != nil {
		pairs[KeyGatewayURL] = *patch.URL
	}
	if patch.Token != nil {
		pairs[KeyGatewayToken] = *patch.Token
	}
	if patch.ChatPath != nil {
		pairs[KeyChatPath] = *patch.ChatPath
	}
	if patch.ChatMode != nil {
		pairs[KeyChatMode] = *patch.ChatMode
	}
	if patch.DefaultModel != nil {
		pairs[KeyDefaultModel] = *patch.DefaultModel
	}
	if len(pairs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin settings transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("failed to prepare settings upsert: %w", err)
	}
	defer stmt.Close()

	for key, value := range pairs {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
