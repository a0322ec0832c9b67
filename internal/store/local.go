package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"krumb/internal/logging"
)

// LocalStore implements Adapter on a single-table SQLite database.
// One row per key; blobs are whatever JSON the owning store produced.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create directory %s: %v", dir, err)
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &LocalStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}

	logging.Store("LocalStore ready")
	return s, nil
}

// initialize creates the required table.
func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mirror (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Load returns the blob for key, or ok=false when the row is absent or
// the read fails. Failures are logged, never surfaced.
func (s *LocalStore) Load(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value []byte
	err := s.db.QueryRow("SELECT value FROM mirror WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		logging.StoreDebug("Load %q: absent", key)
		return nil, false
	}
	if err != nil {
		logging.Get(logging.CategoryStore).Warn("Load %q failed, treating as absent: %v", key, err)
		return nil, false
	}
	logging.StoreDebug("Load %q: %d bytes", key, len(value))
	return value, true
}

// Save mirrors the blob under key. Best effort; the error is logged here
// and returned for callers that want to log it again with context.
func (s *LocalStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO mirror (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, data)
	if err != nil {
		logging.Get(logging.CategoryStore).Warn("Save %q failed (memory stays authoritative): %v", key, err)
		return fmt.Errorf("save %q: %w", key, err)
	}
	logging.StoreDebug("Save %q: %d bytes", key, len(data))
	return nil
}

// Clear removes the entry for key.
func (s *LocalStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM mirror WHERE key = ?", key); err != nil {
		logging.Get(logging.CategoryStore).Warn("Clear %q failed: %v", key, err)
		return
	}
	logging.StoreDebug("Clear %q", key)
}

// Keys returns the currently persisted keys, for diagnostics.
func (s *LocalStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT key FROM mirror ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database connection.
func (s *LocalStore) Close() error {
	logging.Store("Closing LocalStore database connection")
	return s.db.Close()
}
