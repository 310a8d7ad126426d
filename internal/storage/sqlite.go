package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists key-value pairs in an embedded SQLite database.
// The archive is rewritten as a full snapshot on every mutation, so writes
// stay bounded by the archive capacity; a single table is all the schema
// this needs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at path and
// initializes the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Printf("Storage: opened SQLite database at %s", path)
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	return err
}

// get returns the raw value for key and whether it exists.
func (s *SQLiteStore) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Storage: read of %q failed: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// GetString returns the stored string or fallback.
func (s *SQLiteStore) GetString(key, fallback string) string {
	if value, ok := s.get(key); ok {
		return value
	}
	return fallback
}

// GetInt returns the stored integer or fallback.
func (s *SQLiteStore) GetInt(key string, fallback int) int {
	if value, ok := s.get(key); ok {
		return parseInt(value, fallback)
	}
	return fallback
}

// GetUint64 returns the stored unsigned integer or fallback.
func (s *SQLiteStore) GetUint64(key string, fallback uint64) uint64 {
	if value, ok := s.get(key); ok {
		return parseUint64(value, fallback)
	}
	return fallback
}

// GetBool returns the stored boolean or fallback.
func (s *SQLiteStore) GetBool(key string, fallback bool) bool {
	if value, ok := s.get(key); ok {
		return parseBool(value, fallback)
	}
	return fallback
}

func (s *SQLiteStore) put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

// PutString stores a string value.
func (s *SQLiteStore) PutString(key, value string) error {
	return s.put(key, value)
}

// PutInt stores an integer value.
func (s *SQLiteStore) PutInt(key string, value int) error {
	return s.put(key, strconv.Itoa(value))
}

// PutUint64 stores an unsigned integer value.
func (s *SQLiteStore) PutUint64(key string, value uint64) error {
	return s.put(key, strconv.FormatUint(value, 10))
}

// PutBool stores a boolean value.
func (s *SQLiteStore) PutBool(key string, value bool) error {
	return s.put(key, strconv.FormatBool(value))
}

// Apply commits all batched operations in one transaction. Either the whole
// snapshot lands or none of it does, so a power loss mid-write can never
// leave a half-rewritten archive on disk.
func (s *SQLiteStore) Apply(batch *Batch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, o := range batch.ops {
		switch o.kind {
		case opPut:
			_, err = tx.Exec(`
				INSERT INTO kv (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, o.key, o.value)
		case opDeletePrefix:
			_, err = tx.Exec(`DELETE FROM kv WHERE key LIKE ? || '%'`, o.key)
		}
		if err != nil {
			return fmt.Errorf("failed to apply batch op on %q: %w", o.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	log.Println("Storage: SQLite database closed")
	return nil
}
