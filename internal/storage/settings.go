// Package storage provides the agent's local persistence: a SQLite-backed
// settings store (holding, among other things, the collection-store API
// key) and an append-only JSONL audit writer for captured traffic.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	dbFile = "apisync.db"

	// Owner read/write only; the store holds a live API key.
	secureFileMode = 0o600
	secureDirMode  = 0o700

	// SettingAPIKey names the stored collection-store credential.
	SettingAPIKey = "postman_api_key"
)

// SettingsStore is a scoped key→string persistence backed by SQLite.
type SettingsStore struct {
	db *sql.DB
}

// OpenSettings opens (or creates) the settings database under dataDir.
func OpenSettings(dataDir string) (*SettingsStore, error) {
	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	if err := ensureSecureFile(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	s := &SettingsStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SettingsStore) Close() error { return s.db.Close() }

// Set saves or replaces a setting.
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// Get returns a setting's value, or "" when it has never been saved.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, nil
}

// Delete removes a setting. Deleting an absent key is not an error.
func (s *SettingsStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// APIKey returns the stored collection-store API key; "" when unset.
// Satisfies the sync orchestrator's key source.
func (s *SettingsStore) APIKey() (string, error) { return s.Get(SettingAPIKey) }

// SaveAPIKey stores the collection-store API key.
func (s *SettingsStore) SaveAPIKey(key string) error { return s.Set(SettingAPIKey, key) }

// DeleteAPIKey removes the stored key.
func (s *SettingsStore) DeleteAPIKey() error { return s.Delete(SettingAPIKey) }

func (s *SettingsStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("init settings schema: %w", err)
	}
	return nil
}

// ensureSecureFile creates the file with restrictive permissions before
// sqlite ever opens it, and repairs permissions on an existing file. Doing
// it up front avoids a create-then-chmod window.
func ensureSecureFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, secureFileMode)
		if err != nil {
			return fmt.Errorf("create settings file: %w", err)
		}
		return f.Close()
	}
	if err != nil {
		return fmt.Errorf("stat settings file: %w", err)
	}
	if info.Mode().Perm() != secureFileMode {
		if err := os.Chmod(path, secureFileMode); err != nil {
			return fmt.Errorf("fix settings file permissions: %w", err)
		}
	}
	return nil
}
