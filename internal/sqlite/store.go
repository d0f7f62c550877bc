// Package sqlite implements database.DataStore on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"commute-logger/internal/database"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBFileName = "data.db"
	schemaVersion     = 1
)

// Store is a SQLite-based data store implementing database.DataStore
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	routeRepo    database.RouteRepository
	settingsRepo database.SettingsRepository
}

// New creates a new SQLite store at the specified path
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	log.Printf("[SQLITE] Opening database at: %s", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.routeRepo = &routeRepository{store: store}
	store.settingsRepo = &settingsRepository{store: store}

	return store, nil
}

func (s *Store) Routes() database.RouteRepository      { return s.routeRepo }
func (s *Store) Settings() database.SettingsRepository { return s.settingsRepo }

// GetDBPath returns the current database file path
func (s *Store) GetDBPath() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) initSchema() error {
	// Check current schema version
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, create everything
		return s.createSchema()
	}

	if version < schemaVersion {
		return s.runMigrations(version)
	}

	return nil
}

func (s *Store) createSchema() error {
	schema := `
	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (1);

	-- Trip records, one per (calendar day, direction)
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		trip_date TEXT NOT NULL,
		direction TEXT NOT NULL,
		distance TEXT NOT NULL DEFAULT '0',
		transport TEXT,
		input_type TEXT NOT NULL DEFAULT 'number',
		geometry TEXT,
		start_name TEXT,
		end_name TEXT,
		length_m REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (trip_date, direction)
	);

	-- Challenge configuration (single row table)
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		days_active INTEGER NOT NULL DEFAULT 0,
		phases TEXT NOT NULL DEFAULT '[]'
	);
	INSERT OR IGNORE INTO settings (id, days_active, phases) VALUES (1, 0, '[]');
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[SQLITE] Schema created: version=%d", schemaVersion)
	return nil
}

func (s *Store) runMigrations(fromVersion int) error {
	// No migrations yet; bump schemaVersion and add steps here when the
	// schema changes.
	_, err := s.db.Exec("UPDATE schema_version SET version = ?", schemaVersion)
	if err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	log.Printf("[SQLITE] Migrated schema: from=%d to=%d", fromVersion, schemaVersion)
	return nil
}
