package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"dealership-chat-router/internal/decision/repository"
	"dealership-chat-router/pkg/log"

	_ "modernc.org/sqlite"
)

// Store implements repository.Repository on SQLite.
type Store struct {
	db *sql.DB
	l  log.Logger
}

var _ repository.Repository = (*Store)(nil)

// New opens (or creates) the decision database at dbPath and runs migration.
func New(dbPath string, l log.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, l: l}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS routing_decisions (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id     TEXT NOT NULL,
		message_id          TEXT NOT NULL,
		dealership_id       INTEGER NOT NULL,
		selected_agent      TEXT NOT NULL,
		confidence          REAL NOT NULL,
		sentiment           REAL NOT NULL,
		escalated           INTEGER NOT NULL DEFAULT 0,
		degraded            INTEGER NOT NULL DEFAULT 0,
		reasoning           TEXT,
		processing_time_ms  INTEGER NOT NULL DEFAULT 0,
		created_at          DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_conv ON routing_decisions(conversation_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_decisions_dealer ON routing_decisions(dealership_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
