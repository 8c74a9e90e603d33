// Package sqlite guarda el registro en un archivo SQLite (driver puro Go de modernc).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store comparte una conexión entre el repo de criaturas y el de eventos.
// Con una sola conexión abierta las transacciones quedan serializadas.
type Store struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS registry_counter (
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		next INTEGER NOT NULL
	)`,
	`INSERT OR IGNORE INTO registry_counter (id, next) VALUES (1, 0)`,
	`CREATE TABLE IF NOT EXISTS creatures (
		id         INTEGER PRIMARY KEY,
		dna        BLOB NOT NULL,
		owner      TEXT NOT NULL,
		parent1_id INTEGER,
		parent2_id INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS creature_owners (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		owner       TEXT NOT NULL,
		creature_id INTEGER NOT NULL UNIQUE REFERENCES creatures(id)
	)`,
	`CREATE INDEX IF NOT EXISTS creature_owners_owner_seq ON creature_owners (owner, seq)`,
	`CREATE TABLE IF NOT EXISTS creature_lineage (
		creature_id INTEGER NOT NULL REFERENCES creatures(id),
		pos         INTEGER NOT NULL,
		child_id    INTEGER NOT NULL,
		partner_id  INTEGER NOT NULL,
		PRIMARY KEY (creature_id, pos)
	)`,
	`CREATE TABLE IF NOT EXISTS registry_events (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		kind        TEXT NOT NULL,
		account     TEXT NOT NULL,
		to_account  TEXT NOT NULL DEFAULT '',
		creature_id INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	)`,
}

// Open abre (o crea) la base en path y aplica el esquema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Creatures devuelve el repositorio de criaturas sobre esta base.
func (s *Store) Creatures() *CreaturesRepo { return &CreaturesRepo{db: s.db} }

// Events devuelve el log de eventos sobre esta base.
func (s *Store) Events() *EventsRepo { return &EventsRepo{db: s.db} }

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(v int64) time.Time {
	return time.Unix(0, v).UTC()
}

func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
