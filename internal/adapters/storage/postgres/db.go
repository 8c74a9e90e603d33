package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS registry_counter (
		id   SMALLINT PRIMARY KEY CHECK (id = 1),
		next BIGINT NOT NULL
	)`,
	`INSERT INTO registry_counter (id, next) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS creatures (
		id         BIGINT PRIMARY KEY,
		dna        BYTEA NOT NULL,
		owner      TEXT NOT NULL,
		parent1_id BIGINT,
		parent2_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS creature_owners (
		seq         BIGSERIAL PRIMARY KEY,
		owner       TEXT NOT NULL,
		creature_id BIGINT NOT NULL UNIQUE REFERENCES creatures(id)
	)`,
	`CREATE INDEX IF NOT EXISTS creature_owners_owner_seq ON creature_owners (owner, seq)`,
	`CREATE TABLE IF NOT EXISTS creature_lineage (
		creature_id BIGINT NOT NULL REFERENCES creatures(id),
		pos         INT NOT NULL,
		child_id    BIGINT NOT NULL,
		partner_id  BIGINT NOT NULL,
		PRIMARY KEY (creature_id, pos)
	)`,
	`CREATE TABLE IF NOT EXISTS registry_events (
		seq         BIGSERIAL PRIMARY KEY,
		id          TEXT NOT NULL UNIQUE,
		kind        TEXT NOT NULL,
		account     TEXT NOT NULL,
		to_account  TEXT NOT NULL DEFAULT '',
		creature_id BIGINT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
