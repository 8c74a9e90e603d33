package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"creature-registry/internal/adapters/storage/storagetest"
	"creature-registry/internal/domain/creatures"
	"creature-registry/internal/domain/events"

	"github.com/stretchr/testify/require"
)

// openTestDB usa TEST_DB_DSN; sin esa variable los tests de Postgres se saltean.
// Cada subtest arranca con las tablas vacías.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `
		TRUNCATE creature_lineage, creature_owners, creatures, registry_events RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE registry_counter SET next = 0 WHERE id = 1`)
	require.NoError(t, err)
	return db
}

func TestCreaturesRepo_Contract(t *testing.T) {
	storagetest.RunCreatureRepoContract(t, func(t *testing.T) creatures.Repository {
		return NewCreaturesRepo(openTestDB(t))
	})
}

func TestEventsRepo_Contract(t *testing.T) {
	storagetest.RunEventRepoContract(t, func(t *testing.T) events.Repository {
		return NewEventsRepo(openTestDB(t))
	})
}
