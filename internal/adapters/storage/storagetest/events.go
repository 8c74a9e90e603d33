package storagetest

import (
	"context"
	"testing"
	"time"

	"creature-registry/internal/domain/creatures"
	"creature-registry/internal/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunEventRepoContract corre el contrato del log de eventos sobre un repo vacío por subtest.
func RunEventRepoContract(t *testing.T, newRepo func(t *testing.T) events.Repository) {
	t.Helper()

	t.Run("AppendAssignsIncreasingSeq", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s1, err := repo.Append(ctx, record(creatures.EventCreated, "x", "", 0))
		require.NoError(t, err)
		s2, err := repo.Append(ctx, record(creatures.EventCreated, "y", "", 1))
		require.NoError(t, err)
		assert.Greater(t, s2, s1)
	})

	t.Run("ListNewestFirstWithFilters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, rec := range []events.Record{
			record(creatures.EventCreated, "x", "", 0),
			record(creatures.EventCreated, "y", "", 1),
			record(creatures.EventTransferred, "x", "z", 0),
		} {
			_, err := repo.Append(ctx, rec)
			require.NoError(t, err)
		}

		all, err := repo.List(ctx, events.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, creatures.EventTransferred, all[0].Kind)
		assert.Equal(t, "z", all[0].To)
		assert.Equal(t, "y", all[1].Account)
		assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), all[0].RecordedAt.UTC())

		byTo, err := repo.List(ctx, events.ListFilter{Account: "z"})
		require.NoError(t, err)
		require.Len(t, byTo, 1)
		assert.Equal(t, creatures.ID(0), byTo[0].CreatureID)

		byFrom, err := repo.List(ctx, events.ListFilter{Account: "x"})
		require.NoError(t, err)
		assert.Len(t, byFrom, 2)

		id := creatures.ID(1)
		byCreature, err := repo.List(ctx, events.ListFilter{CreatureID: &id})
		require.NoError(t, err)
		require.Len(t, byCreature, 1)
		assert.Equal(t, "y", byCreature[0].Account)

		limited, err := repo.List(ctx, events.ListFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Greater(t, limited[0].Seq, limited[1].Seq)
	})

	t.Run("EmptyListIsNotNil", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.List(context.Background(), events.ListFilter{Account: "nobody"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func record(kind creatures.EventKind, account, to string, id creatures.ID) events.Record {
	return events.Record{
		ID:         uuid.NewString(),
		Kind:       kind,
		Account:    account,
		To:         to,
		CreatureID: id,
		RecordedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
