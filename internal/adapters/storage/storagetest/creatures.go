// Package storagetest contiene el contrato común que cumplen todos los stores de criaturas.
package storagetest

import (
	"context"
	"testing"
	"time"

	"creature-registry/internal/domain/creatures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCreatureRepoContract corre el contrato sobre un repo nuevo y vacío por subtest.
func RunCreatureRepoContract(t *testing.T, newRepo func(t *testing.T) creatures.Repository) {
	t.Helper()

	t.Run("InsertAdvancesCounterAndIndexesOwner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		n, err := repo.Counter(ctx)
		require.NoError(t, err)
		assert.Equal(t, creatures.ID(0), n)

		require.NoError(t, repo.Insert(ctx, genesis(0, "alice")))
		require.NoError(t, repo.Insert(ctx, genesis(1, "alice")))

		n, err = repo.Counter(ctx)
		require.NoError(t, err)
		assert.Equal(t, creatures.ID(2), n)

		ids, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []creatures.ID{0, 1}, ids)

		got, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Owner)
		assert.Equal(t, genesis(1, "alice").DNA, got.DNA)
		assert.Nil(t, got.Parents)
	})

	t.Run("DuplicateInsertLeavesStateUntouched", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, genesis(0, "alice")))
		err := repo.Insert(ctx, genesis(0, "bob"))
		require.ErrorIs(t, err, creatures.ErrDuplicate)

		n, err := repo.Counter(ctx)
		require.NoError(t, err)
		assert.Equal(t, creatures.ID(1), n)

		ids, err := repo.ListByOwner(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, ids)

		got, err := repo.Get(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Owner)
	})

	t.Run("GetUnknownIsNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), 42)
		require.ErrorIs(t, err, creatures.ErrNotFound)
	})

	t.Run("ParentsRoundTrip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, genesis(0, "alice")))
		require.NoError(t, repo.Insert(ctx, genesis(1, "alice")))
		child := genesis(2, "carol")
		child.Parents = &creatures.Parents{First: 0, Second: 1}
		require.NoError(t, repo.Insert(ctx, child))

		got, err := repo.Get(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, got.Parents)
		assert.Equal(t, creatures.Parents{First: 0, Second: 1}, *got.Parents)
	})

	t.Run("InsertChildRecordsLineageOnBothParents", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, genesis(0, "alice")))
		require.NoError(t, repo.Insert(ctx, genesis(1, "bob")))

		first := genesis(2, "carol")
		first.Parents = &creatures.Parents{First: 0, Second: 1}
		require.NoError(t, repo.InsertChild(ctx, first))

		second := genesis(3, "carol")
		second.Parents = &creatures.Parents{First: 1, Second: 0}
		require.NoError(t, repo.InsertChild(ctx, second))

		n, err := repo.Counter(ctx)
		require.NoError(t, err)
		assert.Equal(t, creatures.ID(4), n)

		ids, err := repo.ListByOwner(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, []creatures.ID{2, 3}, ids)

		p0, err := repo.Get(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []creatures.ID{2, 3}, p0.Children)
		assert.Equal(t, []creatures.ID{1, 1}, p0.Partners)

		p1, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []creatures.ID{2, 3}, p1.Children)
		assert.Equal(t, []creatures.ID{0, 0}, p1.Partners)

		// el resto del registro de los padres queda como se insertó
		for _, p := range []creatures.Creature{p0, p1} {
			want := genesis(p.ID, p.Owner)
			assert.Equal(t, want.DNA, p.DNA)
			assert.Nil(t, p.Parents)
			assert.True(t, want.CreatedAt.Equal(p.CreatedAt))
		}
		assert.Equal(t, "alice", p0.Owner)
		assert.Equal(t, "bob", p1.Owner)

		child, err := repo.Get(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, child.Parents)
		assert.Equal(t, creatures.Parents{First: 1, Second: 0}, *child.Parents)
		assert.Empty(t, child.Children)
	})

	t.Run("InsertChildRejectsBadParentsWithoutChanges", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, genesis(0, "alice")))
		require.NoError(t, repo.Insert(ctx, genesis(1, "alice")))

		unknown := genesis(2, "carol")
		unknown.Parents = &creatures.Parents{First: 0, Second: 7}
		require.ErrorIs(t, repo.InsertChild(ctx, unknown), creatures.ErrInvalidParent)

		same := genesis(2, "carol")
		same.Parents = &creatures.Parents{First: 0, Second: 0}
		require.ErrorIs(t, repo.InsertChild(ctx, same), creatures.ErrSameParent)

		orphan := genesis(2, "carol")
		require.ErrorIs(t, repo.InsertChild(ctx, orphan), creatures.ErrInvalidInput)

		dup := genesis(1, "carol")
		dup.Parents = &creatures.Parents{First: 0, Second: 1}
		require.ErrorIs(t, repo.InsertChild(ctx, dup), creatures.ErrDuplicate)

		n, err := repo.Counter(ctx)
		require.NoError(t, err)
		assert.Equal(t, creatures.ID(2), n)

		_, err = repo.Get(ctx, 2)
		require.ErrorIs(t, err, creatures.ErrNotFound)

		p0, err := repo.Get(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, p0.Children)
		assert.Empty(t, p0.Partners)

		ids, err := repo.ListByOwner(ctx, "carol")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("ChangeOwnerMovesIndexEntry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, genesis(0, "alice")))
		require.NoError(t, repo.Insert(ctx, genesis(1, "alice")))
		require.NoError(t, repo.Insert(ctx, genesis(2, "bob")))

		require.NoError(t, repo.ChangeOwner(ctx, 0, "alice", "bob"))

		got, err := repo.Get(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Owner)

		alice, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []creatures.ID{1}, alice)

		bob, err := repo.ListByOwner(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, []creatures.ID{2, 0}, bob)
	})

	t.Run("ChangeOwnerRejectsWrongFrom", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, genesis(0, "alice")))
		require.ErrorIs(t, repo.ChangeOwner(ctx, 0, "mallory", "bob"), creatures.ErrNotOwner)
		require.ErrorIs(t, repo.ChangeOwner(ctx, 7, "alice", "bob"), creatures.ErrNotFound)

		ids, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []creatures.ID{0}, ids)
	})

	t.Run("UnknownOwnerHasEmptyList", func(t *testing.T) {
		repo := newRepo(t)
		ids, err := repo.ListByOwner(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})
}

func genesis(id creatures.ID, owner string) creatures.Creature {
	var dna creatures.DNA
	for i := range dna {
		dna[i] = byte(int(id)*31 + i)
	}
	return creatures.Creature{
		ID:        id,
		DNA:       dna,
		Owner:     owner,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, int(id), 0, time.UTC),
	}
}
