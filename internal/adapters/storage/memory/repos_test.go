package memory

import (
	"context"
	"testing"

	"creature-registry/internal/adapters/storage/storagetest"
	"creature-registry/internal/domain/creatures"
	"creature-registry/internal/domain/events"

	"github.com/stretchr/testify/require"
)

func TestCreatureRepo_Contract(t *testing.T) {
	storagetest.RunCreatureRepoContract(t, func(t *testing.T) creatures.Repository {
		return NewCreatureRepo()
	})
}

func TestCreatureRepo_GetReturnsCopy(t *testing.T) {
	repo := NewCreatureRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, creatures.Creature{ID: 0, Owner: "alice", Children: []creatures.ID{}}))

	c, err := repo.Get(ctx, 0)
	require.NoError(t, err)
	c.Children = append(c.Children, 9)
	c.Owner = "mallory"

	again, err := repo.Get(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "alice", again.Owner)
	require.Empty(t, again.Children)
}

func TestCreatureRepo_InsertChildDoesNotShareSlices(t *testing.T) {
	repo := NewCreatureRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, creatures.Creature{ID: 0, Owner: "alice"}))
	require.NoError(t, repo.Insert(ctx, creatures.Creature{ID: 1, Owner: "alice"}))

	child := creatures.Creature{ID: 2, Owner: "bob", Parents: &creatures.Parents{First: 0, Second: 1}}
	require.NoError(t, repo.InsertChild(ctx, child))
	child.Parents.First = 9

	stored, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, creatures.Parents{First: 0, Second: 1}, *stored.Parents)
}

func TestCreatureRepo_InsertRejectsMaxID(t *testing.T) {
	repo := NewCreatureRepo()
	err := repo.Insert(context.Background(), creatures.Creature{ID: creatures.MaxID, Owner: "alice"})
	require.ErrorIs(t, err, creatures.ErrExhausted)
}

func TestEventRepo_Contract(t *testing.T) {
	storagetest.RunEventRepoContract(t, func(t *testing.T) events.Repository {
		return NewEventRepo()
	})
}
