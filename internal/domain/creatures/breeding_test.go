package creatures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCombineGene_Examples(t *testing.T) {
	assert.Equal(t, byte(0xAB), CombineGene(0xAB, 0x12, 0xFF))
	assert.Equal(t, byte(0x12), CombineGene(0xAB, 0x12, 0x00))
	assert.Equal(t, byte(0xA2), CombineGene(0xAB, 0x12, 0xF0))
}

func TestCombineGene_MatchesMaskFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Byte().Draw(rt, "a")
		b := rapid.Byte().Draw(rt, "b")
		s := rapid.Byte().Draw(rt, "selector")

		got := CombineGene(a, b, s)
		if got != (s&a)|(^s&b) {
			rt.Fatalf("CombineGene(%#x, %#x, %#x) = %#x", a, b, s, got)
		}
		// cada bit sale del padre que indica el selector
		for bit := 0; bit < 8; bit++ {
			mask := byte(1) << bit
			want := b & mask
			if s&mask != 0 {
				want = a & mask
			}
			if got&mask != want {
				rt.Fatalf("bit %d taken from wrong parent", bit)
			}
		}
	})
}

func TestCombineDNA_IsBytewise(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawDNA(rt, "a")
		b := drawDNA(rt, "b")
		s := drawDNA(rt, "selector")

		got := CombineDNA(a, b, s)
		for i := range got {
			if got[i] != CombineGene(a[i], b[i], s[i]) {
				rt.Fatalf("byte %d mismatch", i)
			}
		}
	})
}

func TestBreeder_SameParentBeforeLookup(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := newTestRepo()
		k := ID(rapid.Uint32().Draw(rt, "k"))
		if rapid.Bool().Draw(rt, "exists") {
			_ = repo.Insert(context.Background(), Creature{ID: k, Owner: "x"})
		}

		_, err := NewBreeder(repo).Breed(context.Background(), k, k, DNA{})
		if err != ErrSameParent {
			rt.Fatalf("expected ErrSameParent, got %v", err)
		}
	})
}

func TestAppendLineage_OnlyTouchesLineage(t *testing.T) {
	parent := Creature{ID: 0, DNA: DNA{7}, Owner: "x", Parents: &Parents{First: 3, Second: 4}}

	AppendLineage(&parent, 5, 1)
	AppendLineage(&parent, 6, 1)

	assert.Equal(t, []ID{5, 6}, parent.Children)
	assert.Equal(t, []ID{1, 1}, parent.Partners)
	assert.Equal(t, DNA{7}, parent.DNA)
	assert.Equal(t, "x", parent.Owner)
	assert.Equal(t, &Parents{First: 3, Second: 4}, parent.Parents)
}

func TestAllocator_NextDoesNotAdvance(t *testing.T) {
	repo := newTestRepo()
	a := NewAllocator(repo, 3)
	ctx := context.Background()

	id, err := a.Next(ctx)
	require.NoError(t, err)
	again, err := a.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	for i := ID(0); i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, Creature{ID: i, Owner: "x"}))
	}
	_, err = a.Next(ctx)
	require.ErrorIs(t, err, ErrExhausted)
}

// Secuencias aleatorias de operaciones: los ids crecen estrictamente,
// el índice por dueño coincide con los registros y el linaje solo crece.
func TestService_RandomOperationSequences(t *testing.T) {
	accounts := []string{"x", "y", "z", "poor"}

	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		ctx := context.Background()
		var lastID *ID
		lineage := map[ID]int{}

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			account := rapid.SampledFrom(accounts).Draw(rt, "account")
			var created *Creature

			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				if c, err := f.svc.Create(ctx, account); err == nil {
					created = &c
				}
			case 1:
				n := int(f.repo.next) + 2
				id := ID(rapid.IntRange(0, n).Draw(rt, "id"))
				to := rapid.SampledFrom(accounts).Draw(rt, "to")
				_, _ = f.svc.Transfer(ctx, account, to, id)
			case 2:
				n := int(f.repo.next) + 1
				id1 := ID(rapid.IntRange(0, n).Draw(rt, "id1"))
				id2 := ID(rapid.IntRange(0, n).Draw(rt, "id2"))
				if c, err := f.svc.Breed(ctx, account, id1, id2); err == nil {
					created = &c
				}
			}

			if created != nil {
				if lastID != nil && created.ID <= *lastID {
					rt.Fatalf("id %d not greater than previous %d", created.ID, *lastID)
				}
				id := created.ID
				lastID = &id
			}

			checkOwnerIndex(rt, f)
			for id, c := range f.repo.byID {
				if len(c.Children) < lineage[id] || len(c.Children) != len(c.Partners) {
					rt.Fatalf("lineage of %d shrank or diverged", id)
				}
				lineage[id] = len(c.Children)
			}
		}
	})
}

func checkOwnerIndex(rt *rapid.T, f *fixture) {
	seen := map[ID]int{}
	for owner, ids := range f.repo.byOwner {
		for _, id := range ids {
			seen[id]++
			if f.repo.byID[id].Owner != owner {
				rt.Fatalf("index says %d belongs to %s, record says %s", id, owner, f.repo.byID[id].Owner)
			}
		}
	}
	for id := range f.repo.byID {
		if seen[id] != 1 {
			rt.Fatalf("creature %d appears %d times in owner index", id, seen[id])
		}
		if id >= f.repo.next {
			rt.Fatalf("counter %d not above id %d", f.repo.next, id)
		}
	}
}

func drawDNA(rt *rapid.T, label string) DNA {
	var d DNA
	copy(d[:], rapid.SliceOfN(rapid.Byte(), DNALen, DNALen).Draw(rt, label))
	return d
}
