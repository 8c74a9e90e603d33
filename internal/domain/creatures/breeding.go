package creatures

import (
	"context"
	"errors"
)

// CombineGene toma de a los bits donde selector vale 1 y de b donde vale 0.
func CombineGene(a, b, selector byte) byte {
	return (selector & a) | (^selector & b)
}

// CombineDNA aplica CombineGene byte a byte con un único selector por cruza.
func CombineDNA(a, b, selector DNA) DNA {
	var out DNA
	for i := range out {
		out[i] = CombineGene(a[i], b[i], selector[i])
	}
	return out
}

// Breeder valida los padres y combina su DNA.
// No asigna ids ni inserta la cría: eso es responsabilidad del Service.
type Breeder struct {
	repo Repository
}

func NewBreeder(repo Repository) *Breeder {
	return &Breeder{repo: repo}
}

// Breed valida los padres y devuelve el DNA de la cría.
// ErrSameParent se chequea antes de buscar, así no importa si el id existe.
func (b *Breeder) Breed(ctx context.Context, id1, id2 ID, selector DNA) (DNA, error) {
	if id1 == id2 {
		return DNA{}, ErrSameParent
	}

	p1, err := b.lookupParent(ctx, id1)
	if err != nil {
		return DNA{}, err
	}
	p2, err := b.lookupParent(ctx, id2)
	if err != nil {
		return DNA{}, err
	}

	return CombineDNA(p1.DNA, p2.DNA, selector), nil
}

// AppendLineage agrega child y partner al linaje de parent. Es la única escritura
// que reciben los padres al registrar una cría.
func AppendLineage(parent *Creature, child, partner ID) {
	parent.Children = append(parent.Children, child)
	parent.Partners = append(parent.Partners, partner)
}

func (b *Breeder) lookupParent(ctx context.Context, id ID) (Creature, error) {
	c, err := b.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Creature{}, ErrInvalidParent
	}
	return c, err
}
