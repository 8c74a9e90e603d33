package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"creature-registry/internal/domain/creatures"
)

// creatureRepo guarda contador, registros e índice por dueño bajo un único lock,
// así cada método se aplica completo o no se aplica.
type creatureRepo struct {
	mu      sync.RWMutex
	next    creatures.ID
	byID    map[creatures.ID]creatures.Creature
	byOwner map[string][]creatures.ID
}

func NewCreatureRepo() creatures.Repository {
	return &creatureRepo{
		byID:    make(map[creatures.ID]creatures.Creature),
		byOwner: make(map[string][]creatures.ID),
	}
}

func (r *creatureRepo) Counter(ctx context.Context) (creatures.ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.next, nil
}

func (r *creatureRepo) Insert(ctx context.Context, c creatures.Creature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(c)
}

// InsertChild valida ambos padres antes de tocar nada; después inserta la cría
// y agrega el linaje a los dos padres bajo el mismo lock.
func (r *creatureRepo) InsertChild(ctx context.Context, child creatures.Creature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if child.Parents == nil {
		return creatures.ErrInvalidInput
	}
	if child.Parents.First == child.Parents.Second {
		return creatures.ErrSameParent
	}
	first, ok1 := r.byID[child.Parents.First]
	second, ok2 := r.byID[child.Parents.Second]
	if !ok1 || !ok2 {
		return creatures.ErrInvalidParent
	}

	if err := r.insertLocked(child); err != nil {
		return err
	}

	first = first.Clone()
	creatures.AppendLineage(&first, child.ID, second.ID)
	r.byID[first.ID] = first

	second = second.Clone()
	creatures.AppendLineage(&second, child.ID, first.ID)
	r.byID[second.ID] = second
	return nil
}

func (r *creatureRepo) insertLocked(c creatures.Creature) error {
	if strings.TrimSpace(c.Owner) == "" {
		return creatures.ErrInvalidInput
	}
	if c.ID == creatures.MaxID {
		return creatures.ErrExhausted
	}
	if _, exists := r.byID[c.ID]; exists {
		return creatures.ErrDuplicate
	}

	r.byID[c.ID] = c.Clone()
	if c.ID >= r.next {
		r.next = c.ID + 1
	}
	r.byOwner[c.Owner] = append(r.byOwner[c.Owner], c.ID)
	return nil
}

func (r *creatureRepo) Get(ctx context.Context, id creatures.ID) (creatures.Creature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return creatures.Creature{}, creatures.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *creatureRepo) ChangeOwner(ctx context.Context, id creatures.ID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(to) == "" {
		return creatures.ErrInvalidInput
	}
	c, ok := r.byID[id]
	if !ok {
		return creatures.ErrNotFound
	}
	if c.Owner != from {
		return creatures.ErrNotOwner
	}

	c.Owner = to
	r.byID[id] = c

	rest := slices.DeleteFunc(r.byOwner[from], func(x creatures.ID) bool { return x == id })
	if len(rest) == 0 {
		delete(r.byOwner, from)
	} else {
		r.byOwner[from] = rest
	}
	r.byOwner[to] = append(r.byOwner[to], id)
	return nil
}

func (r *creatureRepo) ListByOwner(ctx context.Context, owner string) ([]creatures.ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.byOwner[owner])
	if out == nil {
		out = []creatures.ID{}
	}
	return out, nil
}
