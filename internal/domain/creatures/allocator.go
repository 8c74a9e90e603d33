package creatures

import "context"

// Allocator entrega el próximo id libre. No avanza el contador:
// eso lo hace Repository.Insert, así un id solo se consume si la inserción tuvo éxito.
type Allocator struct {
	repo Repository
	max  ID
}

func NewAllocator(repo Repository, max ID) *Allocator {
	return &Allocator{repo: repo, max: max}
}

func (a *Allocator) Next(ctx context.Context) (ID, error) {
	id, err := a.repo.Counter(ctx)
	if err != nil {
		return 0, err
	}
	if id >= a.max {
		return 0, ErrExhausted
	}
	return id, nil
}
