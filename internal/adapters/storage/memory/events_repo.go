package memory

import (
	"context"
	"errors"
	"sync"

	"creature-registry/internal/domain/events"
)

type eventRepo struct {
	mu   sync.RWMutex
	recs []events.Record
	ids  map[string]struct{}
}

func NewEventRepo() events.Repository {
	return &eventRepo{
		ids: make(map[string]struct{}),
	}
}

func (r *eventRepo) Append(ctx context.Context, rec events.Record) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return 0, errors.New("event id required")
	}
	if _, exists := r.ids[rec.ID]; exists {
		return 0, errors.New("event already exists")
	}

	rec.Seq = int64(len(r.recs) + 1)
	r.recs = append(r.recs, rec)
	r.ids[rec.ID] = struct{}{}
	return rec.Seq, nil
}

func (r *eventRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.NormalizedLimit()
	out := make([]events.Record, 0)

	// del más reciente al más viejo
	for i := len(r.recs) - 1; i >= 0 && len(out) < limit; i-- {
		if filter.Matches(r.recs[i]) {
			out = append(out, r.recs[i])
		}
	}
	return out, nil
}
