package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"creature-registry/internal/domain/creatures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceRepo struct {
	mu   sync.Mutex
	recs []Record
}

func (r *sliceRepo) Append(ctx context.Context, rec Record) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.Seq = int64(len(r.recs) + 1)
	r.recs = append(r.recs, rec)
	return rec.Seq, nil
}

func (r *sliceRepo) List(ctx context.Context, f ListFilter) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Record{}
	for i := len(r.recs) - 1; i >= 0 && len(out) < f.NormalizedLimit(); i-- {
		if f.Matches(r.recs[i]) {
			out = append(out, r.recs[i])
		}
	}
	return out, nil
}

func newTestService() (*Service, *sliceRepo) {
	repo := &sliceRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestService_PublishRecordsEvent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Publish(ctx, creatures.Event{Kind: creatures.EventCreated, Account: "x", CreatureID: 0}))
	require.NoError(t, svc.Publish(ctx, creatures.Event{Kind: creatures.EventTransferred, Account: "x", To: "y", CreatureID: 0}))

	require.Len(t, repo.recs, 2)
	assert.NotEmpty(t, repo.recs[0].ID)
	assert.NotEqual(t, repo.recs[0].ID, repo.recs[1].ID)
	assert.Equal(t, creatures.EventTransferred, repo.recs[1].Kind)
	assert.Equal(t, "y", repo.recs[1].To)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), repo.recs[1].RecordedAt)
}

func TestService_RecordRejectsMalformed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []creatures.Event{
		{Kind: "Burned", Account: "x"},
		{Kind: creatures.EventCreated, Account: " "},
		{Kind: creatures.EventTransferred, Account: "x"},
	}
	for _, e := range cases {
		_, err := svc.Record(ctx, e)
		require.ErrorIs(t, err, ErrInvalidInput, "%+v", e)
	}
}

func TestService_ListFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _ = svc.Record(ctx, creatures.Event{Kind: creatures.EventCreated, Account: "x", CreatureID: 0})
	_, _ = svc.Record(ctx, creatures.Event{Kind: creatures.EventCreated, Account: "y", CreatureID: 1})
	_, _ = svc.Record(ctx, creatures.Event{Kind: creatures.EventTransferred, Account: "x", To: "z", CreatureID: 0})

	got, err := svc.List(ctx, ListFilter{Account: "z"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, creatures.EventTransferred, got[0].Kind)

	id := creatures.ID(0)
	got, err = svc.List(ctx, ListFilter{CreatureID: &id})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Greater(t, got[0].Seq, got[1].Seq)

	got, err = svc.List(ctx, ListFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Seq)

	_, err = svc.List(ctx, ListFilter{Limit: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListFilter_NormalizedLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ListFilter{}.NormalizedLimit())
	assert.Equal(t, 7, ListFilter{Limit: 7}.NormalizedLimit())
	assert.Equal(t, MaxLimit, ListFilter{Limit: 1000}.NormalizedLimit())
}
