package creatures

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"creature-registry/internal/ports/ledger"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	next    ID
	byID    map[ID]Creature
	byOwner map[string][]ID

	failInsert error

	// cancelan el ctx del request en medio de la escritura
	cancelBeforeInsert     context.CancelFunc
	cancelAfterChangeOwner context.CancelFunc
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[ID]Creature{}, byOwner: map[string][]ID{}}
}

func (r *testRepo) Counter(ctx context.Context) (ID, error) { return r.next, nil }

func (r *testRepo) Insert(ctx context.Context, c Creature) error {
	if r.failInsert != nil {
		return r.failInsert
	}
	if r.cancelBeforeInsert != nil {
		r.cancelBeforeInsert()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.byID[c.ID]; ok {
		return ErrDuplicate
	}
	r.byID[c.ID] = c.Clone()
	r.next = c.ID + 1
	r.byOwner[c.Owner] = append(r.byOwner[c.Owner], c.ID)
	return nil
}

func (r *testRepo) Get(ctx context.Context, id ID) (Creature, error) {
	c, ok := r.byID[id]
	if !ok {
		return Creature{}, ErrNotFound
	}
	return c.Clone(), nil
}

func (r *testRepo) InsertChild(ctx context.Context, child Creature) error {
	p1, ok1 := r.byID[child.Parents.First]
	p2, ok2 := r.byID[child.Parents.Second]
	if !ok1 || !ok2 {
		return ErrInvalidParent
	}
	if err := r.Insert(ctx, child); err != nil {
		return err
	}
	p1, p2 = p1.Clone(), p2.Clone()
	AppendLineage(&p1, child.ID, p2.ID)
	AppendLineage(&p2, child.ID, p1.ID)
	r.byID[p1.ID] = p1
	r.byID[p2.ID] = p2
	return nil
}

func (r *testRepo) ChangeOwner(ctx context.Context, id ID, from, to string) error {
	c, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	c.Owner = to
	r.byID[id] = c
	r.byOwner[from] = slices.DeleteFunc(r.byOwner[from], func(x ID) bool { return x == id })
	r.byOwner[to] = append(r.byOwner[to], id)
	if r.cancelAfterChangeOwner != nil {
		r.cancelAfterChangeOwner()
	}
	return nil
}

func (r *testRepo) ListByOwner(ctx context.Context, owner string) ([]ID, error) {
	return slices.Clone(r.byOwner[owner]), nil
}

// -------------------------
// Test ledger
// -------------------------

// testLedger respeta ctx como el ledger remoto: con ctx cancelado no hace nada.

type testLedger struct {
	free     map[string]ledger.Amount
	reserved map[string]ledger.Amount
}

func newTestLedger(free map[string]ledger.Amount) *testLedger {
	return &testLedger{free: free, reserved: map[string]ledger.Amount{}}
}

func (l *testLedger) Reserve(ctx context.Context, account string, amount ledger.Amount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.free[account] < amount {
		return ledger.ErrInsufficientFunds
	}
	l.free[account] -= amount
	l.reserved[account] += amount
	return nil
}

func (l *testLedger) Unreserve(ctx context.Context, account string, amount ledger.Amount) {
	if ctx.Err() != nil {
		return
	}
	amount = min(amount, l.reserved[account])
	l.reserved[account] -= amount
	l.free[account] += amount
}

// -------------------------
// Test randomness
// -------------------------

// stubRandom devuelve los valores encolados en orden; vacío => patrón fijo por llamada.
type stubRandom struct {
	mu    sync.Mutex
	queue [][16]byte
	calls int
	salts []string
}

func (s *stubRandom) Seed(ctx context.Context, account, salt string) [16]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.salts = append(s.salts, salt)
	if len(s.queue) > 0 {
		v := s.queue[0]
		s.queue = s.queue[1:]
		return v
	}
	var out [16]byte
	for i := range out {
		out[i] = byte(s.calls*17 + i*3)
	}
	return out
}

// -------------------------
// Test publisher / observer
// -------------------------

type testPublisher struct {
	events []Event
	err    error
}

func (p *testPublisher) Publish(ctx context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

type testObserver struct {
	results map[string][]string
}

func (o *testObserver) ObserveOperation(op, result string, _ time.Duration) {
	if o.results == nil {
		o.results = map[string][]string{}
	}
	o.results[op] = append(o.results[op], result)
}

var errStore = errors.New("store unavailable")
