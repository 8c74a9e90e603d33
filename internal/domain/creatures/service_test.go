package creatures

import (
	"context"
	"testing"
	"time"

	"creature-registry/internal/ports/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	repo   *testRepo
	ledger *testLedger
	random *stubRandom
	pub    *testPublisher
	obs    *testObserver
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	balances := map[string]ledger.Amount{
		"x":    2000,
		"y":    2000,
		"z":    2000,
		"w":    2000,
		"poor": 400,
	}
	f := &fixture{
		repo:   newTestRepo(),
		ledger: newTestLedger(balances),
		random: &stubRandom{},
		pub:    &testPublisher{},
		obs:    &testObserver{},
	}
	opts = append([]Option{WithPublisher(f.pub), WithObserver(f.obs)}, opts...)
	f.svc = NewService(f.repo, f.ledger, f.random, opts...)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }
	return f
}

func (f *fixture) create(t *testing.T, account string) Creature {
	t.Helper()
	c, err := f.svc.Create(context.Background(), account)
	require.NoError(t, err)
	return c
}

func (f *fixture) counter(t *testing.T) ID {
	t.Helper()
	n, err := f.svc.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestService_Create_AssignsFirstIDToCaller(t *testing.T) {
	f := newFixture(t)

	c := f.create(t, "x")

	assert.Equal(t, ID(0), c.ID)
	assert.Equal(t, "x", c.Owner)
	assert.True(t, c.IsGenesis())
	assert.Equal(t, ID(1), f.counter(t))
	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["x"])

	stored, err := f.svc.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, c.DNA, stored.DNA)
	assert.Equal(t, []ID{0}, f.repo.byOwner["x"])

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, Event{Kind: EventCreated, Account: "x", CreatureID: 0}, f.pub.events[0])
	assert.Equal(t, []string{"ok"}, f.obs.results["create"])
}

func TestService_Create_InsufficientFundsChangesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "poor")

	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, ID(0), f.counter(t))
	assert.Empty(t, f.repo.byID)
	assert.Empty(t, f.pub.events)
	assert.Equal(t, ledger.Amount(400), f.ledger.free["poor"])
	assert.Zero(t, f.random.calls, "randomness is not drawn before the stake check")
	assert.Equal(t, []string{"insufficient_funds"}, f.obs.results["create"])
}

func TestService_Create_RejectsEmptyAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "   ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Create_ExhaustedReleasesReservation(t *testing.T) {
	f := newFixture(t, WithMaxID(1))

	f.create(t, "x")
	_, err := f.svc.Create(context.Background(), "x")

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, ID(1), f.counter(t))
	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["x"], "only the live creature keeps a stake")
	assert.Equal(t, ledger.Amount(1500), f.ledger.free["x"])
}

func TestService_Create_StoreFailureReleasesReservation(t *testing.T) {
	f := newFixture(t)
	f.repo.failInsert = errStore

	_, err := f.svc.Create(context.Background(), "x")

	require.ErrorIs(t, err, errStore)
	assert.Zero(t, f.ledger.reserved["x"])
	assert.Equal(t, ID(0), f.counter(t))
}

func TestService_Create_PublishFailureDoesNotUndo(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errStore

	c, err := f.svc.Create(context.Background(), "x")

	require.NoError(t, err)
	_, err = f.svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
}

func TestService_Transfer_NotOwner(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")

	_, err := f.svc.Transfer(context.Background(), "z", "w", 0)

	require.ErrorIs(t, err, ErrNotOwner)
	c, err := f.svc.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "x", c.Owner)
	assert.Equal(t, []ID{0}, f.repo.byOwner["x"])
	assert.Empty(t, f.repo.byOwner["w"])
	assert.Zero(t, f.ledger.reserved["w"])
}

func TestService_Transfer_MovesOwnershipAndStake(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")

	c, err := f.svc.Transfer(context.Background(), "x", "y", 0)

	require.NoError(t, err)
	assert.Equal(t, "y", c.Owner)

	stored, err := f.svc.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "y", stored.Owner)
	assert.NotContains(t, f.repo.byOwner["x"], ID(0))
	assert.Equal(t, []ID{0}, f.repo.byOwner["y"])

	assert.Zero(t, f.ledger.reserved["x"])
	assert.Equal(t, ledger.Amount(2000), f.ledger.free["x"])
	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["y"])

	require.Len(t, f.pub.events, 2)
	assert.Equal(t, Event{Kind: EventTransferred, Account: "x", To: "y", CreatureID: 0}, f.pub.events[1])

	// el emisor anterior ya no puede volver a transferirla
	_, err = f.svc.Transfer(context.Background(), "x", "z", 0)
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestService_Transfer_RecipientWithoutStake(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")

	_, err := f.svc.Transfer(context.Background(), "x", "poor", 0)

	require.ErrorIs(t, err, ErrInsufficientFunds)
	c, err := f.svc.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "x", c.Owner)
	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["x"])
}

func TestService_Transfer_UnknownAsset(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transfer(context.Background(), "x", "y", 7)

	require.ErrorIs(t, err, ErrUnknownAsset)
	assert.Zero(t, f.ledger.reserved["y"])
}

func TestService_Transfer_StoreFailureReleasesRecipient(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")
	f.svc.repo = &changeOwnerFails{testRepo: f.repo}

	_, err := f.svc.Transfer(context.Background(), "x", "y", 0)

	require.ErrorIs(t, err, errStore)
	assert.Zero(t, f.ledger.reserved["y"])
	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["x"])
}

type changeOwnerFails struct{ *testRepo }

func (changeOwnerFails) ChangeOwner(context.Context, ID, string, string) error { return errStore }

func TestService_Breed_CreatesChildWithCombinedDNA(t *testing.T) {
	f := newFixture(t)
	p0 := f.create(t, "x")
	p1 := f.create(t, "y")

	selector := [16]byte{0xff, 0x00, 0xf0, 0x0f, 0xaa, 0x55, 0xff, 0x00, 0x01, 0x80, 0xff, 0x00, 0xcc, 0x33, 0x00, 0xff}
	f.random.queue = append(f.random.queue, selector)

	child, err := f.svc.Breed(context.Background(), "z", 0, 1)

	require.NoError(t, err)
	assert.Equal(t, ID(2), child.ID)
	assert.Equal(t, "z", child.Owner)
	require.NotNil(t, child.Parents)
	assert.Equal(t, Parents{First: 0, Second: 1}, *child.Parents)
	assert.Equal(t, CombineDNA(p0.DNA, p1.DNA, DNA(selector)), child.DNA)
	assert.Equal(t, []string{"create:0", "create:1", "breed:0:1"}, f.random.salts)

	a, err := f.svc.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []ID{2}, a.Children)
	assert.Equal(t, []ID{1}, a.Partners)

	b, err := f.svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []ID{2}, b.Children)
	assert.Equal(t, []ID{0}, b.Partners)

	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["z"])
	assert.Equal(t, Event{Kind: EventCreated, Account: "z", CreatureID: 2}, f.pub.events[len(f.pub.events)-1])
}

// Breed no valida la propiedad de los padres: cualquiera que pueda reservar stake puede cruzarlos.
func TestService_Breed_DoesNotRequireParentOwnership(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")
	f.create(t, "x")

	child, err := f.svc.Breed(context.Background(), "w", 0, 1)

	require.NoError(t, err)
	assert.Equal(t, "w", child.Owner)
	assert.Equal(t, []ID{0, 1}, f.repo.byOwner["x"])
}

func TestService_Breed_SameParent(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")

	_, err := f.svc.Breed(context.Background(), "x", 0, 0)

	require.ErrorIs(t, err, ErrSameParent)
	assert.Equal(t, ID(1), f.counter(t))
	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["x"], "breed reservation is released")
}

func TestService_Breed_UnknownParent(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")

	_, err := f.svc.Breed(context.Background(), "y", 0, 99)
	require.ErrorIs(t, err, ErrInvalidParent)

	_, err = f.svc.Breed(context.Background(), "y", 99, 0)
	require.ErrorIs(t, err, ErrInvalidParent)

	assert.Equal(t, ID(1), f.counter(t))
	assert.Zero(t, f.ledger.reserved["y"])
	assert.Empty(t, f.repo.byOwner["y"])
}

func TestService_Breed_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")
	f.create(t, "x")

	_, err := f.svc.Breed(context.Background(), "poor", 0, 1)

	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, ID(2), f.counter(t))
}

func TestService_Breed_ExhaustedReleasesReservation(t *testing.T) {
	f := newFixture(t, WithMaxID(2))
	f.create(t, "x")
	f.create(t, "x")

	_, err := f.svc.Breed(context.Background(), "y", 0, 1)

	require.ErrorIs(t, err, ErrExhausted)
	assert.Zero(t, f.ledger.reserved["y"])
	a, err := f.svc.Get(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, a.Children)
}

func TestService_Breed_StoreFailureLeavesNoChild(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")
	f.create(t, "x")
	f.repo.failInsert = errStore

	_, err := f.svc.Breed(context.Background(), "y", 0, 1)

	require.ErrorIs(t, err, errStore)
	assert.Equal(t, ID(2), f.counter(t))
	_, getErr := f.svc.Get(context.Background(), 2)
	require.ErrorIs(t, getErr, ErrNotFound)
	for _, id := range []ID{0, 1} {
		p, err := f.svc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Empty(t, p.Children)
		assert.Empty(t, p.Partners)
	}
	assert.Zero(t, f.ledger.reserved["y"])
}

func TestService_Create_CancelledRequestStillReleasesStake(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.repo.cancelBeforeInsert = cancel

	_, err := f.svc.Create(ctx, "x")

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ID(0), f.counter(t))
	assert.Zero(t, f.ledger.reserved["x"])
	assert.Equal(t, ledger.Amount(2000), f.ledger.free["x"])
}

func TestService_Breed_CancelledRequestStillReleasesStake(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")
	f.create(t, "x")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.repo.cancelBeforeInsert = cancel

	_, err := f.svc.Breed(ctx, "y", 0, 1)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ID(2), f.counter(t))
	assert.Zero(t, f.ledger.reserved["y"])
	assert.Equal(t, ledger.Amount(2000), f.ledger.free["y"])
}

func TestService_Transfer_CancelAfterCommitReleasesSender(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.repo.cancelAfterChangeOwner = cancel

	c, err := f.svc.Transfer(ctx, "x", "y", 0)

	require.NoError(t, err)
	assert.Equal(t, "y", c.Owner)
	assert.Zero(t, f.ledger.reserved["x"], "one reservation per creature, held by the new owner")
	assert.Equal(t, ledger.Amount(2000), f.ledger.free["x"])
	assert.Equal(t, ledger.Amount(500), f.ledger.reserved["y"])
}

func TestService_Lineage(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x") // 0
	f.create(t, "x") // 1
	f.create(t, "x") // 2

	ctx := context.Background()
	_, err := f.svc.Breed(ctx, "x", 0, 1) // 3
	require.NoError(t, err)
	_, err = f.svc.Breed(ctx, "x", 1, 0) // 4
	require.NoError(t, err)
	_, err = f.svc.Breed(ctx, "x", 0, 2) // 5
	require.NoError(t, err)

	l, err := f.svc.Lineage(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, l.Parents)
	assert.Equal(t, Parents{First: 0, Second: 1}, *l.Parents)
	assert.Equal(t, []ID{4, 5}, l.Siblings)
	assert.Empty(t, l.Children)

	root, err := f.svc.Lineage(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, root.Parents)
	assert.Equal(t, []ID{3, 4, 5}, root.Children)
	assert.Equal(t, []ID{1, 1, 2}, root.Partners)
	assert.Empty(t, root.Siblings)

	_, err = f.svc.Lineage(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListByOwner_FollowsIndexOrder(t *testing.T) {
	f := newFixture(t)
	f.create(t, "x")
	f.create(t, "y")
	f.create(t, "x")

	ctx := context.Background()
	_, err := f.svc.Transfer(ctx, "y", "x", 1)
	require.NoError(t, err)

	items, err := f.svc.ListByOwner(ctx, "x")
	require.NoError(t, err)

	ids := make([]ID, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []ID{0, 2, 1}, ids)

	empty, err := f.svc.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
