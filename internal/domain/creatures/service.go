package creatures

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"creature-registry/internal/platform/logger"
	"creature-registry/internal/ports/ledger"
	"creature-registry/internal/ports/randomness"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultStake es lo que se reserva por cada criatura viva a nombre de su dueño.
const DefaultStake ledger.Amount = 500

// releaseTimeout acota cada Unreserve, que corre desacoplado de la cancelación del request.
const releaseTimeout = 5 * time.Second

// Observer recibe el resultado de cada operación (métricas).
type Observer interface {
	ObserveOperation(op, result string, elapsed time.Duration)
}

type Service struct {
	// mu serializa las operaciones: cada una se ve atómica desde afuera.
	mu sync.RWMutex

	repo      Repository
	ledger    ledger.StakeLedger
	random    randomness.Source
	allocator *Allocator
	breeder   *Breeder

	publisher Publisher
	observer  Observer
	log       logger.Logger
	tracer    trace.Tracer

	stake ledger.Amount
	maxID ID
	now   func() time.Time
}

type Option func(*Service)

func WithStake(amount ledger.Amount) Option {
	return func(s *Service) { s.stake = amount }
}

// WithMaxID limita el espacio de ids (el contador nunca llega a asignar max).
func WithMaxID(max ID) Option {
	return func(s *Service) { s.maxID = max }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(repo Repository, stakes ledger.StakeLedger, random randomness.Source, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		ledger:    stakes,
		random:    random,
		publisher: nopPublisher{},
		log:       logger.Nop(),
		tracer:    otel.Tracer("creature-registry/creatures"),
		stake:     DefaultStake,
		maxID:     MaxID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.allocator = NewAllocator(repo, s.maxID)
	s.breeder = NewBreeder(repo)
	return s
}

// Create reserva stake y registra una criatura génesis con DNA aleatorio.
func (s *Service) Create(ctx context.Context, account string) (_ Creature, err error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return Creature{}, ErrInvalidInput
	}

	ctx, done := s.begin(ctx, "create", attribute.String("account", account))
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Reserve(ctx, account, s.stake); err != nil {
		return Creature{}, err
	}

	id, err := s.allocator.Next(ctx)
	if err != nil {
		s.release(ctx, account)
		return Creature{}, err
	}

	c := Creature{
		ID:        id,
		DNA:       DNA(s.random.Seed(ctx, account, "create:"+id.String())),
		Owner:     account,
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		s.release(ctx, account)
		return Creature{}, err
	}

	s.publish(ctx, Event{Kind: EventCreated, Account: account, CreatureID: id})
	return c, nil
}

// Transfer pasa la criatura de account a to. El receptor reserva stake y el emisor libera el suyo,
// así cada criatura viva tiene exactamente una reserva a nombre de su dueño actual.
func (s *Service) Transfer(ctx context.Context, account, to string, id ID) (_ Creature, err error) {
	account = strings.TrimSpace(account)
	to = strings.TrimSpace(to)
	if account == "" || to == "" {
		return Creature{}, ErrInvalidInput
	}

	ctx, done := s.begin(ctx, "transfer",
		attribute.String("account", account),
		attribute.String("to", to),
		attribute.Int64("creature_id", int64(id)),
	)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Creature{}, ErrUnknownAsset
	}
	if err != nil {
		return Creature{}, err
	}
	if c.Owner != account {
		return Creature{}, ErrNotOwner
	}

	if err := s.ledger.Reserve(ctx, to, s.stake); err != nil {
		return Creature{}, err
	}

	// El stake del emisor se libera recién cuando el cambio de dueño quedó guardado;
	// si el store falla, solo hay que deshacer la reserva del receptor.
	if err := s.repo.ChangeOwner(ctx, id, account, to); err != nil {
		s.release(ctx, to)
		return Creature{}, err
	}
	s.release(ctx, account)

	s.publish(ctx, Event{Kind: EventTransferred, Account: account, To: to, CreatureID: id})

	c.Owner = to
	return c, nil
}

// Breed cruza dos criaturas existentes y le asigna la cría a account.
// No se valida que account sea dueño de los padres.
func (s *Service) Breed(ctx context.Context, account string, id1, id2 ID) (_ Creature, err error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return Creature{}, ErrInvalidInput
	}

	ctx, done := s.begin(ctx, "breed",
		attribute.String("account", account),
		attribute.Int64("parent1_id", int64(id1)),
		attribute.Int64("parent2_id", int64(id2)),
	)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Reserve(ctx, account, s.stake); err != nil {
		return Creature{}, err
	}

	selector := DNA(s.random.Seed(ctx, account, fmt.Sprintf("breed:%d:%d", id1, id2)))
	dna, err := s.breeder.Breed(ctx, id1, id2, selector)
	if err != nil {
		s.release(ctx, account)
		return Creature{}, err
	}

	childID, err := s.allocator.Next(ctx)
	if err != nil {
		s.release(ctx, account)
		return Creature{}, err
	}

	child := Creature{
		ID:        childID,
		DNA:       dna,
		Owner:     account,
		Parents:   &Parents{First: id1, Second: id2},
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertChild(ctx, child); err != nil {
		s.release(ctx, account)
		return Creature{}, err
	}

	s.publish(ctx, Event{Kind: EventCreated, Account: account, CreatureID: childID})
	return child, nil
}

func (s *Service) Get(ctx context.Context, id ID) (Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.Get(ctx, id)
}

// ListByOwner devuelve las criaturas de owner en el orden del índice.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Creature, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := make([]Creature, 0, len(ids))
	for _, id := range ids {
		c, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("owner index points to %d: %w", id, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Lineage devuelve padres, hijos, parejas y hermanos de id.
// Hermanos: hijos de cualquiera de los dos padres, sin repetir y sin incluir a id.
func (s *Service) Lineage(ctx context.Context, id ID) (Lineage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Lineage{}, err
	}

	out := Lineage{
		ID:       c.ID,
		Parents:  c.Parents,
		Children: nonNil(c.Children),
		Partners: nonNil(c.Partners),
		Siblings: []ID{},
	}
	if c.IsGenesis() {
		return out, nil
	}

	for _, pid := range []ID{c.Parents.First, c.Parents.Second} {
		p, err := s.repo.Get(ctx, pid)
		if err != nil {
			return Lineage{}, fmt.Errorf("parent %d: %w", pid, err)
		}
		for _, sib := range p.Children {
			if sib != id {
				out.Siblings = append(out.Siblings, sib)
			}
		}
	}
	slices.Sort(out.Siblings)
	out.Siblings = slices.Compact(out.Siblings)

	return out, nil
}

// Count devuelve el contador actual (cantidad de ids asignados).
func (s *Service) Count(ctx context.Context) (ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.Counter(ctx)
}

// release devuelve el stake de account. Corre aunque ctx ya esté cancelado: un request
// abandonado a mitad de camino no puede dejar stake tomado.
func (s *Service) release(ctx context.Context, account string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	s.ledger.Unreserve(ctx, account, s.stake)
}

func (s *Service) publish(ctx context.Context, e Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.WithTrace(ctx, s.log).Warn("publish event failed", map[string]any{
			"kind":        string(e.Kind),
			"creature_id": e.CreatureID,
			"error":       err.Error(),
		})
	}
}

// begin abre el span de la operación y devuelve la función que lo cierra
// registrando el resultado en logs, métricas y traza.
func (s *Service) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "creatures."+op, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		result := ResultLabel(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		}
		span.End()

		if s.observer != nil {
			s.observer.ObserveOperation(op, result, s.now().Sub(start))
		}
		logger.WithTrace(ctx, s.log).Debug("registry operation", map[string]any{
			"op":     op,
			"result": result,
		})
	}
}

// ResultLabel clasifica un error de operación en una etiqueta estable (métricas y logs).
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrExhausted):
		return "exhausted"
	case errors.Is(err, ErrSameParent):
		return "same_parent"
	case errors.Is(err, ErrInvalidParent):
		return "invalid_parent"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrUnknownAsset):
		return "unknown_asset"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}

func nonNil(ids []ID) []ID {
	if ids == nil {
		return []ID{}
	}
	return ids
}
