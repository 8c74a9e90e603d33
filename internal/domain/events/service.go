package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"creature-registry/internal/domain/creatures"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Service guarda los eventos que emite el registro. Implementa creatures.Publisher.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

var _ creatures.Publisher = (*Service)(nil)

func (s *Service) Publish(ctx context.Context, e creatures.Event) error {
	_, err := s.Record(ctx, e)
	return err
}

func (s *Service) Record(ctx context.Context, e creatures.Event) (Record, error) {
	switch e.Kind {
	case creatures.EventCreated:
	case creatures.EventTransferred:
		if strings.TrimSpace(e.To) == "" {
			return Record{}, ErrInvalidInput
		}
	default:
		return Record{}, ErrInvalidInput
	}
	if strings.TrimSpace(e.Account) == "" {
		return Record{}, ErrInvalidInput
	}

	rec := Record{
		ID:         uuid.NewString(),
		Kind:       e.Kind,
		Account:    e.Account,
		To:         e.To,
		CreatureID: e.CreatureID,
		RecordedAt: s.now().UTC(),
	}

	seq, err := s.repo.Append(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	rec.Seq = seq
	return rec, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	filter.Account = strings.TrimSpace(filter.Account)
	if filter.Limit < 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, filter)
}
