package events

import (
	"context"

	"creature-registry/internal/domain/creatures"
)

type Repository interface {
	// Append guarda el registro y devuelve el Seq asignado.
	Append(ctx context.Context, rec Record) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)
}

// ListFilter: los campos vacíos no filtran. Resultados del más reciente al más viejo.
type ListFilter struct {
	Account    string
	CreatureID *creatures.ID
	Limit      int
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// NormalizedLimit aplica el default y el tope del listado.
func (f ListFilter) NormalizedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}

// Matches evalúa el filtro en memoria (lo usan los stores sin SQL).
func (f ListFilter) Matches(rec Record) bool {
	if f.Account != "" && !rec.Involves(f.Account) {
		return false
	}
	if f.CreatureID != nil && rec.CreatureID != *f.CreatureID {
		return false
	}
	return true
}
