package events

import (
	"time"

	"creature-registry/internal/domain/creatures"
)

// Record es una entrada del log de eventos del registro.
// Created: Account es el dueño nuevo. Transferred: Account es el emisor y To el receptor.
type Record struct {
	ID string

	// Seq lo asigna el repositorio; ordena los registros de forma total.
	Seq int64

	Kind       creatures.EventKind
	Account    string
	To         string
	CreatureID creatures.ID
	RecordedAt time.Time
}

// Involves indica si account participó en el evento (como emisor o receptor).
func (r Record) Involves(account string) bool {
	return r.Account == account || (r.To != "" && r.To == account)
}
