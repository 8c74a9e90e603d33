package creatures

import "context"

type EventKind string

const (
	EventCreated     EventKind = "Created"
	EventTransferred EventKind = "Transferred"
)

// Event es un evento de dominio emitido tras una operación exitosa.
// Created: Account es el dueño nuevo. Transferred: Account es el emisor y To el receptor.
type Event struct {
	Kind       EventKind
	Account    string
	To         string
	CreatureID ID
}

// Publisher entrega eventos de dominio. Un error no revierte la operación ya confirmada.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
