package creatures

import "context"

// Repository guarda las criaturas, el índice por dueño y el contador de ids.
// Cada método es atómico por sí mismo: o se aplican todos sus cambios o ninguno.
type Repository interface {
	// Counter devuelve el próximo id a asignar (sin avanzarlo).
	Counter(ctx context.Context) (ID, error)

	// Insert guarda c, deja el contador en c.ID+1 y agrega c.ID al final de la lista de c.Owner.
	// Devuelve ErrDuplicate (sin cambios) si el id ya existe.
	Insert(ctx context.Context, c Creature) error

	// Get devuelve ErrNotFound si el id no existe.
	Get(ctx context.Context, id ID) (Creature, error)

	// InsertChild es Insert más el linaje de los padres en un solo paso: agrega child.ID a
	// Children y el otro padre a Partners de cada uno. El resto del registro de los padres
	// no cambia. ErrInvalidParent (sin cambios) si falta alguno de los padres.
	InsertChild(ctx context.Context, child Creature) error

	// ChangeOwner cambia el dueño y mueve el id de la lista de from a la de to en un solo paso.
	ChangeOwner(ctx context.Context, id ID, from, to string) error

	// ListByOwner devuelve los ids del dueño en orden de inserción (vacío si no tiene).
	ListByOwner(ctx context.Context, owner string) ([]ID, error)
}
