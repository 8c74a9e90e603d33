package randomness

import "context"

// Source produce 16 bytes pseudoaleatorios para una cuenta y un contexto de llamada (salt).
type Source interface {
	Seed(ctx context.Context, account, salt string) [16]byte
}
