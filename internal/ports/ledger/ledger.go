package ledger

import (
	"context"
	"errors"
)

// ErrInsufficientFunds se devuelve cuando el saldo libre no alcanza para reservar.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Amount es una cantidad en la unidad mínima del ledger.
type Amount uint64

// StakeLedger bloquea y libera stake contra un ledger de balances externo.
type StakeLedger interface {
	// Reserve bloquea amount del saldo libre de account.
	// Si falla, no queda ninguna reserva parcial.
	Reserve(ctx context.Context, account string, amount Amount) error

	// Unreserve libera una reserva previa. No devuelve error: asume que el caller reservó antes.
	Unreserve(ctx context.Context, account string, amount Amount)
}
