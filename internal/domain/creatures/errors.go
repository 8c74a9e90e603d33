package creatures

import (
	"errors"

	"creature-registry/internal/ports/ledger"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("creature not found")
	ErrDuplicate     = errors.New("creature already exists")
	ErrExhausted     = errors.New("creature ids exhausted")
	ErrInvalidParent = errors.New("invalid parent creature")
	ErrSameParent    = errors.New("parents must be different creatures")
	ErrNotOwner      = errors.New("not the owner")
	ErrUnknownAsset  = errors.New("unknown creature")

	// ErrInsufficientFunds es el mismo sentinel del ledger, para que los handlers no importen el port.
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
)
