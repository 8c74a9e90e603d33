package memory

import (
	"context"
	"strings"
	"sync"

	"creature-registry/internal/ports/ledger"
)

type balance struct {
	free     ledger.Amount
	reserved ledger.Amount
}

// Ledger es un ledger de balances en proceso (modo dev y tests).
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*balance
}

var _ ledger.StakeLedger = (*Ledger)(nil)

// New arranca con los saldos libres indicados (puede ser nil).
func New(initial map[string]ledger.Amount) *Ledger {
	l := &Ledger{accounts: make(map[string]*balance, len(initial))}
	for account, amount := range initial {
		l.Deposit(account, amount)
	}
	return l
}

// Deposit suma saldo libre a account.
func (l *Ledger) Deposit(account string, amount ledger.Amount) {
	account = strings.TrimSpace(account)
	if account == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.get(account).free += amount
}

func (l *Ledger) Reserve(ctx context.Context, account string, amount ledger.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.accounts[account]
	if !ok || b.free < amount {
		return ledger.ErrInsufficientFunds
	}
	b.free -= amount
	b.reserved += amount
	return nil
}

// Unreserve libera como máximo lo reservado; nunca deja reservas negativas.
func (l *Ledger) Unreserve(ctx context.Context, account string, amount ledger.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.accounts[account]
	if !ok {
		return
	}
	amount = min(amount, b.reserved)
	b.reserved -= amount
	b.free += amount
}

// Balance devuelve saldo libre y reservado de account.
func (l *Ledger) Balance(account string) (free, reserved ledger.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.accounts[account]
	if !ok {
		return 0, 0
	}
	return b.free, b.reserved
}

func (l *Ledger) get(account string) *balance {
	b, ok := l.accounts[account]
	if !ok {
		b = &balance{}
		l.accounts[account] = b
	}
	return b
}
