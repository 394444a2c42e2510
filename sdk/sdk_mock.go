package sdk

import (
	"fmt"
	"sync"
)

// MemoryLedger is an in-process FundLedger used by tests and local runs when no external
// token ledger is wired in.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[Address]Amount
	supply   Amount
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[Address]Amount)}
}

func (l *MemoryLedger) BalanceOf(addr Address) (Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr], nil
}

// Supply reports minted minus burned units.
func (l *MemoryLedger) Supply() Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.supply
}

func (l *MemoryLedger) Transfer(from, to Address, amount Amount) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return fmt.Errorf("transfer %s from %s: %w", amount, from, ErrInsufficientBalance)
	}
	if from == to {
		return nil
	}
	next, ok := AddAmount(l.balances[to], amount)
	if !ok {
		return ErrInvalidAmount
	}
	l.balances[from] -= amount
	l.balances[to] = next
	return nil
}

func (l *MemoryLedger) Mint(to Address, amount Amount) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	supply, ok := AddAmount(l.supply, amount)
	if !ok {
		return ErrInvalidAmount
	}
	l.supply = supply
	l.balances[to] += amount
	return nil
}

func (l *MemoryLedger) Burn(from Address, amount Amount) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return fmt.Errorf("burn %s from %s: %w", amount, from, ErrInsufficientBalance)
	}
	l.balances[from] -= amount
	l.supply -= amount
	return nil
}
