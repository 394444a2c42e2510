package contract

import (
	"errors"
	"fmt"

	"charcoin/sdk"
	"go.uber.org/zap"
)

// -----------------------------------------------------------------------------
// State backed ledger
// -----------------------------------------------------------------------------

// stateLedger keeps balances in the same store as everything else, so a failed operation
// rolls back its fund movements together with its state writes.
type stateLedger struct {
	st State
}

func newStateLedger(st State) *stateLedger { return &stateLedger{st: st} }

func (l *stateLedger) BalanceOf(addr sdk.Address) (sdk.Amount, error) {
	n, err := getCount(l.st, balanceKey(addr))
	return sdk.Amount(n), err
}

func (l *stateLedger) setBalance(addr sdk.Address, v sdk.Amount) error {
	if v == 0 {
		if err := l.st.Delete(balanceKey(addr)); err != nil {
			return internal("clear balance", err)
		}
		return nil
	}
	return setCount(l.st, balanceKey(addr), uint64(v))
}

func (l *stateLedger) Transfer(from, to sdk.Address, amount sdk.Amount) error {
	if amount == 0 {
		return sdk.ErrInvalidAmount
	}
	src, err := l.BalanceOf(from)
	if err != nil {
		return err
	}
	if src < amount {
		return fmt.Errorf("transfer %s from %s: %w", amount, from, sdk.ErrInsufficientBalance)
	}
	if from == to {
		return nil
	}
	dst, err := l.BalanceOf(to)
	if err != nil {
		return err
	}
	next, ok := sdk.AddAmount(dst, amount)
	if !ok {
		return sdk.ErrInvalidAmount
	}
	if err := l.setBalance(from, src-amount); err != nil {
		return err
	}
	return l.setBalance(to, next)
}

func (l *stateLedger) Mint(to sdk.Address, amount sdk.Amount) error {
	if amount == 0 {
		return sdk.ErrInvalidAmount
	}
	supply, err := getCount(l.st, supplyKey)
	if err != nil {
		return err
	}
	next, ok := sdk.AddAmount(sdk.Amount(supply), amount)
	if !ok {
		return sdk.ErrInvalidAmount
	}
	bal, err := l.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := setCount(l.st, supplyKey, uint64(next)); err != nil {
		return err
	}
	return l.setBalance(to, bal+amount)
}

func (l *stateLedger) Burn(from sdk.Address, amount sdk.Amount) error {
	if amount == 0 {
		return sdk.ErrInvalidAmount
	}
	bal, err := l.BalanceOf(from)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("burn %s from %s: %w", amount, from, sdk.ErrInsufficientBalance)
	}
	supply, err := getCount(l.st, supplyKey)
	if err != nil {
		return err
	}
	if err := setCount(l.st, supplyKey, supply-uint64(amount)); err != nil {
		return err
	}
	return l.setBalance(from, bal-amount)
}

// -----------------------------------------------------------------------------
// External ledger journal
// -----------------------------------------------------------------------------

type moveKind uint8

const (
	moveTransfer moveKind = iota
	moveMint
	moveBurn
)

type ledgerMove struct {
	kind     moveKind
	from, to sdk.Address
	amount   sdk.Amount
}

// journalLedger wraps an external ledger and remembers every applied move, so when the
// operation fails afterwards (validation, commit conflict) we can hand the value back.
type journalLedger struct {
	inner   sdk.FundLedger
	applied []ledgerMove
}

func newJournalLedger(inner sdk.FundLedger) *journalLedger {
	return &journalLedger{inner: inner}
}

func (j *journalLedger) BalanceOf(addr sdk.Address) (sdk.Amount, error) {
	return j.inner.BalanceOf(addr)
}

func (j *journalLedger) Transfer(from, to sdk.Address, amount sdk.Amount) error {
	if err := j.inner.Transfer(from, to, amount); err != nil {
		return err
	}
	j.applied = append(j.applied, ledgerMove{kind: moveTransfer, from: from, to: to, amount: amount})
	return nil
}

func (j *journalLedger) Mint(to sdk.Address, amount sdk.Amount) error {
	if err := j.inner.Mint(to, amount); err != nil {
		return err
	}
	j.applied = append(j.applied, ledgerMove{kind: moveMint, to: to, amount: amount})
	return nil
}

func (j *journalLedger) Burn(from sdk.Address, amount sdk.Amount) error {
	if err := j.inner.Burn(from, amount); err != nil {
		return err
	}
	j.applied = append(j.applied, ledgerMove{kind: moveBurn, from: from, amount: amount})
	return nil
}

// rollback undoes applied moves newest first. A failing compensation is logged loudly, there
// is nothing else we can do about it from here.
func (j *journalLedger) rollback(log *zap.Logger) {
	for i := len(j.applied) - 1; i >= 0; i-- {
		m := j.applied[i]
		var err error
		switch m.kind {
		case moveTransfer:
			err = j.inner.Transfer(m.to, m.from, m.amount)
		case moveMint:
			err = j.inner.Burn(m.to, m.amount)
		case moveBurn:
			err = j.inner.Mint(m.from, m.amount)
		}
		if err != nil {
			log.Error("ledger compensation failed",
				zap.Uint8("kind", uint8(m.kind)),
				zap.String("from", m.from.String()),
				zap.String("to", m.to.String()),
				zap.Uint64("amount", uint64(m.amount)),
				zap.Error(err))
		}
	}
	j.applied = nil
}

// -----------------------------------------------------------------------------
// helpers used by operations
// -----------------------------------------------------------------------------

// ledgerErr maps ledger failures onto our kinds.
func ledgerErr(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	switch {
	case errors.Is(err, sdk.ErrInsufficientBalance):
		return &Error{Kind: KindInsufficientBalance, Err: err}
	case errors.Is(err, sdk.ErrInvalidAmount):
		return &Error{Kind: KindInvalidArgument, Err: err}
	case errors.As(err, &e):
		return e
	default:
		return internal("ledger", err)
	}
}

// transfer skips zero legs, ledgers reject zero moves and a zero leg is a no-op anyway.
func transfer(tx *Tx, from, to sdk.Address, amount sdk.Amount) error {
	if amount == 0 {
		return nil
	}
	return ledgerErr(tx.ledger.Transfer(from, to, amount))
}

func balanceOf(tx *Tx, addr sdk.Address) (sdk.Amount, error) {
	bal, err := tx.ledger.BalanceOf(addr)
	return bal, ledgerErr(err)
}
