package sdk

import (
	"errors"
	"time"
)

type Sender struct {
	Address Address `json:"id"`
}

// Env is the execution snapshot handed to every operation: who signed, which tx, and the
// block time all timestamp comparisons run against.
type Env struct {
	TxID      string `json:"tx.id"`
	Sender    Sender `json:"msg.sender"`
	Timestamp int64  `json:"block.timestamp"` // unix seconds
}

// NewEnv is a small constructor so callers dont have to spell the nested sender struct.
// Example payload: sdk.NewEnv("hive:alice", 1700000000)
func NewEnv(sender Address, ts int64) Env {
	return Env{Sender: Sender{Address: sender}, Timestamp: ts}
}

// Time converts the block timestamp for log output.
func (e Env) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

var (
	// ErrInsufficientBalance is returned by every ledger when the source cannot cover a move.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAmount rejects zero moves and balances that would overflow.
	ErrInvalidAmount = errors.New("invalid amount")
)

// FundLedger is the token account abstraction the core moves value through. Each call is
// atomic on its own and fails with ErrInsufficientBalance without side effects.
type FundLedger interface {
	BalanceOf(addr Address) (Amount, error)
	Transfer(from, to Address, amount Amount) error
	Mint(to Address, amount Amount) error
	Burn(from Address, amount Amount) error
}
