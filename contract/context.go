package contract

import (
	"context"

	"charcoin/sdk"
)

// Tx is everything one operation may touch: the env snapshot, its own store transaction, the
// ledger view for this tx and the events it wants published once the commit went through.
type Tx struct {
	ctx    context.Context
	env    sdk.Env
	state  State
	ledger sdk.FundLedger
	events []Event

	// cfg is loaded lazily and cached for the rest of the tx so every helper sees the same
	// snapshot (and our own writes).
	cfg *Config
}

func newTx(ctx context.Context, env sdk.Env, st State, ledger sdk.FundLedger) *Tx {
	return &Tx{ctx: ctx, env: env, state: st, ledger: ledger}
}

// Now is the block time every window/cooldown check compares against.
func (tx *Tx) Now() int64 { return tx.env.Timestamp }

func (tx *Tx) Sender() sdk.Address { return tx.env.Sender.Address }

func (tx *Tx) Env() sdk.Env { return tx.env }

// Events returns what the op emitted so far, in order.
func (tx *Tx) Events() []Event { return tx.events }

func (tx *Tx) emit(ev Event) {
	ev.TxID = tx.env.TxID
	ev.Timestamp = tx.env.Timestamp
	tx.events = append(tx.events, ev)
}
