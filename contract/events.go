package contract

import (
	"fmt"
	"strings"

	"charcoin/sdk"
	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jwriter"
)

type Field struct {
	Key   string
	Value string
}

// Event is a compact log line ("st|o:hive:alice|id:0|a:100") published after commit.
type Event struct {
	Type      string
	Fields    []Field
	TxID      string
	Timestamp int64
}

// event builds an Event from key/value pairs, values go through fmt so callers can pass ids
// and amounts as they are.
func event(typ string, kv ...any) Event {
	ev := Event{Type: typ, Fields: make([]Field, 0, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		ev.Fields = append(ev.Fields, Field{Key: fmt.Sprint(kv[i]), Value: fmt.Sprint(kv[i+1])})
	}
	return ev
}

// Get returns the value of a field or "" when missing.
func (e Event) Get(key string) string {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// String renders the pipe-delimited form watchers parse.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Type)
	for _, f := range e.Fields {
		b.WriteByte('|')
		b.WriteString(f.Key)
		b.WriteByte(':')
		b.WriteString(f.Value)
	}
	return b.String()
}

// MarshalTinyJSON writes {"type":..,"tx":..,"ts":..,"fields":{..}} keeping field order.
func (e Event) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"type":`)
	w.String(e.Type)
	w.RawString(`,"tx":`)
	w.String(e.TxID)
	w.RawString(`,"ts":`)
	w.Int64(e.Timestamp)
	w.RawString(`,"fields":{`)
	for i, f := range e.Fields {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(f.Key)
		w.RawByte(':')
		w.String(f.Value)
	}
	w.RawString(`}}`)
}

func (e Event) MarshalJSON() ([]byte, error) {
	return tinyjson.Marshal(e)
}

// -----------------------------------------------------------------------------
// emitters, one per state change
// -----------------------------------------------------------------------------

func emitInitializedEvent(tx *Tx, cfg *Config) {
	tx.emit(event("in", "by", cfg.Operator, "mint", cfg.TokenMint))
}

func emitHaltEvent(tx *Tx, halted bool) {
	tx.emit(event("hs", "by", tx.Sender(), "s", halted))
}

func emitSettingsEvent(tx *Tx, minStake sdk.Amount, minDuration uint64) {
	tx.emit(event("ss", "ms", minStake, "md", minDuration))
}

func emitUnstakePolicyEvent(tx *Tx, penalty uint64, forfeit bool) {
	tx.emit(event("up", "p", penalty, "f", forfeit))
}

func emitSplitsEvent(tx *Tx, kind SplitKind, n int) {
	tx.emit(event("sp", "k", kind, "n", n))
}

func emitTiersEvent(tx *Tx, n int) {
	tx.emit(event("rt", "n", n))
}

func emitPoolEvent(tx *Tx, pool *StakingPool) {
	tx.emit(event("pi", "mint", pool.TokenMint, "v", pool.Vault))
}

func emitStakeEvent(tx *Tx, e *StakeEntry, votePower sdk.Amount) {
	tx.emit(event("st", "o", e.Owner, "id", e.ID, "a", e.Amount, "l", e.Lockup, "vp", votePower))
}

func emitUnstakeRequestEvent(tx *Tx, e *StakeEntry) {
	tx.emit(event("ur", "o", e.Owner, "id", e.ID))
}

func emitUnstakeEvent(tx *Tx, e *StakeEntry, returned sdk.Amount) {
	tx.emit(event("us", "o", e.Owner, "id", e.ID, "a", returned, "p", e.Penalty))
}

func emitClaimEvent(tx *Tx, e *StakeEntry) {
	tx.emit(event("rc", "o", e.Owner, "id", e.ID, "a", e.RewardPaid))
}

func emitBallotCreatedEvent(tx *Tx, kind BallotKind, id uint64) {
	tx.emit(event(kind.String()[:1]+"c", "id", id, "by", tx.Sender()))
}

func emitVoteEvent(tx *Tx, v *VoteRecord) {
	tx.emit(event(v.Kind.String()[:1]+"v", "id", v.BallotID, "by", v.Voter, "y", v.Approve, "w", v.Weight))
}

func emitBallotFinalizedEvent(tx *Tx, kind BallotKind, id uint64, outcome string) {
	tx.emit(event(kind.String()[:1]+"f", "id", id, "r", outcome))
}

func emitTreasuryEvent(tx *Tx, t *Treasury) {
	tx.emit(event("ti", "n", len(t.Owners), "th", t.Threshold, "v", t.Vault))
}

func emitWithdrawalEvent(tx *Tx, code string, wr *WithdrawalRequest) {
	tx.emit(event(code, "id", wr.ID, "by", tx.Sender(), "a", wr.Amount, "to", wr.Recipient, "ap", len(wr.Approvals)))
}

func emitDistributionEvent(tx *Tx, code string, total sdk.Amount, payouts []Payout) {
	tx.emit(event(code, "by", tx.Sender(), "a", total, "n", len(payouts)))
}

func emitBurnEvent(tx *Tx, amount, total sdk.Amount) {
	tx.emit(event("bb", "a", amount, "t", total))
}

func emitMintEvent(tx *Tx, to sdk.Address, amount sdk.Amount) {
	tx.emit(event("mt", "to", to, "a", amount))
}
