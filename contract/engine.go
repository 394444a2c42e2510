package contract

import (
	"context"
	"errors"
	"time"

	"charcoin/sdk"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSink receives events of committed operations, in emission order.
type EventSink interface {
	Publish(ev Event)
}

// EventSinkFunc adapts a plain func.
type EventSinkFunc func(ev Event)

func (f EventSinkFunc) Publish(ev Event) { f(ev) }

// logSink is the default: every event becomes one info line.
type logSink struct {
	log *zap.Logger
}

func (s logSink) Publish(ev Event) {
	s.log.Info(ev.String(), zap.String("tx", ev.TxID), zap.Any("event", ev))
}

// Engine runs every operation as one store transaction: the op either commits all its writes
// (and ledger moves) or none of them. It holds no domain state of its own.
type Engine struct {
	backend  Backend
	ledger   sdk.FundLedger // nil = balances live in the store
	log      *zap.Logger
	metrics  *Metrics
	sink     EventSink
	cooldown uint64
}

type Option func(*Engine)

// WithLogger sets the zap logger, default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithLedger plugs an external token ledger. Moves are journaled and compensated when the
// operation fails after they were applied.
func WithLedger(l sdk.FundLedger) Option {
	return func(e *Engine) { e.ledger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithEventSink(s EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithUnstakeCooldown sets the cooldown written into the config at Initialize.
func WithUnstakeCooldown(d time.Duration) Option {
	return func(e *Engine) { e.cooldown = uint64(d / time.Second) }
}

func NewEngine(backend Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:  backend,
		log:      zap.NewNop(),
		cooldown: DefaultUnstakeCooldown,
	}
	for _, o := range opts {
		o(e)
	}
	if e.sink == nil {
		e.sink = logSink{log: e.log}
	}
	return e
}

// Close closes the backend.
func (e *Engine) Close() error { return e.backend.Close() }

// exec is the single write path. No retries here, a Conflict goes back to the caller.
func (e *Engine) exec(ctx context.Context, op string, env sdk.Env, fn func(tx *Tx) error) error {
	start := time.Now()
	if env.TxID == "" {
		env.TxID = uuid.NewString()
	}
	if err := ctx.Err(); err != nil {
		rerr := &Error{Kind: KindInternal, Op: op, Msg: "context done", Err: err}
		e.metrics.observe(op, start, rerr)
		return rerr
	}

	txn := e.backend.Begin()
	defer txn.Discard()
	var journal *journalLedger
	var ledger sdk.FundLedger
	if e.ledger == nil {
		ledger = newStateLedger(txn)
	} else {
		journal = newJournalLedger(e.ledger)
		ledger = journal
	}
	tx := newTx(ctx, env, txn, ledger)

	err := fn(tx)
	if err == nil {
		if cerr := txn.Commit(); cerr != nil {
			if errors.Is(cerr, errTxnConflict) {
				err = &Error{Kind: KindConflict, Msg: "state changed concurrently", Err: cerr}
			} else {
				err = internal("commit", cerr)
			}
		}
	}
	if err != nil {
		if journal != nil {
			journal.rollback(e.log)
		}
		rerr := withOp(err, op)
		e.metrics.observe(op, start, rerr)
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("tx", env.TxID),
			zap.String("sender", env.Sender.Address.String()),
			zap.String("kind", string(rerr.Kind)),
			zap.Error(rerr),
		}
		if rerr.Kind == KindInternal {
			e.log.Error("operation failed", fields...)
		} else {
			e.log.Info("operation rejected", fields...)
		}
		return rerr
	}

	e.metrics.observe(op, start, nil)
	e.log.Debug("operation committed",
		zap.String("op", op),
		zap.String("tx", env.TxID),
		zap.String("sender", env.Sender.Address.String()),
		zap.Int("events", len(tx.events)),
		zap.Duration("took", time.Since(start)))
	for _, ev := range tx.events {
		e.sink.Publish(ev)
	}
	return nil
}

// run is exec for operations that hand a value back.
func run[T any](ctx context.Context, e *Engine, op string, env sdk.Env, fn func(tx *Tx) (T, error)) (T, error) {
	var out T
	err := e.exec(ctx, op, env, func(tx *Tx) error {
		v, err := fn(tx)
		out = v
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// view runs fn against a throwaway txn, nothing it does is kept. Errors carry op like the
// mutating path.
func (e *Engine) view(ctx context.Context, op string, now int64, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: KindInternal, Op: op, Msg: "context done", Err: err}
	}
	txn := e.backend.Begin()
	defer txn.Discard()
	var ledger sdk.FundLedger = e.ledger
	if ledger == nil {
		ledger = newStateLedger(txn)
	}
	if err := fn(newTx(ctx, sdk.Env{Timestamp: now}, txn, ledger)); err != nil {
		return withOp(err, op)
	}
	return nil
}

func query[T any](ctx context.Context, e *Engine, op string, now int64, fn func(tx *Tx) (T, error)) (T, error) {
	var out T
	err := e.view(ctx, op, now, func(tx *Tx) error {
		v, err := fn(tx)
		out = v
		return err
	})
	return out, err
}
