package contract

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected. Callers switch on it, never on messages.
type Kind string

const (
	KindAuthorization       Kind = "authorization"
	KindNotInitialized      Kind = "not_initialized"
	KindAlreadyInitialized  Kind = "already_initialized"
	KindHalted              Kind = "halted"
	KindEligibility         Kind = "eligibility"
	KindDuplicateVote       Kind = "duplicate_vote"
	KindWindowNotOpen       Kind = "window_not_open"
	KindWindowNotClosed     Kind = "window_not_closed"
	KindCooldownNotElapsed  Kind = "cooldown_not_elapsed"
	KindRewardPeriodNotMet  Kind = "reward_period_not_met"
	KindAlreadyClaimed      Kind = "already_claimed"
	KindThresholdNotMet     Kind = "threshold_not_met"
	KindAlreadyExecuted     Kind = "already_executed"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindInvalidArgument     Kind = "invalid_argument"
	KindInvalidLockup       Kind = "invalid_lockup"
	KindNotFound            Kind = "not_found"
	KindAlreadyFinalized    Kind = "already_finalized"
	KindConflict            Kind = "conflict"
	KindInternal            Kind = "internal"
)

// Error is what every operation returns on rejection. Op is stamped by the engine.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind only, so errors.Is(err, ErrHalted) works for any halted rejection.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// sentinels for errors.Is
var (
	ErrAuthorization       = &Error{Kind: KindAuthorization}
	ErrNotInitialized      = &Error{Kind: KindNotInitialized}
	ErrAlreadyInitialized  = &Error{Kind: KindAlreadyInitialized}
	ErrHalted              = &Error{Kind: KindHalted}
	ErrEligibility         = &Error{Kind: KindEligibility}
	ErrDuplicateVote       = &Error{Kind: KindDuplicateVote}
	ErrWindowNotOpen       = &Error{Kind: KindWindowNotOpen}
	ErrWindowNotClosed     = &Error{Kind: KindWindowNotClosed}
	ErrCooldownNotElapsed  = &Error{Kind: KindCooldownNotElapsed}
	ErrRewardPeriodNotMet  = &Error{Kind: KindRewardPeriodNotMet}
	ErrAlreadyClaimed      = &Error{Kind: KindAlreadyClaimed}
	ErrThresholdNotMet     = &Error{Kind: KindThresholdNotMet}
	ErrAlreadyExecuted     = &Error{Kind: KindAlreadyExecuted}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrInvalidLockup       = &Error{Kind: KindInvalidLockup}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrAlreadyFinalized    = &Error{Kind: KindAlreadyFinalized}
	ErrConflict            = &Error{Kind: KindConflict}
)

// fail builds a rejection with a formatted message.
func fail(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// internal wraps storage/codec failures that are not the caller's fault.
func internal(what string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: what, Err: err}
}

// KindOf digs the kind out of any error chain. Plain errors count as internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// withOp stamps the operation name without losing the kind. Foreign errors become internal.
func withOp(err error, op string) *Error {
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		cp.Op = op
		return &cp
	}
	return &Error{Kind: KindInternal, Op: op, Err: err}
}
