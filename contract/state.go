package contract

import "errors"

// State is the narrow kv view every operation works against. A nil value means "not set".
type State interface {
	Set(key, value string) error
	Get(key string) (*string, error)
	Delete(key string) error
}

// Txn is a State that either commits as a whole or leaves no trace.
type Txn interface {
	State
	// Commit fails with errTxnConflict when something this txn read was changed meanwhile.
	Commit() error
	// Discard is safe to call after Commit.
	Discard()
}

// Backend hands out optimistic transactions. Every operation runs in exactly one.
type Backend interface {
	Begin() Txn
	Close() error
}

// errTxnConflict is what backends return when optimistic validation fails on commit.
var errTxnConflict = errors.New("transaction conflict")

// errTxnClosed guards against using a txn after commit/discard.
var errTxnClosed = errors.New("transaction closed")
