package contract

import (
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// BadgerBackend persists state in badger. Its transactions are optimistic already, so a
// commit that raced another writer on something it read fails with a conflict.
type BadgerBackend struct {
	db *badgerdb.DB
}

// OpenBadger opens (or creates) the database at path. An empty path runs badger in memory.
func OpenBadger(path string, logger *zap.Logger) (*BadgerBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := badgerdb.DefaultOptions(path).WithLogger(&badgerLogger{log: logger.Sugar()})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) Begin() Txn {
	return &badgerTxn{txn: b.db.NewTransaction(true)}
}

func (b *BadgerBackend) Close() error { return b.db.Close() }

type badgerTxn struct {
	txn    *badgerdb.Txn
	closed bool
}

func (t *badgerTxn) Get(key string) (*string, error) {
	if t.closed {
		return nil, errTxnClosed
	}
	item, err := t.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("copy value: %w", err)
	}
	s := string(val)
	return &s, nil
}

func (t *badgerTxn) Set(key, value string) error {
	if t.closed {
		return errTxnClosed
	}
	return t.txn.Set([]byte(key), []byte(value))
}

func (t *badgerTxn) Delete(key string) error {
	if t.closed {
		return errTxnClosed
	}
	return t.txn.Delete([]byte(key))
}

func (t *badgerTxn) Commit() error {
	if t.closed {
		return errTxnClosed
	}
	t.closed = true
	if err := t.txn.Commit(); err != nil {
		if errors.Is(err, badgerdb.ErrConflict) {
			return fmt.Errorf("%v: %w", err, errTxnConflict)
		}
		return err
	}
	return nil
}

func (t *badgerTxn) Discard() {
	t.closed = true
	t.txn.Discard()
}

// badgerLogger routes badger's own chatter into zap.
type badgerLogger struct {
	log *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf("[badger] "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warnf("[badger] "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debugf("[badger] "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debugf("[badger] "+format, args...)
}
