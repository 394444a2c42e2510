package contract

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// MemoryBackend keeps everything in a map. Each key carries a version so transactions can
// validate their reads on commit, same contract as the badger backend.
type MemoryBackend struct {
	mu       sync.Mutex
	db       map[string]string
	versions map[string]uint64
	clock    uint64
	filename string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		db:       make(map[string]string),
		versions: make(map[string]uint64),
	}
}

// OpenMemoryBackend loads a snapshot file if there is one and rewrites it after every commit.
func OpenMemoryBackend(filename string) (*MemoryBackend, error) {
	m := NewMemoryBackend()
	m.filename = filename
	if err := m.loadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MemoryBackend) Begin() Txn {
	return &memTxn{
		b:      m,
		reads:  make(map[string]uint64),
		writes: make(map[string]*string),
	}
}

func (m *MemoryBackend) Close() error { return nil }

// saveToFile writes the full map in the binary codec, sorted so snapshots diff nicely.
// Caller holds mu.
func (m *MemoryBackend) saveToFile() error {
	if m.filename == "" {
		return nil
	}
	keys := make([]string, 0, len(m.db))
	for k := range m.db {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w := newWriter()
	w.writeVarUint(uint64(len(keys)))
	for _, k := range keys {
		w.writeString(k)
		w.writeString(m.db[k])
	}
	return os.WriteFile(m.filename, w.bytes(), 0o644)
}

// loadFromFile loads the map from the snapshot, a missing file just means fresh state.
func (m *MemoryBackend) loadFromFile() error {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot %s: %w", m.filename, err)
	}
	r := newReader(data)
	n, err := r.readVarUint()
	if err != nil {
		return fmt.Errorf("decode snapshot %s: %w", m.filename, err)
	}
	for i := uint64(0); i < n; i++ {
		k, err := r.readString()
		if err != nil {
			return fmt.Errorf("decode snapshot %s: %w", m.filename, err)
		}
		v, err := r.readString()
		if err != nil {
			return fmt.Errorf("decode snapshot %s: %w", m.filename, err)
		}
		m.db[k] = v
	}
	return nil
}

type memTxn struct {
	b      *MemoryBackend
	reads  map[string]uint64
	writes map[string]*string // nil value = delete
	closed bool
}

func (t *memTxn) Get(key string) (*string, error) {
	if t.closed {
		return nil, errTxnClosed
	}
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil, nil
		}
		cp := *v
		return &cp, nil
	}
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if _, seen := t.reads[key]; !seen {
		t.reads[key] = t.b.versions[key]
	}
	val, ok := t.b.db[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (t *memTxn) Set(key, value string) error {
	if t.closed {
		return errTxnClosed
	}
	t.writes[key] = &value
	return nil
}

func (t *memTxn) Delete(key string) error {
	if t.closed {
		return errTxnClosed
	}
	t.writes[key] = nil
	return nil
}

func (t *memTxn) Commit() error {
	if t.closed {
		return errTxnClosed
	}
	t.closed = true
	if len(t.writes) == 0 {
		return nil
	}
	m := t.b
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range t.reads {
		if m.versions[k] != v {
			return fmt.Errorf("key %x changed since read: %w", k, errTxnConflict)
		}
	}

	type undo struct {
		val     string
		existed bool
		version uint64
	}
	prev := make(map[string]undo, len(t.writes))
	m.clock++
	for k, v := range t.writes {
		old, existed := m.db[k]
		prev[k] = undo{val: old, existed: existed, version: m.versions[k]}
		if v == nil {
			delete(m.db, k)
		} else {
			m.db[k] = *v
		}
		m.versions[k] = m.clock
	}
	if err := m.saveToFile(); err != nil {
		// roll the map back so memory and snapshot agree
		for k, u := range prev {
			if u.existed {
				m.db[k] = u.val
			} else {
				delete(m.db, k)
			}
			m.versions[k] = u.version
		}
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (t *memTxn) Discard() { t.closed = true }
