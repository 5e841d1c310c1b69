package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Backend. It exists so the transaction engine can
// be exercised in unit tests without a database; Update stages every write
// in an overlay and applies the overlay only when the callback succeeds,
// giving it the same all-or-nothing semantics as the postgres backend.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]map[uint64][]byte
	nextID uint64
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[uint64][]byte)}
}

// Ping always succeeds; it satisfies the health-check interface.
func (m *Memory) Ping(ctx context.Context) error { return nil }

// View runs fn against a read-only snapshot.
func (m *Memory) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memTx{backend: m, readOnly: true})
}

// Update runs fn against a staged overlay and commits the overlay if fn
// returns nil. On error neither records nor the counter are retained.
func (m *Memory) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		backend: m,
		staged:  make(map[string]map[uint64][]byte),
		nextID:  m.nextID,
	}
	if err := fn(tx); err != nil {
		return err
	}

	for kind, records := range tx.staged {
		part := m.data[kind]
		if part == nil {
			part = make(map[uint64][]byte)
			m.data[kind] = part
		}
		for id, record := range records {
			part[id] = record
		}
	}
	m.nextID = tx.nextID
	return nil
}

type memTx struct {
	backend  *Memory
	staged   map[string]map[uint64][]byte
	nextID   uint64
	readOnly bool
}

func (tx *memTx) Get(kind string, id uint64) ([]byte, bool, error) {
	if part, ok := tx.staged[kind]; ok {
		if record, ok := part[id]; ok {
			return append([]byte(nil), record...), true, nil
		}
	}
	record, ok := tx.backend.data[kind][id]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), record...), true, nil
}

func (tx *memTx) Put(kind string, id uint64, record []byte) (bool, error) {
	if tx.readOnly {
		return false, ErrReadOnly
	}
	_, existed, _ := tx.Get(kind, id)
	part := tx.staged[kind]
	if part == nil {
		part = make(map[uint64][]byte)
		tx.staged[kind] = part
	}
	part[id] = append([]byte(nil), record...)
	return existed, nil
}

func (tx *memTx) Ascend(kind string, fn func(id uint64, record []byte) error) error {
	seen := make(map[uint64][]byte)
	for id, record := range tx.backend.data[kind] {
		seen[id] = record
	}
	for id, record := range tx.staged[kind] {
		seen[id] = record
	}

	ids := make([]uint64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if err := fn(id, append([]byte(nil), seen[id]...)); err != nil {
			return err
		}
	}
	return nil
}

func (tx *memTx) NextID() (uint64, error) {
	if tx.readOnly {
		return 0, ErrReadOnly
	}
	id := tx.nextID
	tx.nextID++
	return id, nil
}
