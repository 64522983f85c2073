package store

import (
	"context"
	"sync"

	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// MemoryStore is an in-memory KeyValueStore used in tests and as a
// degradation target when SQLite cannot be opened.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]map[string][]byte

	// FailPuts makes every Put return this error; used to exercise the
	// cache's quota-exhaustion path in tests.
	FailPuts error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: map[string]map[string][]byte{}}
}

func (m *MemoryStore) table(name string) map[string][]byte {
	t, ok := m.tables[name]
	if !ok {
		t = map[string][]byte{}
		m.tables[name] = t
	}
	return t
}

func (m *MemoryStore) Get(_ context.Context, table, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.table(table)[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStore) Put(_ context.Context, table, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPuts != nil {
		return m.FailPuts
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.table(table)[key] = stored
	return nil
}

func (m *MemoryStore) GetAll(_ context.Context, table string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string][]byte{}
	for k, v := range m.table(table) {
		c := make([]byte, len(v))
		copy(c, v)
		out[k] = c
	}
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, table, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.table(table), key)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = map[string][]byte{}
	return nil
}

func (m *MemoryStore) Count(_ context.Context, table string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table(table)), nil
}

var _ ports.KeyValueStore = (*MemoryStore)(nil)
