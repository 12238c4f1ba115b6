package moneymanager

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore is a Store kept in memory. Its zero value is not usable, use NewMemoryStore.
type MemoryStore struct {
	mu         sync.RWMutex
	summary    *Summary
	logs       map[Kind][]Record
	statements []Record
	closed     bool
}

// NewMemoryStore returns an empty, uninitialized store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[Kind][]Record)}
}

var (
	_ Store     = (*MemoryStore)(nil)
	_ Committer = (*MemoryStore)(nil)
)

func (m *MemoryStore) open() error {
	if m.closed {
		return fmt.Errorf("%w: store is closed", ErrStorageUnavailable)
	}
	return nil
}

func (m *MemoryStore) check(k Kind) error {
	if err := m.open(); err != nil {
		return err
	}
	if !k.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return nil
}

func (m *MemoryStore) Summary(ctx context.Context) (Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.open(); err != nil {
		return Summary{}, err
	}
	if m.summary == nil {
		return Summary{}, ErrNotInitialized
	}
	return *m.summary, nil
}

func (m *MemoryStore) PutSummary(ctx context.Context, s Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.open(); err != nil {
		return err
	}
	m.summary = &s
	return nil
}

func (m *MemoryStore) Append(ctx context.Context, k Kind, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(k); err != nil {
		return err
	}
	r.Kind = k
	m.logs[k] = append(m.logs[k], r)
	return nil
}

func (m *MemoryStore) AppendStatement(ctx context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(r.Kind); err != nil {
		return err
	}
	m.statements = append(m.statements, r)
	return nil
}

// Commit applies the entry as a whole.
func (m *MemoryStore) Commit(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(e.Record.Kind); err != nil {
		return err
	}
	m.logs[e.Record.Kind] = append(m.logs[e.Record.Kind], e.Record)
	m.statements = append(m.statements, e.Record)
	if e.Summary != nil {
		s := *e.Summary
		m.summary = &s
	}
	return nil
}

func (m *MemoryStore) Reset(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.open(); err != nil {
		return err
	}
	s := NewSummary(name)
	m.summary = &s
	m.logs = make(map[Kind][]Record)
	m.statements = nil
	return nil
}

func (m *MemoryStore) Records(ctx context.Context, k Kind) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(k); err != nil {
		return nil, err
	}
	return slices.Clone(m.logs[k]), nil
}

func (m *MemoryStore) Statements(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.open(); err != nil {
		return nil, err
	}
	return slices.Clone(m.statements), nil
}

// Close marks the store as closed, any further call fails with ErrStorageUnavailable.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
