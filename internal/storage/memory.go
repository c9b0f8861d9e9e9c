package storage

import (
	"context"
	"sync"
)

// Memory is an in-memory backend. It is the default for tests and for
// running without any persistence configured.
type Memory struct {
	mu   sync.RWMutex
	data []byte
	set  bool

	// SaveCalls counts Save invocations, for tests asserting that a
	// mutation persisted before notifying.
	SaveCalls int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.set {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *Memory) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.set = true
	m.SaveCalls++
	return nil
}

func (m *Memory) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = nil
	m.set = false
	return nil
}
