package session

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store and TokenStore. Nothing survives a
// restart; it is used when no database path is configured and in tests.
// Setting FailWith makes every call return that error wrapped in
// ErrPersistence.
type MemoryStore struct {
	mu       sync.Mutex
	raw      []byte
	saved    bool
	token    string
	FailWith error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return wrap(m.FailWith)
	}
	m.raw = append([]byte(nil), raw...)
	m.saved = true
	return nil
}

func (m *MemoryStore) Load(_ context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, false, wrap(m.FailWith)
	}
	if !m.saved {
		return nil, false, nil
	}
	return append([]byte(nil), m.raw...), true, nil
}

func (m *MemoryStore) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return wrap(m.FailWith)
	}
	m.raw = nil
	m.saved = false
	return nil
}

func (m *MemoryStore) Token(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", wrap(m.FailWith)
	}
	return m.token, nil
}

func (m *MemoryStore) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return wrap(m.FailWith)
	}
	m.token = token
	return nil
}

func (m *MemoryStore) ClearToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return wrap(m.FailWith)
	}
	m.token = ""
	return nil
}

// Fail sets FailWith under the store's lock.
func (m *MemoryStore) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWith = err
}
