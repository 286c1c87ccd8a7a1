package store

import (
	"context"
	"sync"
)

// Memory is a map-backed Backend for tests and throwaway sessions.
type Memory struct {
	mu    sync.Mutex
	slots map[string]string
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[name]
	return v, ok, nil
}

// Put implements Backend.
func (m *Memory) Put(_ context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = value
	return nil
}

// Delete implements Backend.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, name)
	return nil
}
