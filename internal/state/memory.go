package state

import (
	"slices"
	"sync"
)

// MemoryMedium keeps payloads in memory. Its failure hooks let tests
// simulate an unavailable medium.
type MemoryMedium struct {
	mu       sync.Mutex
	payloads map[string][]byte
	puts     int
	getErr   error
	putErr   error
}

// NewMemoryMedium returns an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{payloads: make(map[string][]byte)}
}

// Get returns a copy of the payload for key.
func (m *MemoryMedium) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	payload, ok := m.payloads[key]
	return slices.Clone(payload), ok, nil
}

// Put stores a copy of payload, or returns the configured write failure.
func (m *MemoryMedium) Put(key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.payloads[key] = slices.Clone(payload)
	return nil
}

// Close is a no-op.
func (m *MemoryMedium) Close() error {
	return nil
}

// FailGets makes every Get return err until called again with nil.
func (m *MemoryMedium) FailGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// FailPuts makes every Put return err until called again with nil.
func (m *MemoryMedium) FailPuts(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
}

// Puts returns how many writes were attempted.
func (m *MemoryMedium) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
