package session

import "sync"

// Storage is a small persistent key/value area shared by every view of the
// same session.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	// Put writes all values in one commit.
	Put(values map[string]string) error
	// Delete removes all keys in one commit.
	Delete(keys ...string) error
	// Version changes whenever another handle commits to the same storage.
	// Commits made through this handle leave it unchanged.
	Version() (int64, error)
	Close() error
}

// memoryData is shared between Memory handles.
type memoryData struct {
	mu      sync.Mutex
	values  map[string]string
	commits int64
}

// Memory is an in-process Storage. Handles returned by Share see the same
// data, the way two sqlite connections see the same file.
type Memory struct {
	data *memoryData
	own  int64
}

// NewMemory returns an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{data: &memoryData{values: make(map[string]string)}}
}

// Share returns a second handle onto the same data.
func (m *Memory) Share() *Memory {
	return &Memory{data: m.data}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	v, ok := m.data.values[key]
	return v, ok, nil
}

func (m *Memory) Put(values map[string]string) error {
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for k, v := range values {
		m.data.values[k] = v
	}
	m.commit()
	return nil
}

func (m *Memory) Delete(keys ...string) error {
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, k := range keys {
		delete(m.data.values, k)
	}
	m.commit()
	return nil
}

func (m *Memory) Version() (int64, error) {
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	return m.data.commits - m.own, nil
}

func (m *Memory) Close() error { return nil }

// commit must be called with data.mu held.
func (m *Memory) commit() {
	m.data.commits++
	m.own++
}
