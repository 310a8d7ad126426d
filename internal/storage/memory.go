package storage

import (
	"strconv"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and ephemeral runs. WriteErr,
// when set, makes every write fail, which tests use to verify that the
// archive stays usable when durable storage is degraded.
type Memory struct {
	mu       sync.Mutex
	values   map[string]string
	WriteErr error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// GetString returns the stored string or fallback.
func (m *Memory) GetString(key, fallback string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.values[key]; ok {
		return value
	}
	return fallback
}

// GetInt returns the stored integer or fallback.
func (m *Memory) GetInt(key string, fallback int) int {
	return parseInt(m.GetString(key, ""), fallback)
}

// GetUint64 returns the stored unsigned integer or fallback.
func (m *Memory) GetUint64(key string, fallback uint64) uint64 {
	return parseUint64(m.GetString(key, ""), fallback)
}

// GetBool returns the stored boolean or fallback.
func (m *Memory) GetBool(key string, fallback bool) bool {
	return parseBool(m.GetString(key, ""), fallback)
}

func (m *Memory) put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.values[key] = value
	return nil
}

// PutString stores a string value.
func (m *Memory) PutString(key, value string) error {
	return m.put(key, value)
}

// PutInt stores an integer value.
func (m *Memory) PutInt(key string, value int) error {
	return m.put(key, strconv.Itoa(value))
}

// PutUint64 stores an unsigned integer value.
func (m *Memory) PutUint64(key string, value uint64) error {
	return m.put(key, strconv.FormatUint(value, 10))
}

// PutBool stores a boolean value.
func (m *Memory) PutBool(key string, value bool) error {
	return m.put(key, strconv.FormatBool(value))
}

// Apply commits all batched operations atomically.
func (m *Memory) Apply(batch *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	for _, o := range batch.ops {
		switch o.kind {
		case opPut:
			m.values[o.key] = o.value
		case opDeletePrefix:
			for key := range m.values {
				if strings.HasPrefix(key, o.key) {
					delete(m.values, key)
				}
			}
		}
	}
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
