package capture

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"lsinv/internal/inv"
)

// MemoryStore is an in-memory implementation of the CaptureStore
// interface, useful for tests. It is safe for concurrent use.
type MemoryStore struct {
	name     string
	captures map[string][]byte // key -> raw listing text
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory capture store with the given name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:     name,
		captures: make(map[string][]byte),
	}
}

// Put stores a capture under the given key, overwriting any previous one.
func (m *MemoryStore) Put(key string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("capture store %s: size mismatch: expected %d bytes, got %d", m.name, size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.captures[key] = data
	return nil
}

// Get retrieves a capture by key and writes it to w.
func (m *MemoryStore) Get(key string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.captures[key]
	if !ok {
		return fmt.Errorf("capture store %s: capture not found: %s", m.name, key)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write capture: %w", err)
	}

	return nil
}

// List returns the stored capture keys with the given prefix, sorted ascending.
func (m *MemoryStore) List(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.captures {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryStore implements inv.CaptureStore interface
var _ inv.CaptureStore = (*MemoryStore)(nil)
