// ABOUTME: In-memory BlobStore used by tests and dry runs.
// ABOUTME: Values are copied on Get and Set.
package storage

import "sync"

// MemoryBlobStore keeps values in a map.
type MemoryBlobStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ BlobStore = (*MemoryBlobStore)(nil)

// NewMemoryBlobStore creates an empty in-memory store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{data: make(map[string][]byte)}
}

func (m *MemoryBlobStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return copyBytes(v), true, nil
}

func (m *MemoryBlobStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = copyBytes(value)
	return nil
}

// Update holds the write lock for the whole of fn and applies its writes
// only when fn succeeds.
func (m *MemoryBlobStore) Update(fn func(tx BlobTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memoryTx{data: m.data, pending: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.pending {
		m.data[k] = v
	}
	return nil
}

func (m *MemoryBlobStore) Close() error { return nil }

type memoryTx struct {
	data    map[string][]byte
	pending map[string][]byte
}

func (t *memoryTx) Get(key string) ([]byte, bool, error) {
	if v, ok := t.pending[key]; ok {
		return copyBytes(v), true, nil
	}
	v, ok := t.data[key]
	if !ok {
		return nil, false, nil
	}
	return copyBytes(v), true, nil
}

func (t *memoryTx) Set(key string, value []byte) error {
	t.pending[key] = copyBytes(value)
	return nil
}

func copyBytes(v []byte) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
