package cache

import (
	"strings"
	"sync"
)

// Memo is a process-lifetime memoization table keyed by a normalized string.
// Values are never evicted; Reset exists for tests. Concurrent callers that
// miss on the same key may both compute, and the last Put wins, which is fine
// as long as the computation is deterministic.
type Memo[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{items: make(map[string]V)}
}

// Key normalizes a raw identifier into a cache key.
func Key(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (m *Memo[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[Key(key)]
	return v, ok
}

func (m *Memo[V]) Put(key string, value V) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[Key(key)] = value
}

// GetOrCompute returns the cached value for key or stores the result of fn.
// Errors are not cached.
func (m *Memo[V]) GetOrCompute(key string, fn func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	m.Put(key, v)
	return v, nil
}

func (m *Memo[V]) Reset() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]V)
}
