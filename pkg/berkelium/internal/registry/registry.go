// Package registry maps engine handles to the single Go wrapper that
// represents them.
package registry

import "sync"

// Registry holds at most one value per key. Values are not owned: removing
// an entry does not release anything.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: make(map[K]V)}
}

// GetOrCreate returns the value recorded for key, or records and returns the
// result of create. The boolean reports whether create ran.
func (r *Registry[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok = r.entries[key]; ok {
		return v, false
	}
	v = create()
	r.entries[key] = v
	return v, true
}

// Put records v for key, replacing any previous entry.
func (r *Registry[K, V]) Put(key K, v V) {
	r.mu.Lock()
	r.entries[key] = v
	r.mu.Unlock()
}

// Lookup returns the value recorded for key.
func (r *Registry[K, V]) Lookup(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// NotifyDestroyed forgets key and reports whether it was present.
func (r *Registry[K, V]) NotifyDestroyed(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return false
	}
	delete(r.entries, key)
	return true
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range calls fn for a snapshot of the entries until fn returns false.
// fn may modify the registry.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	keys := make([]K, 0, len(r.entries))
	values := make([]V, 0, len(r.entries))
	for k, v := range r.entries {
		keys = append(keys, k)
		values = append(values, v)
	}
	r.mu.RUnlock()

	for i := range keys {
		if !fn(keys[i], values[i]) {
			return
		}
	}
}

// Clear forgets every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	clear(r.entries)
	r.mu.Unlock()
}
