// Package handles maps integers stored in libspotify userdata fields back to
// Go values.
//
// Go pointers must not be kept in C memory, so the session config carries a
// small integer instead. Callback trampolines look the integer up here to find
// the Go Session the callback belongs to.
package handles

import (
	"sync"
)

// Table is a concurrent id -> value map. Ids start at 1; 0 is never issued
// so it can mean "no userdata".
type Table[T any] struct {
	mu     sync.RWMutex
	values map[uintptr]T
	nextID uintptr
}

// Register stores v and returns its id.
func (t *Table[T]) Register(v T) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.values == nil {
		t.values = make(map[uintptr]T)
	}
	t.nextID++
	id := t.nextID
	t.values[id] = v
	return id
}

// Lookup returns the value stored under id.
func (t *Table[T]) Lookup(id uintptr) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[id]
	return v, ok
}

// Unregister forgets id. Unknown ids are ignored.
func (t *Table[T]) Unregister(id uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, id)
}

// Count returns the number of registered values.
// Useful for finding leaked sessions in tests.
func (t *Table[T]) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}
