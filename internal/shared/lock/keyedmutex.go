// Package lock provides a keyed mutex used to serialize mutating operations
// scoped to a single entity id within one process instance.
package lock

import "sync"

// KeyedMutex serializes callers by key. Entries are reference counted and
// removed when the last holder releases, so the map does not grow unbounded.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates a new KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uint]*entry)}
}

// Lock acquires the mutex for the given key, blocking until available.
func (k *KeyedMutex) Lock(key uint) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for the given key.
func (k *KeyedMutex) Unlock(key uint) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if ok {
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}
