// Package locker provides a keyed mutual exclusion primitive. The engine uses
// it to serialize all state transitions for a single order while letting
// transitions on different orders proceed in parallel.
package locker

import "sync"

// KeyedLocker hands out one mutex per key. Locks are created lazily and kept
// for the process lifetime; the key space (active order ids) is small enough
// that eviction is not needed.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLocker creates an empty keyed locker.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given key, blocking until it is available.
func (l *KeyedLocker) Lock(key string) {
	l.mutexFor(key).Lock()
}

// Unlock releases the mutex for the given key.
// Unlocking a key that was never locked panics, same as sync.Mutex.
func (l *KeyedLocker) Unlock(key string) {
	l.mutexFor(key).Unlock()
}

func (l *KeyedLocker) mutexFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
