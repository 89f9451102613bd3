// util/keyed_mutex.go

package util

import "sync"

// KeyedMutex serializes work per key within this process. The sync runner
// locks on integration ID so two runs of the same integration never
// interleave, while different integrations proceed in parallel.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. Entries are
// never evicted; the key space (integration IDs) is small and long-lived.
func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	lock, ok := km.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		km.locks[key] = lock
	}
	km.mu.Unlock()

	lock.Lock()
}

// TryLock acquires the mutex for key without blocking, reporting success.
func (km *KeyedMutex) TryLock(key string) bool {
	km.mu.Lock()
	lock, ok := km.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		km.locks[key] = lock
	}
	km.mu.Unlock()

	return lock.TryLock()
}

// Unlock releases the mutex for key. Panics if the key was never locked.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	lock := km.locks[key]
	km.mu.Unlock()

	lock.Unlock()
}
