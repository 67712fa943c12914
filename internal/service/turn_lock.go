package service

import "sync"

// turnLocks serialises turns per student. Entries are reference counted and
// dropped once no turn holds or waits for them.
type turnLocks struct {
	mu    sync.Mutex
	locks map[string]*turnLock
}

type turnLock struct {
	mu   sync.Mutex
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{locks: make(map[string]*turnLock)}
}

// Lock blocks until the key is free and returns the matching unlock func.
func (l *turnLocks) Lock(key string) func() {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &turnLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *turnLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
