package project

import "sync"

// Locks serializes refresh runs per project root. Two refreshes targeting
// the same stub directories would race on the reconciler's read-write-delete
// sequence, so the orchestrator acquires the project's lock for the duration
// of a run; a second run against the same root blocks until the first
// finishes. Runs against different roots proceed independently.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex // project root -> run lock
}

// NewLocks creates an empty lock registry.
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*sync.Mutex)}
}

// Acquire blocks until the lock for the given project root is available and
// returns a release function. The release function must be called exactly
// once, typically via defer.
func (l *Locks) Acquire(root string) (release func()) {
	l.mu.Lock()
	m, ok := l.locks[root]
	if !ok {
		m = &sync.Mutex{}
		l.locks[root] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
