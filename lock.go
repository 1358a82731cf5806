package factory

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// RecursiveMutex is a mutual exclusion lock that the owning goroutine may
// acquire again without blocking. Every Lock must be paired with an Unlock.
//
// Resolution is recursive: a factory running under the lock may resolve its
// own dependencies on the same goroutine.
type RecursiveMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock acquires the mutex, or increments the hold count when the calling
// goroutine already owns it.
func (m *RecursiveMutex) Lock() {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return
	}

	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// Unlock releases one hold. The mutex becomes available to other goroutines
// once every hold has been released. Unlocking from a goroutine that does
// not own the mutex panics.
func (m *RecursiveMutex) Unlock() {
	if m.owner.Load() != goid.Get() {
		panic("factory: unlock of recursive mutex not held by this goroutine")
	}

	m.depth--
	if m.depth > 0 {
		return
	}

	m.owner.Store(0)
	m.mu.Unlock()
}

// held reports whether the calling goroutine owns the mutex.
func (m *RecursiveMutex) held() bool {
	return m.owner.Load() == goid.Get()
}
