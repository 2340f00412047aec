package pool

import "github.com/ahrav/qlock/qlock"

// Mutex is a sync.Mutex-shaped convenience wrapper around a QueueLock
// and a Pool: callers that don't want to manage a QNode themselves get
// an ordinary Lock/Unlock pair, at the cost of a pool round trip per
// critical section instead of a caller-supplied, call-site-local node.
//
// This has no direct counterpart in spec.md's QueueLock/Notifier/Pool
// trio, but mirrors the convenience type the original implementation
// built on top of its own queue lock and free-list for callers that
// didn't need per-call-site node control. The zero value is ready to
// use.
type Mutex struct {
	lock qlock.QueueLock
	pool Pool

	// current is the pool node and guard backing the holder's critical
	// section, set by Lock before it returns and consumed by Unlock.
	// Only the current holder ever touches it: the queue lock's own
	// handoff establishes happens-before between a release and the
	// next acquire, so no extra synchronization is needed here.
	current *PoolNode
	guard   *qlock.Guard
}

// Lock blocks until the mutex is held by no other goroutine.
func (m *Mutex) Lock() {
	n := m.pool.Pop()
	if n == nil {
		n = &PoolNode{}
	}
	m.guard = m.lock.Acquire(&n.QNode)
	m.current = n
}

// Unlock releases the mutex. Calling Unlock when not held is undefined
// behavior, matching sync.Mutex.
func (m *Mutex) Unlock() {
	n := m.current
	g := m.guard
	m.current = nil
	m.guard = nil

	g.Release()
	m.pool.Push(n)
}
