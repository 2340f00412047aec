// Package qlock implements an MCS-style queue lock: a FIFO-fair mutual
// exclusion primitive in which each waiting goroutine spins on a cache
// line it privately owns, and the holder hands the lock off explicitly
// to its successor on release.
//
// Unlike sync.Mutex, a QueueLock requires the caller to supply a QNode
// per acquire — there is no allocation on the lock's fast path. A QNode
// is exclusive to one in-flight Acquire/Release pair; reusing one while
// its Guard is still live is undefined behavior.
//
//	lock := qlock.New()
//	var node qlock.QNode
//
//	g := lock.Acquire(&node)
//	// ... critical section ...
//	g.Release()
package qlock

import (
	"sync/atomic"

	"github.com/ahrav/qlock/internal/backoff"
	"github.com/ahrav/qlock/internal/cacheline"
	"github.com/ahrav/qlock/notifier"
)

// Tuning constants from spec.md §4.1.
const (
	// maxExp bounds the short spin-to-claim loop's backoff exponent.
	maxExp = 6
	// headSpins bounds the yielding spin-to-claim loop.
	headSpins = 100
	// releasePauses bounds the short, non-yielding half of the
	// release path's wait for the successor's link write.
	releasePauses = 20
)

// QNode is a per-acquire queue record: a Notifier the node's owner
// waits on, and a successor link written by whichever goroutine enqueues
// itself behind this node. The two fields are cache-line isolated so a
// predecessor's store into next cannot invalidate the owner's spin line
// on notifier, and vice versa.
//
// A QNode may be stack-allocated by the caller (the common case) or
// drawn from a qlock/pool.Pool. It is valid from the call that installs
// it into QueueLock.Acquire until the returned Guard is released.
type QNode struct {
	_        cacheline.Pad
	notifier *notifier.Notifier
	_        cacheline.Pad
	next     atomic.Pointer[QNode]
	_        cacheline.Pad
}

// NewQNode returns a ready-to-use QNode. A zero-value QNode (for example
// one embedded in a larger struct) is equally usable: Acquire resets the
// node on every call and creates its Notifier on first use.
func NewQNode() *QNode {
	n := &QNode{notifier: notifier.New()}
	return n
}

func (n *QNode) ensureNotifier() {
	if n.notifier == nil {
		n.notifier = notifier.New()
	}
}

func (n *QNode) reset() {
	n.ensureNotifier()
	n.notifier.Reset()
	n.next.Store(nil)
}

func (n *QNode) wait()   { n.notifier.Wait() }
func (n *QNode) signal() { n.notifier.Signal() }

// QueueLock is a FIFO mutual-exclusion lock. The zero value, or the
// value returned by New, is an unheld, uncontended lock.
type QueueLock struct {
	_    cacheline.Pad
	tail atomic.Pointer[QNode]
	_    cacheline.Pad
}

// New returns a QueueLock in the unheld, uncontended state.
func New() *QueueLock { return &QueueLock{} }

// Guard is the ownership witness returned by Acquire. Calling Release
// more than once, or after the QNode backing it has been reused, is
// undefined behavior.
type Guard struct {
	lock *QueueLock
	node *QNode
}

// Acquire exclusively claims the lock, blocking as long as necessary,
// and returns a Guard whose Release call releases it. node must be
// exclusive to this call and must remain live until the Guard is
// released.
func (l *QueueLock) Acquire(node *QNode) *Guard {
	node.reset()

	// Fast path: uncontended.
	if l.tail.Load() == nil {
		if l.tail.CompareAndSwap(nil, node) {
			return newGuard(l, node)
		}
	}

	// Short spin-to-claim: bounded exponential backoff, no OS yields.
	for round := 0; round < maxExp; round++ {
		backoff.PauseN(backoff.Exp(round, maxExp))
		if l.tail.Load() == nil && l.tail.CompareAndSwap(nil, node) {
			return newGuard(l, node)
		}
	}

	// Yielding spin-to-claim: interleave pause hints with OS yields so
	// a holder sharing this goroutine's P can finish and clear tail.
	for round := 0; round < headSpins; round++ {
		backoff.Pause()
		backoff.Yield()
		if l.tail.Load() == nil && l.tail.CompareAndSwap(nil, node) {
			return newGuard(l, node)
		}
	}

	// Slow path: enqueue behind whoever currently holds (or is about
	// to claim) the tail. node was already reset above and nothing
	// has touched it since — it only becomes visible to another
	// goroutine at the Swap below.
	pred := l.tail.Swap(node)
	if pred == nil {
		return newGuard(l, node)
	}
	pred.next.Store(node)
	node.wait()
	return newGuard(l, node)
}

// newGuard marks node as acquired (a no-op outside debug builds; see
// debug_on.go/debug_off.go) and wraps it in a Guard.
func newGuard(l *QueueLock, node *QNode) *Guard {
	debugMarkAcquired(node)
	return &Guard{lock: l, node: node}
}

// Release releases the lock, waking exactly one successor if one has
// enqueued. Calling Release more than once on the same Guard is
// undefined behavior.
func (g *Guard) Release() {
	node := g.node
	l := g.lock

	debugMarkReleased(node)

	if l.tail.Load() == node {
		if l.tail.CompareAndSwap(node, nil) {
			return
		}
	}

	// A successor is in the process of linking itself behind us: the
	// swap that made it the new tail has already happened, but its
	// write of node.next may not have landed yet. Wait for it.
	next := node.next.Load()
	if next == nil {
		for round := 0; round < releasePauses; round++ {
			backoff.PauseN(backoff.Exp(round, maxExp))
			next = node.next.Load()
			if next != nil {
				break
			}
		}
		for next == nil {
			backoff.Pause()
			backoff.Yield()
			next = node.next.Load()
		}
	}

	next.signal()
}

// Close releases the lock, satisfying io.Closer so a Guard can be used
// with defer lock.Acquire(node).Close() at call sites that prefer that
// idiom over a bare Release call.
func (g *Guard) Close() error {
	g.Release()
	return nil
}
