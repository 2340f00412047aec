// Package mcs implements a pure-spin MCS queue lock: the same FIFO
// queue discipline as qlock.QueueLock, but without qlock's
// spin-then-park Notifier — a waiter here never parks in the kernel; it
// spins on pause hints and falls back to a scheduler yield
// (runtime.Gosched) when the runtime reports spinning unproductive. It
// exists as a baseline for cmd/qlockbench: "what does the park/unpark
// machinery in qlock actually buy you, compared to spinning on the
// successor link forever?"
package mcs

import (
	"sync/atomic"

	"github.com/ahrav/qlock/internal/backoff"
	"github.com/ahrav/qlock/internal/cacheline"
)

// QNode is a per-acquire queue record. waiting is the spin flag a
// predecessor clears to hand off the lock; it is cache-line isolated
// from next so a predecessor's link write can't invalidate the spin
// line, and vice versa.
type QNode struct {
	_       cacheline.Pad
	next    atomic.Pointer[QNode]
	_       cacheline.Pad
	waiting uint32
	_       cacheline.Pad
}

// Lock is a FIFO spinlock. The zero value is unheld.
type Lock struct {
	_    cacheline.Pad
	tail atomic.Pointer[QNode]
	_    cacheline.Pad
}

// NewLock returns an unheld Lock.
func NewLock() *Lock { return new(Lock) }

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock(node *QNode) bool {
	node.next.Store(nil)
	return l.tail.CompareAndSwap(nil, node)
}

// Lock acquires the lock, spinning until it is free. node must be
// exclusive to this call until the matching Unlock.
func (l *Lock) Lock(node *QNode) {
	node.next.Store(nil)
	pred := l.tail.Swap(node)
	if pred == nil {
		return
	}

	atomic.StoreUint32(&node.waiting, 1)
	pred.next.Store(node)

	counter := 0
	for atomic.LoadUint32(&node.waiting) != 0 {
		if backoff.CanSpin(counter) {
			backoff.Pause()
		} else {
			backoff.Yield()
		}
		counter++
	}
}

// Unlock releases the lock, waking a waiting successor if one has
// enqueued.
func (l *Lock) Unlock(node *QNode) {
	if node.next.Load() == nil {
		if l.tail.CompareAndSwap(node, nil) {
			return
		}

		counter := 0
		for {
			succ := node.next.Load()
			if succ != nil {
				atomic.StoreUint32(&succ.waiting, 0)
				return
			}
			backoff.PauseN(backoff.Exp(counter, 6))
			counter++
		}
	}

	succ := node.next.Load()
	atomic.StoreUint32(&succ.waiting, 0)
}

// IsFree reports whether the lock is currently unheld.
func (l *Lock) IsFree() bool { return l.tail.Load() == nil }
