// Package ticket implements a ticket lock: a FIFO mutual-exclusion
// primitive built from two monotonically increasing counters instead
// of qlock's linked queue. Acquiring is "take a ticket, wait for your
// number"; releasing is "serve the next number". Every waiter spins on
// the same shared head counter rather than a private successor link,
// which is exactly the dimension cmd/qlockbench uses it to isolate: how
// much does qlock.QueueLock's one-to-one handoff actually save over a
// shared-counter design once more than a couple of goroutines contend?
package ticket

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ahrav/qlock/internal/backoff"
)

// Lock is a ticket-based FIFO mutex. head is the ticket currently being
// served; tail is the next ticket to hand out. The lock is free exactly
// when head == tail+1.
//
// head and tail must stay adjacent 32-bit words forming one 64-bit
// value: TryLock reads and writes both atomically in a single CAS by
// reinterpreting the struct as a *uint64, so nothing may be inserted
// between them (no cache-line padding here, unlike every other lock in
// this module — the packed-CAS trick depends on exactly 8 contiguous
// bytes).
type Lock struct {
	tail uint32
	head uint32
}

// NewLock returns an unheld Lock (ticket 0 already "served").
func NewLock() *Lock { return &Lock{head: 1, tail: 0} }

// TryLock claims the lock only if it is currently free, without
// waiting for any ticket to be served.
func (t *Lock) TryLock() bool {
	next := t.tail + 1
	return atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(t)),
		uint64(t.tail+1)<<32|uint64(t.tail), // free: head == tail+1
		uint64(t.tail+1)<<32|uint64(next),   // claim: bump tail, head unchanged
	)
}

// Spin-budget tuning: a waiter's per-round pause count scales with its
// distance from the head, and a waiter more than farBackThreshold
// tickets back also sleeps briefly after each round of pausing.
const (
	baseSpinBudget      uint32 = 10
	nearHeadSpinBudget  uint32 = 5
	farBackThreshold    uint32 = 20
	farBackSleep               = time.Millisecond
)

// Lock blocks until this goroutine holds the ticket it draws. Distance
// from the head determines how this goroutine waits: close to the
// front, it pauses briefly; further back, it scales the pause count
// with distance so early waiters don't all hammer the same cache line
// in lockstep; past farBackThreshold it follows each round of pausing
// with a short sleep, since there's no prospect of being served soon.
func (t *Lock) Lock() {
	myTicket := atomic.AddUint32(&t.tail, 1)

	if atomic.LoadUint32(&t.head) == myTicket {
		return
	}

	budget := baseSpinBudget
	prevDistance := uint32(1)

	for {
		cur := atomic.LoadUint32(&t.head)
		if cur == myTicket {
			return
		}

		distance := ticketDistance(cur, myTicket)
		switch {
		case distance > 1:
			if distance != prevDistance {
				prevDistance = distance
				budget = baseSpinBudget
			}
			backoff.PauseN(int(distance * budget))
		default:
			backoff.PauseN(int(nearHeadSpinBudget))
		}

		if distance > farBackThreshold {
			time.Sleep(farBackSleep)
		}
	}
}

// Unlock serves the next ticket.
func (t *Lock) Unlock() { atomic.AddUint32(&t.head, 1) }

// IsFree reports whether the next Lock call would succeed immediately.
func (t *Lock) IsFree() bool { return t.head-t.tail == 1 }

// ticketDistance returns how many tickets separate cur from target,
// independent of which one is ahead (head and tail both wrap on
// uint32 overflow, so a plain subtraction can't be trusted to stay
// positive).
func ticketDistance(cur, target uint32) uint32 {
	if cur > target {
		return cur - target
	}
	return target - cur
}
