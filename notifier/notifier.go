// Package notifier implements a single-shot, single-waiter,
// single-signaller event: one goroutine waits until one other goroutine
// signals it, with an adaptive spin-then-yield-then-park wait discipline
// so that the common case (the signal arrives while the waiter is still
// spinning) never touches the kernel.
package notifier

import (
	"sync/atomic"

	"github.com/ahrav/qlock/internal/backoff"
	"github.com/ahrav/qlock/internal/cacheline"
	"github.com/ahrav/qlock/internal/park"
)

// Tuning constants for the spin phase of Wait. NumLoops rounds of
// spin-pausing are attempted before the waiter commits to a kernel
// park; the per-round pause count is randomized in [1, 2^exp) with exp
// growing from 1 up to MaxLogNumPauses across rounds, and every
// YieldInterval rounds an OS yield is interposed so a waiter stuck
// behind another goroutine on the same P doesn't monopolize it.
const (
	NumLoops        = 20
	MaxLogNumPauses = 5
	YieldInterval   = 8
)

// Spin states. triggered uses 0 for "triggered" and ^uint32(0) for
// "untriggered" so the kernel wait primitive always compares against a
// recognizable sentinel rather than an arbitrary protocol value.
const (
	spinning    uint32 = 0
	notSpinning uint32 = 1

	triggeredValue   uint32 = 0
	untriggeredValue uint32 = ^uint32(0)
)

// Notifier is a single-shot event. Create one with New, Wait on it from
// exactly one goroutine, Signal it from exactly one (possibly
// different) goroutine exactly once, then Reset it before reuse.
//
// triggered and spinState are plain uint32 words manipulated through
// sync/atomic rather than atomic.Uint32, because the kernel park
// primitive needs the raw address of triggered to wait on; this is
// also the notifier.md Open Question's "spin_state as a 32-bit word"
// variant rather than a bool, chosen so both fields share a
// representation and both fit the width the futex family expects.
//
// Go's sync/atomic operations are sequentially consistent (see the Go
// memory model), so — unlike the Rust original this design is drawn
// from — no separate acquire/release fence calls are needed here: each
// atomic load/store below already carries the ordering the comment
// next to it describes.
type Notifier struct {
	_         cacheline.Pad
	triggered uint32
	_         cacheline.Pad
	spinState uint32
	_         cacheline.Pad

	rng *backoff.LCG
}

// New returns a Notifier in the reset state.
func New() *Notifier {
	n := &Notifier{rng: backoff.NewLCG()}
	atomic.StoreUint32(&n.triggered, untriggeredValue)
	atomic.StoreUint32(&n.spinState, spinning)
	return n
}

// Reset returns the notifier to {untriggered, spinning}, ready for
// another Wait/Signal pair. The caller must ensure Reset happens-before
// the notifier is published to any other goroutine that might call
// Wait or Signal on it.
func (n *Notifier) Reset() {
	atomic.StoreUint32(&n.spinState, spinning)
	atomic.StoreUint32(&n.triggered, untriggeredValue)
}

// Wait blocks the calling goroutine until a Signal call targeting this
// notifier happens after the most recent Reset. It returns exactly once
// per reset.
func (n *Notifier) Wait() {
	for {
		if n.spinPhase() {
			return
		}

		// Publish that we're leaving the spin phase. A Signal that
		// reads spinState after this store knows it must wake us via
		// the kernel; one that reads it before still relies on us
		// re-checking triggered below.
		atomic.StoreUint32(&n.spinState, notSpinning)

		if atomic.LoadUint32(&n.triggered) == triggeredValue {
			// Signal raced us between the spin phase and here; no
			// park required.
			return
		}

		park.Wait(&n.triggered, untriggeredValue)

		if atomic.LoadUint32(&n.triggered) == triggeredValue {
			return
		}

		// Spurious wake (or a non-EAGAIN/non-wake futex error):
		// rejoin the spin phase rather than treat it as a failure.
		atomic.StoreUint32(&n.spinState, spinning)
	}
}

// spinPhase runs up to NumLoops rounds of pause-hint spinning with
// randomized, exponentially growing pause counts, yielding to the OS
// scheduler every YieldInterval rounds. It returns true if triggered
// was observed set during the spin.
func (n *Notifier) spinPhase() bool {
	for round := 0; round < NumLoops; round++ {
		if atomic.LoadUint32(&n.triggered) == triggeredValue {
			return true
		}

		exp := round + 1
		if exp > MaxLogNumPauses {
			exp = MaxLogNumPauses
		}
		spins := int(n.rng.Intn(uint32(1<<uint(exp))-1)) + 1
		backoff.PauseN(spins)

		if round%YieldInterval == YieldInterval-1 {
			backoff.Yield()
		}
	}
	return false
}

// Signal transitions the notifier to triggered and, if the waiter has
// already left its spin phase, wakes it via the kernel park primitive.
// Signal must be called at most once between resets; calling it twice
// without an intervening Reset is a protocol violation and not checked.
func (n *Notifier) Signal() {
	atomic.StoreUint32(&n.triggered, triggeredValue)

	if atomic.LoadUint32(&n.spinState) == spinning {
		// The waiter will observe triggered on its own; no syscall.
		return
	}
	park.Wake(&n.triggered)
}
