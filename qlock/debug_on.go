//go:build debug

package qlock

import "sync"

// guardOwners tracks, per QNode, whether that node currently backs a
// live Guard. It exists only in the debug build: a best-effort runtime
// check for spec.md §8 property 1 (mutual exclusion) and the protocol
// rules in §7 (no double signal, no reuse of a still-guarded node),
// catching misuse that a race-free but buggy caller could otherwise
// hit silently.
var guardOwners sync.Map // map[*QNode]*held

type held struct {
	mu sync.Mutex
	on bool
}

func debugMarkAcquired(node *QNode) {
	v, _ := guardOwners.LoadOrStore(node, &held{})
	h := v.(*held)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.on {
		panic("qlock: guard-owner sentinel violated: node acquired while its prior guard is still live")
	}
	h.on = true
}

func debugMarkReleased(node *QNode) {
	v, ok := guardOwners.Load(node)
	if !ok {
		panic("qlock: guard-owner sentinel violated: Release called on a node that was never acquired")
	}
	h := v.(*held)
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.on {
		panic("qlock: guard-owner sentinel violated: double Release")
	}
	h.on = false
}
