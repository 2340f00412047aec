//go:build debug

package qlock

import "testing"

// TestDebugSentinelCatchesDoubleRelease exercises the debug-build
// guard-owner sentinel directly: releasing the same node twice without
// an intervening Acquire must panic.
func TestDebugSentinelCatchesDoubleRelease(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic from a double Release")
		}
	}()

	l := New()
	var node QNode
	g := l.Acquire(&node)
	g.Release()
	g.Release()
}

// TestDebugSentinelAllowsReuse confirms the sentinel doesn't flag the
// ordinary acquire/release/acquire cycle a reused node goes through.
func TestDebugSentinelAllowsReuse(t *testing.T) {
	l := New()
	var node QNode
	for i := 0; i < 10; i++ {
		l.Acquire(&node).Release()
	}
}
