package park

import "sync/atomic"

// Call counters for test introspection only (spec.md §8, properties 5
// and 6: "testable by counting" / "testable by mocking the wait
// primitive"). Production code paths never read these; qlock's and
// notifier's own tests use them to assert that an uncontended
// acquire/release, or a signal that beat its waiter to the punch, never
// reached the kernel.
var (
	waitCalls atomic.Int64
	wakeCalls atomic.Int64
)

// Counters reports the number of times Wait and Wake have been invoked
// since process start (or since the last ResetCounters call).
func Counters() (waits, wakes int64) {
	return waitCalls.Load(), wakeCalls.Load()
}

// ResetCounters zeroes the test-introspection counters.
func ResetCounters() {
	waitCalls.Store(0)
	wakeCalls.Store(0)
}
