//go:build !debug

package qlock

// Guard-owner sentinel checks are compiled out entirely in release
// builds; see debug_on.go for the instrumented build.
func debugMarkAcquired(*QNode) {}
func debugMarkReleased(*QNode) {}
