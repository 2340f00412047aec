//go:build linux

package park

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux futex operation numbers with the private-mapping bit set, per
// spec.md §6: "the private-futex WAIT and WAKE operations (operation
// numbers with the private bit set)". golang.org/x/sys/unix carries the
// SYS_FUTEX syscall number but not these op codes, so they're declared
// here as the fixed kernel ABI constants they are.
const (
	futexWait        = 0
	futexWake        = 1
	futexPrivateFlag = 128

	futexWaitPrivate = futexWait | futexPrivateFlag
	futexWakePrivate = futexWake | futexPrivateFlag
)

// Wait parks the calling goroutine on addr via FUTEX_WAIT as long as
// *addr still equals expect, with no timeout. The three possible kernel
// outcomes described in spec.md §4.2 (woken, EAGAIN because the value
// already changed, or any other error treated as a spurious wake) are
// all simply returns from here: the caller's own wait loop re-checks
// the triggered word before deciding whether to park again, so this
// function never needs to distinguish them.
func Wait(addr *uint32, expect uint32) {
	waitCalls.Add(1)
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWaitPrivate),
		uintptr(expect),
		0, 0, 0,
	)
}

// Wake wakes at most one goroutine parked on addr via FUTEX_WAKE.
func Wake(addr *uint32) {
	wakeCalls.Add(1)
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWakePrivate),
		uintptr(1),
		0, 0, 0,
	)
}
