// Package cacheline provides a fixed-size padding type used to keep
// independently-written atomic words on separate cache lines.
package cacheline

// Size is the padding width in bytes. 128 rather than the more common 64
// covers both classic 64-byte L1 lines and the 128-byte lines used by
// Apple M-series cores; undersizing it doesn't break correctness but
// defeats the point of isolating the field in the first place.
const Size = 128

// Pad reserves Size bytes. Embed it between (or after) fields that are
// written independently by different goroutines so a store to one field
// cannot invalidate another goroutine's cache line for the next.
//
// Pad intentionally does not use golang.org/x/sys/cpu.CacheLinePad: that
// type's size tracks the actual L1 line width per GOARCH (32 bytes on arm,
// 64 on amd64, 256 on s390x, 0 on wasm), which is the right choice for
// code that only cares about "big enough for this platform". Here the
// padding width is a protocol constant, not a platform hint, so a fixed
// 128 is used on every architecture.
type Pad [Size]byte
