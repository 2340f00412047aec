package ticket

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLockExcludes mirrors qlock's TestPairHandoff: two goroutines
// hammering Lock/Unlock, with a mutual-exclusion flag standing in for
// spec.md §8 property 1 so the same assertion applies across all three
// comparator locks in cmd/qlockbench.
func TestLockExcludes(t *testing.T) {
	l := NewLock()
	var inCS atomic.Bool
	const iterations = 5000

	var wg sync.WaitGroup
	wg.Add(2)
	for g := 0; g < 2; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				l.Lock()
				require.True(t, inCS.CompareAndSwap(false, true))
				require.True(t, inCS.CompareAndSwap(true, false))
				l.Unlock()
			}
		}()
	}
	wg.Wait()
	require.True(t, l.IsFree())
}

// TestLockServesTicketsInOrder is the FIFO-fairness property that
// motivates ticket.Lock's inclusion alongside qlock.QueueLock and
// mcs.Lock in the benchmark sweep: head must advance by exactly one
// per critical-section entry, in the order tickets were drawn.
func TestLockServesTicketsInOrder(t *testing.T) {
	l := NewLock()
	const numGoroutines = 50

	var mu sync.Mutex
	var headAtEntry []uint32

	var ready sync.WaitGroup
	ready.Add(1)
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			ready.Wait()

			l.Lock()
			mu.Lock()
			headAtEntry = append(headAtEntry, atomic.LoadUint32(&l.head))
			mu.Unlock()
			l.Unlock()
		}()
	}

	ready.Done()
	wg.Wait()

	for i := 1; i < len(headAtEntry); i++ {
		assert.Equal(t, headAtEntry[i-1]+1, headAtEntry[i],
			"ticket service order broken: %v", headAtEntry)
	}
}

func TestTryLock(t *testing.T) {
	l := NewLock()
	require.True(t, l.TryLock())
	require.False(t, l.TryLock(), "already held")
	l.Unlock()
	require.True(t, l.TryLock(), "free again after Unlock")
}

func TestTicketDistance(t *testing.T) {
	tests := []struct {
		cur, target uint32
		want        uint32
	}{
		{0, 0, 0},
		{1, 1, 0},
		{10, 5, 5},
		{5, 10, 5},
		{math.MaxUint32, 0, math.MaxUint32},
		{0, math.MaxUint32, math.MaxUint32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ticketDistance(tt.cur, tt.target))
	}
}

// BenchmarkTicketLockUncontended pairs with BenchmarkQueueLockUncontended
// and BenchmarkMCSLockUncontended so ticket.Lock's distance-based
// spin strategy and qlock/mcs's pause-hint strategies can be compared
// on equal footing via go test -bench.
func BenchmarkTicketLockUncontended(b *testing.B) {
	l := NewLock()
	for i := 0; i < b.N; i++ {
		l.Lock()
		l.Unlock()
	}
}

func BenchmarkTicketLockContended(b *testing.B) {
	l := NewLock()
	shared := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Lock()
			shared++
			l.Unlock()
		}
	})
}
