package mcs

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockConcurrentAccess(t *testing.T) {
	l := NewLock()
	var inCS atomic.Bool
	const iterations = 2000

	var wg sync.WaitGroup
	wg.Add(4)
	for g := 0; g < 4; g++ {
		go func() {
			defer wg.Done()
			var node QNode
			for i := 0; i < iterations; i++ {
				l.Lock(&node)
				require.True(t, inCS.CompareAndSwap(false, true))
				require.True(t, inCS.CompareAndSwap(true, false))
				l.Unlock(&node)
			}
		}()
	}
	wg.Wait()
	require.True(t, l.IsFree())
}

func TestTryLock(t *testing.T) {
	l := NewLock()
	var a, b QNode

	require.True(t, l.TryLock(&a))
	require.False(t, l.TryLock(&b))
	l.Unlock(&a)
}

func BenchmarkMCSLockUncontended(b *testing.B) {
	l := NewLock()
	var node QNode
	for i := 0; i < b.N; i++ {
		l.Lock(&node)
		l.Unlock(&node)
	}
}
