package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPushPopOrder is spec.md §8 scenario S5's sequential half: push
// A, B, C, pop once (must yield C, the most recently pushed), push a
// new node A2, and confirm the pool never hands back a node twice
// before it's pushed again.
func TestPushPopOrder(t *testing.T) {
	p := New()
	a := &PoolNode{}
	b := &PoolNode{}
	c := &PoolNode{}

	p.Push(a)
	p.Push(b)
	p.Push(c)

	got := p.Pop()
	require.Same(t, c, got)

	a2 := &PoolNode{}
	p.Push(a2)

	seen := map[*PoolNode]bool{}
	for {
		n := p.Pop()
		if n == nil {
			break
		}
		require.False(t, seen[n], "node popped twice without an intervening push")
		seen[n] = true
	}
	assert.Len(t, seen, 3, "expected the three remaining nodes (a, b, a2)")
}

// TestConcurrentPushPop is the stress half of S5: 4 goroutines each
// doing 10000 push/pop pairs against a shared pool, verifying that the
// pool never loses a node and never hands out the same node to two
// goroutines concurrently (which would indicate an ABA failure in the
// tagged free-list).
func TestConcurrentPushPop(t *testing.T) {
	const goroutines = 4
	const iterations = 10000

	p := New()
	var owned sync.Map // *PoolNode -> bool, true while checked out

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			local := &PoolNode{}
			p.Push(local)

			for i := 0; i < iterations; i++ {
				n := p.Pop()
				if n == nil {
					// Another goroutine holds every node momentarily;
					// retry until one is available.
					for n == nil {
						n = p.Pop()
					}
				}
				_, alreadyOwned := owned.LoadOrStore(n, true)
				require.False(t, alreadyOwned, "node handed out while already checked out")
				owned.Delete(n)
				p.Push(n)
			}
		}()
	}
	wg.Wait()

	count := 0
	for p.Pop() != nil {
		count++
	}
	assert.Equal(t, goroutines, count, "pool should retain exactly one node per goroutine")
}
