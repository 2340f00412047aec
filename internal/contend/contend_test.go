package contend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/qlock/qlock"
)

// TestRunExclusion uses the harness itself to contend on a QueueLock,
// checking that DoWork's increments are never lost to a races.
func TestRunExclusion(t *testing.T) {
	type shared struct {
		lock    *qlock.QueueLock
		counter *int
	}

	counter := 0
	rounds := 0

	c := Case[shared]{
		CreateValue: func() shared {
			return shared{lock: qlock.New(), counter: &counter}
		},
		DoWork: func(v shared, times int) {
			var node qlock.QNode
			for i := 0; i < times; i++ {
				g := v.lock.Acquire(&node)
				*v.counter = *v.counter + 1
				g.Release()
			}
		},
	}

	Run(c, 4, 3, 500, func() { rounds++ })

	assert.Equal(t, 3, rounds)
	assert.Equal(t, 4*3*500, counter)
}
