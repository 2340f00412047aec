//go:build !amd64 && !arm64

package pool

import (
	"sync"

	"github.com/ahrav/qlock/qlock"
)

// PoolNode wraps a qlock.QNode with the free-list link a Pool needs.
type PoolNode struct {
	QNode qlock.QNode
	next  *PoolNode
}

// Pool is a mutex-protected free-list of *PoolNode, the fallback used
// on architectures where pointers aren't guaranteed 64 bits wide and so
// the amd64/arm64 build's high-bits ABA tagging (pool.go) doesn't apply.
// Correctness-wise this is equivalent to the tagged-pointer version;
// it simply serializes push/pop behind a mutex instead of CAS-retrying.
type Pool struct {
	mu   sync.Mutex
	head *PoolNode
}

// New returns an empty Pool.
func New() *Pool { return &Pool{} }

// Push returns n to the pool.
func (p *Pool) Push(n *PoolNode) {
	p.mu.Lock()
	n.next = p.head
	p.head = n
	p.mu.Unlock()
}

// Pop removes and returns a node from the pool, or nil if empty.
func (p *Pool) Pop() *PoolNode {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.head
	if n == nil {
		return nil
	}
	p.head = n.next
	return n
}
