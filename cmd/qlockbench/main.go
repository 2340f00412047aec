// Command qlockbench compares qlock.QueueLock's throughput against
// sync.Mutex and the two in-repo comparator locks (mcs.Lock, a
// pure-spin MCS baseline, and ticket.Lock, a FIFO ticket lock) across a
// sweep of goroutine counts, using the same contend harness the
// package tests use.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ahrav/qlock/internal/contend"
	"github.com/ahrav/qlock/mcs"
	"github.com/ahrav/qlock/qlock"
	"github.com/ahrav/qlock/ticket"
)

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {})); err != nil {
		fmt.Fprintf(os.Stderr, "qlockbench: maxprocs.Set: %v\n", err)
	}

	rounds := flag.Int("rounds", 5, "timed rounds per goroutine count")
	opsPerRound := flag.Int("ops", 2000, "lock/unlock pairs per goroutine per round")
	flag.Parse()

	for _, n := range contend.StandardWorkerCounts {
		fmt.Printf("== %d goroutines ==\n", n)

		runCase("sync.Mutex", n, *rounds, *opsPerRound, func() func(int) {
			var mu sync.Mutex
			return func(times int) {
				for i := 0; i < times; i++ {
					mu.Lock()
					mu.Unlock()
				}
			}
		})
		runCase("qlock.QueueLock", n, *rounds, *opsPerRound, func() func(int) {
			l := qlock.New()
			return func(times int) {
				var node qlock.QNode
				for i := 0; i < times; i++ {
					l.Acquire(&node).Release()
				}
			}
		})
		runCase("mcs.Lock", n, *rounds, *opsPerRound, func() func(int) {
			l := mcs.NewLock()
			return func(times int) {
				var node mcs.QNode
				for i := 0; i < times; i++ {
					l.Lock(&node)
					l.Unlock(&node)
				}
			}
		})
		runCase("ticket.Lock", n, *rounds, *opsPerRound, func() func(int) {
			l := ticket.NewLock()
			return func(times int) {
				for i := 0; i < times; i++ {
					l.Lock()
					l.Unlock()
				}
			}
		})
	}
}

// runCase times numWorkers goroutines each running the work function
// build produces, for rounds synchronized rounds of opsPerRound
// operations each, and prints aggregate throughput. build is called
// once per case, so all workers contend on the same lock instance.
func runCase(name string, numWorkers, rounds, opsPerRound int, build func() func(int)) {
	c := contend.Case[func(int)]{
		CreateValue: build,
		DoWork:      func(do func(int), times int) { do(times) },
	}

	start := time.Now()
	contend.Run(c, numWorkers, rounds, opsPerRound, func() {})
	elapsed := time.Since(start)

	totalOps := int64(numWorkers) * int64(rounds) * int64(opsPerRound)
	nsPerOp := float64(elapsed.Nanoseconds()) / float64(totalOps)
	fmt.Printf("  %-18s %10.1f ns/op  (%d ops in %v)\n", name, nsPerOp, totalOps, elapsed)
}
