// Package parallel holds the concurrency primitives shared by the solver and
// the trainer: bounded ForEach, a racing nonce loop, prediction digests and
// the set of tried moves.
package parallel

import "context"
import "math"
import "sync"
import "sync/atomic"

// LoopStopper reports whether the loop was stopped
type LoopStopper interface {
	Load() bool
}

// Loop is the number of goroutines racing in LoopUntil
type Loop int

// LoopUntil hands increasing nonces from 0 to l goroutines until a yield
// returns true, ctx is done or the nonces run out. Long running yields can
// poll ender to give up early.
func (l Loop) LoopUntil(ctx context.Context, yield func(nonce uint32, ender LoopStopper) bool) {
	var (
		next  atomic.Uint32
		ender atomic.Bool
		wg    sync.WaitGroup
	)
	if l <= 0 {
		l = 1
	}

	stop := context.AfterFunc(ctx, func() { ender.Store(true) })
	defer stop()

	wg.Add(int(l))
	for i := 0; i < int(l); i++ {
		go func() {
			defer wg.Done()
			for !ender.Load() {
				nonce := next.Add(1) - 1
				if nonce == math.MaxUint32 || yield(nonce, &ender) {
					ender.Store(true)
					return
				}
			}
		}()
	}
	wg.Wait()
}
