// Package learning implements the learning stage of the hashtron classifier
package learning

import "context"
import "math/rand"
import "sync"
import "time"

import "github.com/go-logr/logr"
import "github.com/jbarham/primegen"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/hash"
import "github.com/neurlang/svvit/hashtron"
import "github.com/neurlang/svvit/parallel"

// ErrNoSolution is returned when no program was found within the budget
var ErrNoSolution = errors.New("no hashtron program found")

const maxModulo = 1 << 31

// nextPrime returns the smallest prime not below n
func nextPrime(n uint64) uint32 {
	if n < 2 {
		n = 2
	}
	var p = primegen.New()
	p.SkipTo(n)
	var prime = p.Next()
	if prime > maxModulo {
		return maxModulo - 1
	}
	return uint32(prime)
}

// Training trains a hashtron with bits output bits on set. Every key of the
// set must make the hashtron output the bit it is mapped to.
func (h *HyperParameters) Training(ctx context.Context, set datasets.Set, bits byte) (*hashtron.Hashtron, error) {
	var sd = set.Split()
	var alphabet = [2][]uint32{
		make([]uint32, 0, len(sd[0])),
		make([]uint32, 0, len(sd[1])),
	}
	for v := range sd[0] {
		alphabet[0] = append(alphabet[0], v)
	}
	for v := range sd[1] {
		alphabet[1] = append(alphabet[1], v)
	}
	var r = rand.New(rand.NewSource(int64(len(set))))

	// garbage in, garbage out, fill an empty side with a value absent from the other side
	for i := 0; i < 2; i++ {
		for len(alphabet[i]) == 0 {
			var v = r.Uint32()
			if _, ok := sd[1-i][v]; !ok {
				alphabet[i] = append(alphabet[i], v)
			}
		}
	}

	var program [][2]uint32
	var err error
	for retry := 0; retry < h.retries(); retry++ {
		if program, err = h.Solve(ctx, alphabet, r); err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return hashtron.New(program, bits)
}

// ratio is the factor the modulo shrinks by after each step
func (h *HyperParameters) ratio() (num, den uint64) {
	if h.Numerator == 0 || h.Numerator >= h.Denominator {
		return 20, 21
	}
	return uint64(h.Numerator), uint64(h.Denominator)
}

func (h *HyperParameters) retries() int {
	if h.DeadlineRetry <= 0 {
		return 1
	}
	return h.DeadlineRetry
}

// minFinalModulo is the smallest modulo of the parity step. The parity of
// a hash reduced modulo 2 only sees its top bit, which small alphabets
// barely vary.
const minFinalModulo = 1021

// Solve finds a program mapping every value of alphabet[0] to an even
// number and every value of alphabet[1] to an odd number.
func (h *HyperParameters) Solve(ctx context.Context, alphabet [2][]uint32, r *rand.Rand) ([][2]uint32, error) {
	var logger = logr.FromContextOrDiscard(ctx)
	var sols [][2]uint32
	var center = r.Uint32()

	var max = nextPrime(h.initialModulo(alphabet))
	var failures int
	for len(sols) == 0 || !separated(alphabet) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var size = len(alphabet[0]) + len(alphabet[1])
		var final = size <= h.FinalSize || max <= 2
		if final && max < minFinalModulo {
			max = minFinalModulo
		}

		var salt uint32
		var ok bool
		if final {
			salt, ok = h.Separate(ctx, max, center, &alphabet)
		} else {
			salt, ok = h.Reduce(ctx, max, center, &alphabet)
		}
		if !ok {
			if failures >= h.retries() {
				return nil, errors.Wrapf(ErrNoSolution, "size %d modulo %d", size, max)
			}
			failures++
			// unstucker, a larger modulo collides less
			var num, den = h.ratio()
			max = nextPrime(uint64(max) * den / num)
			center = r.Uint32()
			continue
		}
		sols = append(sols, [2]uint32{salt, max})
		alphabet = apply(alphabet, salt, max)
		center = salt
		logger.V(2).Info("reduced", "size", len(alphabet[0])+len(alphabet[1]), "modulo", max, "final", final)

		max = h.shrink(max, alphabet)
	}
	return sols, nil
}

// shrink returns the next modulo, a prime below max
func (h *HyperParameters) shrink(max uint32, alphabet [2][]uint32) uint32 {
	var num, den = h.ratio()
	var next = uint64(max) * num / den
	if next > uint64(h.Subtractor) {
		next -= uint64(h.Subtractor)
	}
	if limit := h.initialModulo(alphabet); next > limit {
		next = limit
	}
	for ; next >= 2; next-- {
		if p := nextPrime(next); p < max {
			return p
		}
	}
	return 2
}

func (h *HyperParameters) initialModulo(alphabet [2][]uint32) uint64 {
	var factor = uint64(h.Factor)
	if factor == 0 {
		factor = 1
	}
	var m = uint64(len(alphabet[0])) * uint64(len(alphabet[1])) / factor
	if m < uint64(len(alphabet[0])+len(alphabet[1])) {
		m = uint64(len(alphabet[0]) + len(alphabet[1]))
	}
	if m > maxModulo {
		m = maxModulo
	}
	return m
}

// separated reports whether every value of side 0 is even and every value of side 1 is odd
func separated(alphabet [2][]uint32) bool {
	for j := 0; j < 2; j++ {
		for _, v := range alphabet[j] {
			if v&1 != uint32(j) {
				return false
			}
		}
	}
	return true
}

// apply hashes both sides with salt and modulo max, removing duplicates
func apply(alphabet [2][]uint32, salt, max uint32) (out [2][]uint32) {
	for j := 0; j < 2; j++ {
		var seen = make(map[uint32]struct{}, len(alphabet[j]))
		for _, v := range alphabet[j] {
			var w = hash.Hash(v, salt, max)
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				out[j] = append(out[j], w)
			}
		}
	}
	return
}

// Reduce searches a salt which keeps both sides disjoint under modulo max.
func (h *HyperParameters) Reduce(ctx context.Context, max uint32, center uint32, alphabet *[2][]uint32) (salt uint32, ok bool) {
	return h.search(ctx, center, func(s uint32, par int, ender parallel.LoopStopper) bool {
		return h.disjoint(alphabet, s, max, par, false, ender)
	})
}

// Separate searches a salt whose hash under modulo max is even on side 0
// and odd on side 1.
func (h *HyperParameters) Separate(ctx context.Context, max uint32, center uint32, alphabet *[2][]uint32) (salt uint32, ok bool) {
	return h.search(ctx, center, func(s uint32, par int, ender parallel.LoopStopper) bool {
		return h.disjoint(alphabet, s, max, par, true, ender)
	})
}

// search races the salts around center until good accepts one. Nonces are
// spread by an odd multiplier, so nearby nonces give unrelated salts.
func (h *HyperParameters) search(ctx context.Context, center uint32, good func(s uint32, par int, ender parallel.LoopStopper) bool) (salt uint32, ok bool) {
	var mut sync.Mutex
	var par = hash.HashVectorizedParallelism()
	if h.DeadlineMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(h.DeadlineMs)*time.Millisecond)
		defer cancel()
	}

	parallel.Loop(h.Threads).LoopUntil(ctx, func(nonce uint32, ender parallel.LoopStopper) bool {
		if h.MaxAttempts > 0 && int(nonce) >= h.MaxAttempts {
			return true
		}
		var s = center ^ (nonce * 0x9e3779b9)
		if !good(s, par, ender) {
			return false
		}
		mut.Lock()
		if !ok {
			salt, ok = s, true
		}
		mut.Unlock()
		return true
	})
	return
}

// disjoint reports whether salt s keeps the sides apart, by value or by
// parity when parity is set.
func (h *HyperParameters) disjoint(alphabet *[2][]uint32, s, max uint32, par int, parity bool, ender parallel.LoopStopper) bool {
	var salts = make([]uint32, par)
	for i := range salts {
		salts[i] = s
	}
	var outs = make([]uint32, par)
	var side0 = make(map[uint32]struct{}, len(alphabet[0]))

	for j := 0; j < 2; j++ {
		var values = alphabet[j]
		for i := 0; i < len(values); i += par {
			if ender.Load() {
				return false
			}
			var n = len(values) - i
			if n > par {
				n = par
			}
			hash.HashVectorized(outs[:n], values[i:i+n], salts[:n], max)
			for _, v := range outs[:n] {
				if parity {
					if v&1 != uint32(j) {
						return false
					}
					continue
				}
				if j == 0 {
					side0[v] = struct{}{}
				} else if _, bad := side0[v]; bad {
					return false
				}
			}
		}
	}
	return true
}
