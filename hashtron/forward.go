package hashtron

import "github.com/neurlang/svvit/hash"

// Forward runs the hashtron program on command, once per output bit. The
// output bit index is mixed in above bit 16, so multi-bit hashtrons expect
// commands below 1<<16. The result is negated when negate is set.
func (h Hashtron) Forward(command uint32, negate bool) (out uint16) {
	if h.Len() == 0 {
		return
	}
	for j := byte(0); j < h.Bits(); j++ {
		var input = command | (uint32(j) << 16)
		for i := 0; i < h.Len(); i++ {
			var s, max = h.Get(i)
			input = hash.Hash(input, s, max)
		}
		input &= 1
		if negate {
			input ^= 1
		}
		if input != 0 {
			out |= 1 << j
		}
	}
	return
}
