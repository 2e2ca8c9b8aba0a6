// Package hashtron implements the binary hash neuron. A hashtron is a short
// program of (salt, modulo) pairs hashed over its input, the parity of the
// result is the output bit.
package hashtron

import "math/rand"

import "github.com/pkg/errors"

// Hashtron is one trained (or untrained) hash neuron
type Hashtron struct {
	program [][2]uint32
	bits    byte
}

// New creates a hashtron running program with bits output bits. A nil
// program is an untrained hashtron with one random salt under modulo 2.
func New(program [][2]uint32, bits byte) (*Hashtron, error) {
	if bits > 16 {
		return nil, errors.Errorf("hashtron outputs at most 16 bits, got %d", bits)
	}
	for i, cmd := range program {
		if cmd[1] == 0 {
			return nil, errors.Errorf("hashtron program modulo %d is zero", i)
		}
	}
	if bits == 0 {
		bits = 1
	}
	var h = &Hashtron{bits: bits}
	if program == nil {
		h.program = [][2]uint32{{rand.Uint32() >> 1, 2}}
	} else {
		h.program = append([][2]uint32(nil), program...)
	}
	return h, nil
}

// Push prepends a (salt, modulo) pair
func (h *Hashtron) Push(data [2]uint32) {
	h.program = append([][2]uint32{data}, h.program...)
}

// Get returns the salt and modulo at position n
func (h Hashtron) Get(n int) (s uint32, max uint32) {
	return h.program[n][0], h.program[n][1]
}

func (h Hashtron) Len() int {
	return len(h.program)
}

// Bits is the number of output bits of Forward
func (h Hashtron) Bits() byte {
	return h.bits
}

// Program returns a copy of the (salt, modulo) pairs
func (h Hashtron) Program() [][2]uint32 {
	return append([][2]uint32(nil), h.program...)
}
