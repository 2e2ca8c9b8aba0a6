// Package rng implements splittable random keys. A key is never used
// directly; it is split into independent keys, one per consumer, and each
// consumer turns its key into a seeded generator.
package rng

import "math/rand"

// Key is a splittable random key
type Key uint64

// golden is the splitmix64 increment
const golden uint64 = 0x9e3779b97f4a7c15

// New creates a key from a seed
func New(seed int64) Key {
	return Key(mix(uint64(seed) ^ golden))
}

// mix is the splitmix64 finalizer
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Split derives two independent keys from k
func Split(k Key) (Key, Key) {
	a := Key(mix(uint64(k) + golden))
	b := Key(mix(uint64(k) + golden + golden))
	if a == b {
		b = Key(mix(uint64(b) + 1))
	}
	return a, b
}

// Fold derives a key from k and data, for per-step or per-worker keys
func Fold(k Key, data uint64) Key {
	return Key(mix(uint64(k) ^ mix(data+0x632be59bd9b4e019)))
}

// Rand returns a generator seeded by k
func (k Key) Rand() *rand.Rand {
	return rand.New(rand.NewSource(int64(k)))
}

// Uint32 returns 32 bits derived from k
func (k Key) Uint32() uint32 {
	return uint32(mix(uint64(k)) >> 32)
}
