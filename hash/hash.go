// Package hash implements the fast modular hash used by hashtrons
package hash

// Hash mixes n with salt s and reduces the result into the range 0 to max-1.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mixing stage, mix input with salt using subtraction
	var m = uint32(n) - uint32(s)

	// hashing stage, use xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mixing stage 2, mix input with salt using addition
	m += s

	// modular stage, multiply shift instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Fold folds a sequence of values into a single 32-bit token.
func Fold(values []uint32) (o uint32) {
	o = 0x811c9dc5
	for i, v := range values {
		o = Hash(o^v, uint32(i)+1, ^uint32(0)) ^ v
	}
	return
}
