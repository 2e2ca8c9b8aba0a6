package hash

// HashVectorized computes many hashes sharing one modulo in a batch
var HashVectorized func(out []uint32, n []uint32, s []uint32, max uint32) = hashNotVectorized

// HashVectorizedDistinct computes many hashes each with its own modulo in a batch
var HashVectorizedDistinct func(out []uint32, n []uint32, s []uint32, max []uint32) = hashNotVectorizedDistinct

var hashVectorizedParallelism int = 1

// HashVectorizedParallelism reports the recommended number of hashes to compute
// in one batch on this platform. Can't return 0.
func HashVectorizedParallelism() int {
	return hashVectorizedParallelism
}

func hashNotVectorized(out []uint32, n []uint32, s []uint32, max uint32) {
	for i := range out {
		out[i] = Hash(n[i], s[i], max)
	}
}

func hashNotVectorizedDistinct(out []uint32, n []uint32, s []uint32, max []uint32) {
	for i := range out {
		out[i] = Hash(n[i], s[i], max[i])
	}
}

// hashUnrolled hashes in blocks of 8 so the compiler can keep the block in registers
func hashUnrolled(out []uint32, n []uint32, s []uint32, max uint32) {
	i := 0
	for ; i+8 <= len(out); i += 8 {
		out[i] = Hash(n[i], s[i], max)
		out[i+1] = Hash(n[i+1], s[i+1], max)
		out[i+2] = Hash(n[i+2], s[i+2], max)
		out[i+3] = Hash(n[i+3], s[i+3], max)
		out[i+4] = Hash(n[i+4], s[i+4], max)
		out[i+5] = Hash(n[i+5], s[i+5], max)
		out[i+6] = Hash(n[i+6], s[i+6], max)
		out[i+7] = Hash(n[i+7], s[i+7], max)
	}
	for ; i < len(out); i++ {
		out[i] = Hash(n[i], s[i], max)
	}
}
