//go:build !noasm && amd64

package hash

import "github.com/klauspost/cpuid/v2"

func init() {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		HashVectorized = hashUnrolled
		hashVectorizedParallelism = 16
	case cpuid.CPU.Supports(cpuid.AVX2):
		HashVectorized = hashUnrolled
		hashVectorizedParallelism = 8
	default:
		HashVectorized = hashNotVectorized
		hashVectorizedParallelism = 1
	}
}
