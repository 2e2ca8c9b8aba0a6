package datasets

import "math/rand"

// Read states of a simulated pileup window
const (
	ReadAbsent = iota
	ReadMatch
	ReadDeleted
	ReadMismatch
)

// deletion returns the span of the simulated deletion, the middle half of the window
func deletion(width int) (begin, end int) {
	return width / 4, width - width/4
}

// altFraction is the expected fraction of reads carrying the deletion
func altFraction(label uint16) float64 {
	return float64(label) / 2
}

// SimulateCoverage draws a read depth track over a window centered on a
// deletion of the given genotype.
func SimulateCoverage(r *rand.Rand, width, depth int, noise float64, label uint16) []int {
	begin, end := deletion(width)
	keep := 1 - altFraction(label)
	out := make([]int, width)
	for x := range out {
		for i := 0; i < depth; i++ {
			covered := r.Float64() < 0.9
			if covered && x >= begin && x < end && r.Float64() >= keep {
				covered = false
			}
			if r.Float64() < noise {
				covered = !covered
			}
			if covered {
				out[x]++
			}
		}
	}
	return out
}

// SimulateReads draws height read tracks over a window centered on a
// deletion of the given genotype. Every row holds one read state per column.
func SimulateReads(r *rand.Rand, height, width int, noise float64, label uint16) [][]int {
	begin, end := deletion(width)
	alt := altFraction(label)
	out := make([][]int, height)
	for y := range out {
		row := make([]int, width)
		start := r.Intn(width/4 + 1)
		stop := width - r.Intn(width/4+1)
		carries := r.Float64() < alt
		for x := start; x < stop; x++ {
			switch {
			case r.Float64() < noise:
				row[x] = ReadMismatch
			case carries && x >= begin && x < end:
				row[x] = ReadDeleted
			default:
				row[x] = ReadMatch
			}
		}
		out[y] = row
	}
	return out
}
