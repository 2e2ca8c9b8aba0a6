// Package layer defines the combiners wired between hashtron layers. A
// combiner collects the output bits of one hashtron layer and regroups them
// into the input features of the next, the way attention and pooling regroup
// patch tokens.
package layer

// Layer creates the combiner placed after one hashtron layer
type Layer interface {
	Lay() Combiner

	// Inputs is the number of hashtron outputs the combiner takes
	Inputs() int
}

// Combiner is the per-sample state of a Layer
type Combiner interface {
	// Put stores the output bit of hashtron n of the previous layer
	Put(n int, v bool)

	// Feature is the input of hashtron n of the next layer
	Feature(n int) uint32

	// Disregard reports that bit n doesn't change any feature, so samples
	// voting on it are skipped while tallying.
	Disregard(n int) bool
}
