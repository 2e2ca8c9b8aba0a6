// Package datasets implements the svvit dataset types: the examples a model
// is trained on, the registry of dataset builders, and the hashtron
// training sets derived from vote tallies.
package datasets

import "math/rand"

// Set maps hashtron input keys to the bit the hashtron should output
type Set map[uint32]bool

func (d *Set) Init() {
	*d = make(map[uint32]bool)
}

// SplittedSet holds the keys mapped to false at 0 and to true at 1
type SplittedSet [2]map[uint32]struct{}

// Split splits the set into a false set and a true set
func (d Set) Split() (o SplittedSet) {
	o[0] = make(map[uint32]struct{})
	o[1] = make(map[uint32]struct{})
	for k, v := range d {
		if v {
			o[1][k] = struct{}{}
		} else {
			o[0][k] = struct{}{}
		}
	}
	return
}

// Balance fills the smaller side with random keys until it matches the
// bigger side. Random keys never collide with keys of the other side.
func Balance(d SplittedSet, r *rand.Rand) SplittedSet {
	if len(d[0]) == len(d[1]) {
		return d
	}
	for len(d[0]) < len(d[1]) {
		var w = r.Uint32()
		if _, ok := d[1][w]; !ok {
			d[0][w] = struct{}{}
		}
	}
	for len(d[1]) < len(d[0]) {
		var w = r.Uint32()
		if _, ok := d[0][w]; !ok {
			d[1][w] = struct{}{}
		}
	}
	return d
}
