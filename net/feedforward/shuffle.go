package feedforward

import "math/rand"

// Shuffle lists the hashtrons from from onwards, shuffled within each layer.
// Layers are listed from the output to the input when reverse is set.
func (f FeedforwardNetwork) Shuffle(r *rand.Rand, from int, reverse bool) (o []int) {
	var base = 0
	var layers [][]int
	for i := range f.layers {
		if len(f.layers[i]) == 0 {
			continue
		}
		var ids = make([]int, 0, len(f.layers[i]))
		for j := range f.layers[i] {
			if base+j >= from {
				ids = append(ids, base+j)
			}
		}
		r.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		layers = append(layers, ids)
		base += len(f.layers[i])
	}
	if reverse {
		for i := len(layers) - 1; i >= 0; i-- {
			o = append(o, layers[i]...)
		}
		return o
	}
	for _, ids := range layers {
		o = append(o, ids...)
	}
	return o
}
