package feedforward

import "math/rand"

// Branch picks one random hashtron of every hashtron layer, from the input
// to the output or the other way around if reverse is set. Hashtrons below
// from are skipped.
func (f FeedforwardNetwork) Branch(r *rand.Rand, from int, reverse bool) (o []int) {
	o = make([]int, 0, f.LenLayers())

	var base = 0
	for i := 0; i < f.LenLayers(); i++ {
		if len(f.layers[i]) == 0 {
			continue
		}
		var pick = base + r.Intn(len(f.layers[i]))
		if pick >= from {
			o = append(o, pick)
		}
		base += len(f.layers[i])
	}

	if reverse {
		for i := len(o)/2 - 1; i >= 0; i-- {
			opp := len(o) - 1 - i
			o[i], o[opp] = o[opp], o[i]
		}
	}
	return o
}
