package crossattention

// Put inserts a boolean at position n.
func (f *CrossAttention) Put(n int, v bool) {
	f.vec[n] = v
}

func bit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Feature returns the n-th feature from the combiner. Bit 0 is the value
// at position n, the higher bits count the positions of the same head it
// attends to. With masking only earlier positions are attended.
//
// In qkv mode the head is laid out as (query, key, value) triples: a
// query counts the triples whose key is set and whose value equals the
// query, keys and values pass through unchanged.
func (f *CrossAttention) Feature(n int) (o uint32) {
	dim := f.dim
	pos := n % dim
	beginhead := n - pos
	me := f.vec[n]

	if f.qkv {
		if pos%3 != 0 {
			return bit(me)
		}
		for t := 0; t+2 < dim; t += 3 {
			if f.use_masking && t > pos {
				break
			}
			key := f.vec[beginhead+t+1]
			value := f.vec[beginhead+t+2]
			if key && value == me {
				o++
			}
		}
		return o<<1 | bit(me)
	}

	iov := pos & 1
	for x := iov ^ 1; x < dim; x += 2 {
		if f.use_masking && x > pos {
			break
		}
		if f.vec[beginhead+x] && me {
			o++
		}
	}
	return o<<1 | bit(me)
}

// Disregard tells whether putting value false at position n would not affect
// any feature output (as opposed to putting value true at position n).
func (f *CrossAttention) Disregard(n int) bool {
	return false
}
