package full

func (f *Full) Put(n int, v bool) {
	f.vec[n] = v
}

// Feature packs maxbits bits starting at bit n*bits, most significant first
func (f *Full) Feature(n int) (o uint32) {
	var start = n * int(f.bits)
	var end = start + int(f.maxbits)
	if end > len(f.vec) {
		return 0
	}
	for _, bit := range f.vec[start:end] {
		o <<= 1
		if bit {
			o |= 1
		}
	}
	return
}

// Disregard is always false, every bit reaches a feature
func (f *Full) Disregard(int) bool {
	return false
}
