// Package majpool2d implements a 2D majority pooling layer and combiner
package majpool2d

// Put sets the n-th bool. Inputs are laid out repeat-major, then row-major
// over the full grid.
func (s *MajPool2D) Put(n int, v bool) {
	s.vec[n] = v
}

func (s *MajPool2D) gridWidth() int {
	return s.width * s.subwidth
}

func (s *MajPool2D) plane() int {
	return s.gridWidth() * s.height * s.subheight
}

// vote sums the sub-block of cell (x, y) in repeat r, skipping position skip
func (s *MajPool2D) vote(r, x, y, skip int) (w int) {
	base := r * s.plane()
	for dy := 0; dy < s.subheight; dy++ {
		for dx := 0; dx < s.subwidth; dx++ {
			pos := base + (y*s.subheight+dy)*s.gridWidth() + x*s.subwidth + dx
			if pos == skip {
				continue
			}
			if s.vec[pos] {
				w++
			} else {
				w--
			}
		}
	}
	return
}

// Disregard tells whether putting value false at position n would not affect
// any feature output (as opposed to putting value true at position n).
func (s *MajPool2D) Disregard(n int) bool {
	r := n / s.plane()
	m := n % s.plane()
	x := (m % s.gridWidth()) / s.subwidth
	y := (m / s.gridWidth()) / s.subheight
	w := s.vote(r, x, y, n)
	// ties pool to false, so only w == 0 and w == 1 are decided by n
	return !(w == 0 || w == 1)
}

// Feature returns the m-th pooled cell. Bit r is the majority of the cell's
// sub-block in repeat r. Indexes past the last cell wrap, so several
// hashtrons of the next layer can read one cell.
func (s *MajPool2D) Feature(m int) (o uint32) {
	m %= s.width * s.height
	y := m / s.width
	x := m % s.width
	for r := 0; r < s.repeat; r++ {
		if s.vote(r, x, y, -1) > 0 {
			o |= 1 << r
		}
	}
	return
}
