// Package full implements a fully connected layer and combiner
package full

import "errors"

import "github.com/neurlang/svvit/layer"

type FullLayer struct {
	size    int
	bits    byte
	maxbits byte
}

type Full struct {
	vec     []bool
	bits    byte
	maxbits byte
}

// MustNew creates a new full layer with size and bits
func MustNew(size int, bits, maxbits byte) *FullLayer {
	o, err := New(size, bits, maxbits)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with size inputs. Feature n packs maxbits
// inputs starting at input n*bits.
func New(size int, bits, maxbits byte) (o *FullLayer, err error) {
	if size <= 0 {
		return nil, errors.New("full layer size must be positive")
	}
	if maxbits == 0 || maxbits > 32 {
		return nil, errors.New("full layer maxbits must be between 1 and 32")
	}
	if int(maxbits) > size {
		return nil, errors.New("full layer maxbits exceeds size")
	}
	o = new(FullLayer)
	o.size = size
	o.bits = bits
	o.maxbits = maxbits
	return
}

// Inputs reports the number of inputs
func (i *FullLayer) Inputs() int {
	return i.size
}

// Outputs reports the number of nonzero features the combiner can produce
func (i *FullLayer) Outputs() int {
	if i.bits == 0 {
		return 1
	}
	return (i.size-int(i.maxbits))/int(i.bits) + 1
}

// Lay turns full layer into a combiner
func (i *FullLayer) Lay() layer.Combiner {
	o := new(Full)
	o.vec = make([]bool, i.size)
	o.bits = i.bits
	o.maxbits = i.maxbits
	return o
}
