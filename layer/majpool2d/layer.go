package majpool2d

import "errors"

import "github.com/neurlang/svvit/layer"

// MajPool2DLayer pools a (width*subwidth) x (height*subheight) grid, repeated
// repeat times, into width x height cells.
type MajPool2DLayer struct {
	width, height, subwidth, subheight, repeat int
}

type MajPool2D struct {
	vec                                        []bool
	width, height, subwidth, subheight, repeat int
}

// New creates a new MajPool2D layer with size, subsize and repeat
func New(width, height, subwidth, subheight, repeat int) (o *MajPool2DLayer, err error) {
	if width <= 0 || height <= 0 || subwidth <= 0 || subheight <= 0 || repeat <= 0 {
		return nil, errors.New("majpool2d dimensions must be positive")
	}
	if repeat > 32 {
		return nil, errors.New("majpool2d can't repeat more than 32 times")
	}
	o = new(MajPool2DLayer)
	o.width = width
	o.height = height
	o.subwidth = subwidth
	o.subheight = subheight
	o.repeat = repeat
	return
}

// MustNew creates a new MajPool2D layer with size, subsize and repeat
func MustNew(width, height, subwidth, subheight, repeat int) (o *MajPool2DLayer) {
	o, err := New(width, height, subwidth, subheight, repeat)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Inputs reports the number of inputs
func (i *MajPool2DLayer) Inputs() int {
	return i.width * i.height * i.subwidth * i.subheight * i.repeat
}

// Outputs reports the number of pooled cells
func (i *MajPool2DLayer) Outputs() int {
	return i.width * i.height
}

// Lay turns MajPool2D layer into a combiner
func (i *MajPool2DLayer) Lay() layer.Combiner {
	var o MajPool2D
	o.vec = make([]bool, i.Inputs())
	o.width = i.width
	o.height = i.height
	o.subwidth = i.subwidth
	o.subheight = i.subheight
	o.repeat = i.repeat
	return &o
}
