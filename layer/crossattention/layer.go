// Package crossattention implements a cross attention connected layer and combiner
package crossattention

import "errors"

import "github.com/neurlang/svvit/layer"

type CrossAttentionLayer struct {
	qkv         bool
	dim         int
	heads       int
	use_masking bool
}

type CrossAttention struct {
	vec         []bool
	qkv         bool
	dim         int
	heads       int
	use_masking bool
}

func validate(dim, heads int) error {
	if dim <= 0 || heads <= 0 {
		return errors.New("cross attention dim and heads must be positive")
	}
	return nil
}

// MustNew4 creates a new masked qkv cross attention layer
func MustNew4(dim int, heads int) *CrossAttentionLayer {
	o, err := New4(dim, heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New4 creates a new masked qkv cross attention layer
func New4(dim int, heads int) (o *CrossAttentionLayer, err error) {
	o, err = New(dim, heads)
	if err != nil {
		return nil, err
	}
	o.qkv = true
	o.use_masking = true
	return
}

// MustNew3 creates a new qkv cross attention layer
func MustNew3(dim int, heads int) *CrossAttentionLayer {
	o, err := New3(dim, heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New3 creates a new qkv cross attention layer
func New3(dim int, heads int) (o *CrossAttentionLayer, err error) {
	o, err = New(dim, heads)
	if err != nil {
		return nil, err
	}
	o.qkv = true
	return
}

// MustNew2 creates a new masked cross attention layer
func MustNew2(dim int, heads int) *CrossAttentionLayer {
	o, err := New2(dim, heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New2 creates a new masked cross attention layer
func New2(dim int, heads int) (o *CrossAttentionLayer, err error) {
	o, err = New(dim, heads)
	if err != nil {
		return nil, err
	}
	o.use_masking = true
	return
}

// MustNew creates a new cross attention layer with dim positions per head
func MustNew(dim int, heads int) *CrossAttentionLayer {
	o, err := New(dim, heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new cross attention layer with dim positions per head
func New(dim int, heads int) (o *CrossAttentionLayer, err error) {
	if err = validate(dim, heads); err != nil {
		return nil, err
	}
	o = new(CrossAttentionLayer)
	o.dim = dim
	o.heads = heads
	return
}

// Inputs reports the number of inputs, dim per head
func (i *CrossAttentionLayer) Inputs() int {
	return i.dim * i.heads
}

// Lay turns cross attention layer into a combiner
func (i *CrossAttentionLayer) Lay() layer.Combiner {
	o := new(CrossAttention)
	o.vec = make([]bool, i.dim*i.heads)
	o.dim = i.dim
	o.heads = i.heads
	o.qkv = i.qkv
	o.use_masking = i.use_masking
	return o
}
