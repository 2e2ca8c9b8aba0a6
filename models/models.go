// Package models defines the hashtron vision transformer model classes.
//
// A model class builds a feedforward hashtron network for a dataset shape.
// Images are cut into patches, every patch becomes a token, and every
// first-layer hashtron reads the token of one patch on behalf of one head.
package models

import "math/bits"

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/net/feedforward"

// Class is a model class, constructing untrained models.
type Class struct {
	Name  string
	build func(cfg config.ModelConfig, p patching, classes int) (*feedforward.FeedforwardNetwork, error)
}

// New creates an untrained model of class c for a dataset described by meta.
func (c *Class) New(cfg config.ModelConfig, meta datasets.MetaData) (*Model, error) {
	if meta.NumClasses < 2 || meta.NumClasses > 1<<16 {
		return nil, errors.Errorf("%s: can't classify %d classes", c.Name, meta.NumClasses)
	}
	if cfg.NumHeads <= 0 || cfg.NumHeads > 16 {
		return nil, errors.Errorf("%s: num_heads must be 1 to 16, got %d", c.Name, cfg.NumHeads)
	}
	p, err := newPatching(cfg, meta)
	if err != nil {
		return nil, errors.Wrap(err, c.Name)
	}
	net, err := c.build(cfg, p, meta.NumClasses)
	if err != nil {
		return nil, errors.Wrap(err, c.Name)
	}
	if err := net.Check(); err != nil {
		return nil, errors.Wrap(err, c.Name)
	}
	return &Model{
		Class:      c,
		Network:    net,
		NumClasses: meta.NumClasses,
		patching:   p,
	}, nil
}

func (c *Class) String() string {
	return c.Name
}

// ClassBits is the number of output bits needed to tell numClasses apart.
func ClassBits(numClasses int) byte {
	if numClasses <= 2 {
		return 1
	}
	return byte(bits.Len(uint(numClasses - 1)))
}

// Model is a hashtron network together with the way it reads examples.
type Model struct {
	Class      *Class
	Network    *feedforward.FeedforwardNetwork
	NumClasses int

	patching patching
}

// Sample is an example as seen by the network.
type Sample struct {
	tokens []uint32
	label  uint16
}

// Feature returns the token of the patch read by first-layer hashtron n.
func (s Sample) Feature(n int) uint32 {
	return s.tokens[n%len(s.tokens)]
}

// Output returns the expected class.
func (s Sample) Output() uint16 {
	return s.label
}

// Sample adapts an example to the network.
func (m *Model) Sample(e datasets.Example) Sample {
	return Sample{tokens: m.patching.tokens(e), label: e.Label}
}

// Predict returns the predicted class of an example. Outputs the network
// can produce beyond the last class are returned as is.
func (m *Model) Predict(e datasets.Example) uint16 {
	return m.Network.Infer(m.Sample(e))
}

// Hashtrons is the number of trainable hashtrons.
func (m *Model) Hashtrons() int {
	return m.Network.Len()
}
