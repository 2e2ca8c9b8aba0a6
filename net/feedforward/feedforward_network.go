// Package feedforward implements a feedforward network type
package feedforward

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/hash"
import "github.com/neurlang/svvit/hashtron"
import "github.com/neurlang/svvit/layer"

// Intermediate is an intermediate value used as both layer input and layer output in optimization
type Intermediate interface {

	// Feature extracts n-th feature from Intermediate
	Feature(n int) uint32

	// Disregard reports whether Intermediate doesn't regard n-th bit as affecting the output
	Disregard(n int) bool
}

// SingleValue is a single value returned by the final layer
type SingleValue uint32

// Feature extracts the feature from SingleValue
func (v SingleValue) Feature(n int) uint32 {
	return uint32(v)
}

// Disregard reports whether SingleValue doesn't regard n-th bit as affecting the output
func (v SingleValue) Disregard(n int) bool {
	return false
}

// FeedforwardNetworkInput is one individual input to the feedforward network
type FeedforwardNetworkInput interface {
	Feature(n int) uint32
}

// FeedforwardNetworkInOutput is one individual sample to the feedforward network with expected network output
type FeedforwardNetworkInOutput interface {
	Feature(n int) uint32
	Output() uint16
}

// FeedforwardNetwork is the feedforward network. Hashtron layers alternate
// with combiners, the last hashtron layer predicts the multi-bit output.
type FeedforwardNetwork struct {
	layers    [][]hashtron.Hashtron
	mapping   []byte
	combiners []layer.Layer
	premodulo []uint32
}

// Len returns the number of hashtrons which need to be trained inside the network.
func (f FeedforwardNetwork) Len() (o int) {
	for _, v := range f.layers {
		o += len(v)
	}
	return
}

// LenLayers returns the number of layers. Each Layer and Combiner counts as a layer here.
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer gets the layer number of hashtron based on hashtron number. Returns -1 on failure.
func (f FeedforwardNetwork) GetLayer(n int) int {
	for i, v := range f.layers {
		if n < len(v) {
			return i
		}
		n -= len(v)
	}
	return -1
}

// GetLayerStart gets the number of the first hashtron in layer l
func (f FeedforwardNetwork) GetLayerStart(l int) (n int) {
	for i := 0; i < l && i < len(f.layers); i++ {
		n += len(f.layers[i])
	}
	return
}

// LenHashtronLayers returns the number of hashtron layers, combiners not counted.
func (f FeedforwardNetwork) LenHashtronLayers() (o int) {
	for _, v := range f.layers {
		if len(v) > 0 {
			o++
		}
	}
	return
}

// GetHashtronLayerStart gets the number of the first hashtron in the k-th
// hashtron layer, skipping combiners. Past the last hashtron layer it is Len().
func (f FeedforwardNetwork) GetHashtronLayerStart(k int) (n int) {
	for _, v := range f.layers {
		if len(v) == 0 {
			continue
		}
		if k == 0 {
			return n
		}
		k--
		n += len(v)
	}
	return
}

// GetPosition gets the position of hashtron within layer based on the overall
// hashtron number. Returns -1 on failure.
func (f FeedforwardNetwork) GetPosition(n int) int {
	for _, v := range f.layers {
		if n < len(v) {
			return n
		}
		n -= len(v)
	}
	return -1
}

// GetHashtron gets n-th hashtron pointer in the network. The pointed hashtron
// can be overwritten to change the network.
func (f FeedforwardNetwork) GetHashtron(n int) *hashtron.Hashtron {
	for _, v := range f.layers {
		if n < len(v) {
			return &v[n]
		}
		n -= len(v)
	}
	return nil
}

// Forget resets every hashtron to an untrained one
func (f *FeedforwardNetwork) Forget() {
	for l := range f.layers {
		f.ForgetLayer(l)
	}
}

// ForgetLayer resets the hashtrons of layer l to untrained ones
func (f *FeedforwardNetwork) ForgetLayer(l int) {
	for j := range f.layers[l] {
		h, _ := hashtron.New(nil, f.layers[l][j].Bits())
		f.layers[l][j] = *h
	}
}

// NewLayer adds a hashtron layer to the end of network with n hashtrons, each recognizing bits bits.
func (f *FeedforwardNetwork) NewLayer(n int, bits byte) {
	f.NewLayerP(n, bits, 0)
}

// NewLayerP adds a hashtron layer to the end of network with n hashtrons, each recognizing bits bits, and input feature pre-modulo.
func (f *FeedforwardNetwork) NewLayerP(n int, bits byte, premodulo uint32) {
	if bits == 0 {
		bits = 1
	}
	var layer = make([]hashtron.Hashtron, n)
	for i := range layer {
		h, _ := hashtron.New(nil, bits)
		layer[i] = *h
	}
	f.layers = append(f.layers, layer)
	f.mapping = append(f.mapping, bits)
	f.combiners = append(f.combiners, nil)
	f.premodulo = append(f.premodulo, premodulo)
}

// SetLayersP sets an input feature pre-modulo to layers.
func (f *FeedforwardNetwork) SetLayersP(premodulo uint32) {
	for n := range f.premodulo {
		if f.combiners[n] == nil {
			f.premodulo[n] = premodulo
		}
	}
}

// NewCombiner adds a combiner layer to the end of network
func (f *FeedforwardNetwork) NewCombiner(layer layer.Layer) {
	f.layers = append(f.layers, nil)
	f.mapping = append(f.mapping, 0)
	f.combiners = append(f.combiners, layer)
	f.premodulo = append(f.premodulo, 0)
}

// Check verifies the network alternates hashtron layers and combiners, that
// every combiner takes as many inputs as the hashtron layer before it has
// hashtrons, and that the last layer is a single hashtron.
func (f FeedforwardNetwork) Check() error {
	if len(f.layers) == 0 || len(f.layers)%2 == 0 {
		return errors.Errorf("network must have an odd number of layers, has %d", len(f.layers))
	}
	for l := range f.layers {
		if l%2 == 0 {
			if f.combiners[l] != nil || len(f.layers[l]) == 0 {
				return errors.Errorf("layer %d must be a hashtron layer", l)
			}
			continue
		}
		if f.combiners[l] == nil {
			return errors.Errorf("layer %d must be a combiner", l)
		}
		if in := f.combiners[l].Inputs(); in != len(f.layers[l-1]) {
			return errors.Errorf("combiner %d takes %d inputs, layer %d has %d hashtrons", l, in, l-1, len(f.layers[l-1]))
		}
	}
	if n := len(f.layers[len(f.layers)-1]); n != 1 {
		return errors.Errorf("final layer must have one hashtron, has %d", n)
	}
	if p := f.premodulo[len(f.layers)-1]; f.GetBits() > 1 && (p == 0 || p > 1<<16) {
		return errors.New("multi-bit final layer needs a pre-modulo of at most 1<<16")
	}
	return nil
}

// IsMapLayerOf checks if hashtron n lies in the final layer of the network.
func (f FeedforwardNetwork) IsMapLayerOf(n int) bool {
	var l = f.GetLayer(n)
	return l != -1 && l+1 == len(f.layers)
}

// feature reads the feature of hashtron i in layer l from the layer input
func (f FeedforwardNetwork) feature(in FeedforwardNetworkInput, l, i int) uint32 {
	var feat = in.Feature(i)
	if f.premodulo[l] != 0 {
		feat = hash.Hash(feat, uint32(i), f.premodulo[l])
	}
	return feat
}

// Forward solves the intermediate value (net output after layer l based on that layer's input in) and the bit
// returned by worst hashtron is optionally negated (using neg == 1) and returned as computed.
func (f FeedforwardNetwork) Forward(in FeedforwardNetworkInput, l, worst, neg int) (inter Intermediate, computed bool) {
	if len(f.combiners) > l+1 && f.combiners[l+1] != nil {
		var combiner = f.combiners[l+1].Lay()
		for i := range f.layers[l] {
			var bit = f.layers[l][i].Forward(f.feature(in, l, i), (i == worst) && (neg == 1))
			combiner.Put(i, bit&1 != 0)
			if i == worst {
				computed = bit&1 != 0
			}
		}
		return combiner, computed
	}
	var val = f.layers[l][0].Forward(f.feature(in, l, 0), (worst == 0) && (neg == 1))
	return SingleValue(val), val&1 != 0
}

// forwardFrom runs the network from layer l to the end
func (f FeedforwardNetwork) forwardFrom(in FeedforwardNetworkInput, l int) FeedforwardNetworkInput {
	for ; l < f.LenLayers(); l += 2 {
		in, _ = f.Forward(in, l, -1, 0)
	}
	return in
}

// forwardTo runs the network up to the input of layer l
func (f FeedforwardNetwork) forwardTo(in FeedforwardNetworkInput, l int) FeedforwardNetworkInput {
	for l_prev := 0; l_prev < l; l_prev += 2 {
		in, _ = f.Forward(in, l_prev, -1, 0)
	}
	return in
}

// Infer infers the network output based on input, after being trained by using Tally
func (f FeedforwardNetwork) Infer(in FeedforwardNetworkInput) uint16 {
	var mask = uint16(1<<f.GetBits() - 1)
	return uint16(f.forwardFrom(in, 0).Feature(0)) & mask
}

// loss counts the wrong output bits
func loss(actual, expected uint16) (o int) {
	for x := actual ^ expected; x != 0; x &= x - 1 {
		o++
	}
	return
}

// Tally tallies the network on a sample with respect to to-be-trained worst hashtron.
// The votes are stored into thread safe structure Tally.
func (f FeedforwardNetwork) Tally(io FeedforwardNetworkInOutput, worst int, tally *datasets.Tally) {
	var l = f.GetLayer(worst)
	if l == -1 {
		return
	}
	var pos = f.GetPosition(worst)
	var mask = uint16(1<<f.GetBits() - 1)
	var output = io.Output() & mask
	var in = f.forwardTo(io, l)

	if !(len(f.combiners) > l+1 && f.combiners[l+1] != nil) {
		// final layer, every output bit is a separate key
		var ifeature = f.feature(in, l, 0)
		var actual = f.layers[l][0].Forward(ifeature, false)
		for j := byte(0); j < f.GetBits(); j++ {
			var want = (output >> j) & 1
			var changed = (actual>>j)&1 != want
			tally.AddToCorrect(ifeature|uint32(j)<<16, 2*int8(want)-1, changed)
		}
		return
	}

	var predicted [2]uint16
	var compute [2]int8
	var ifw = f.feature(in, l, pos)
	for neg := 0; neg < 2; neg++ {
		inter, computed := f.Forward(in, l, pos, neg)
		if computed {
			compute[neg] = 1
		} else {
			compute[neg] = -1
		}
		if neg == 0 && inter.Disregard(pos) {
			return
		}
		predicted[neg] = uint16(f.forwardFrom(inter, l+2).Feature(0)) & mask
	}
	if predicted[0] == output && predicted[1] == output {
		// we are correct anyway
		return
	}
	for neg := 0; neg < 2; neg++ {
		if predicted[neg] == output {
			// shift to correct output
			tally.AddToCorrect(ifw, compute[neg], neg == 1)
			return
		}
	}
	// shift towards better
	switch l0, l1 := loss(predicted[0], output), loss(predicted[1], output); {
	case l0 < l1:
		tally.AddToImprove(ifw, compute[0])
	case l1 < l0:
		tally.AddToImprove(ifw, compute[1])
	}
}

// GetBits reports the number of bits predicted by this network
func (f FeedforwardNetwork) GetBits() (ret byte) {
	if len(f.mapping) == 0 {
		return 1
	}
	ret = f.mapping[len(f.mapping)-1]
	if ret == 0 {
		ret = 1
	}
	return
}

// GetClasses reports the number of classes the network can represent
func (f FeedforwardNetwork) GetClasses() uint16 {
	return uint16(1) << f.GetBits()
}
