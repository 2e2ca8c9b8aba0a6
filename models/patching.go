package models

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/hash"

// patching cuts images into a grid of patches and turns patches into tokens.
type patching struct {
	// patch size
	ph, pw int
	// patch grid size
	gh, gw int
	// bits kept of every pixel
	quantize int
}

func newPatching(cfg config.ModelConfig, meta datasets.MetaData) (p patching, err error) {
	if len(cfg.Patches.Size) != 2 {
		return p, errors.New("patches.size must be [height, width]")
	}
	p.ph, p.pw = cfg.Patches.Size[0], cfg.Patches.Size[1]
	if p.ph <= 0 || p.pw <= 0 {
		return p, errors.Errorf("patch size %dx%d must be positive", p.ph, p.pw)
	}
	if meta.Height <= 0 || meta.Width <= 0 {
		return p, errors.Errorf("image size %dx%d must be positive", meta.Height, meta.Width)
	}
	if meta.Height%p.ph != 0 || meta.Width%p.pw != 0 {
		return p, errors.Errorf("patch size %dx%d does not divide image size %dx%d", p.ph, p.pw, meta.Height, meta.Width)
	}
	p.gh, p.gw = meta.Height/p.ph, meta.Width/p.pw
	if p.patches() > 255 {
		return p, errors.Errorf("%d patches, at most 255 are supported", p.patches())
	}
	p.quantize = cfg.QuantizeBits
	if p.quantize <= 0 || p.quantize > 8 {
		return p, errors.Errorf("quantize_bits must be 1 to 8, got %d", p.quantize)
	}
	return p, nil
}

func (p patching) patches() int {
	return p.gh * p.gw
}

// tokens returns one token per patch in row-major patch order. Patches
// fitting 32 bits are packed, bigger ones are folded.
func (p patching) tokens(e datasets.Example) []uint32 {
	var out = make([]uint32, p.patches())
	var shift = 8 - p.quantize
	var packed = p.ph*p.pw*p.quantize <= 32
	var values = make([]uint32, 0, p.ph*p.pw)
	for gy := 0; gy < p.gh; gy++ {
		for gx := 0; gx < p.gw; gx++ {
			values = values[:0]
			var token uint32
			for y := gy * p.ph; y < (gy+1)*p.ph; y++ {
				for x := gx * p.pw; x < (gx+1)*p.pw; x++ {
					var v = uint32(e.At(y, x) >> shift)
					token = token<<p.quantize | v
					values = append(values, v)
				}
			}
			if !packed {
				token = hash.Fold(values)
			}
			out[gy*p.gw+gx] = token
		}
	}
	return out
}
