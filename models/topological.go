package models

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/layer/crossattention"
import "github.com/neurlang/svvit/layer/majpool2d"
import "github.com/neurlang/svvit/net/feedforward"

// TopologicalViTClassificationModel pools neighbouring patches by majority
// before attention, so attention runs over a coarser grid that keeps the
// layout of the image.
var TopologicalViTClassificationModel = &Class{
	Name:  "topological_vit_classification",
	build: buildTopologicalViT,
}

func buildTopologicalViT(cfg config.ModelConfig, p patching, classes int) (*feedforward.FeedforwardNetwork, error) {
	if len(cfg.Pool) != 2 || cfg.Pool[0] <= 0 || cfg.Pool[1] <= 0 {
		return nil, errors.New("pool must be two positive sizes [height, width]")
	}
	var ph, pw = cfg.Pool[0], cfg.Pool[1]
	if p.gh%ph != 0 || p.gw%pw != 0 {
		return nil, errors.Errorf("pool %dx%d does not divide patch grid %dx%d", ph, pw, p.gh, p.gw)
	}
	var P, H = p.patches(), cfg.NumHeads
	var net feedforward.FeedforwardNetwork

	net.NewLayerP(P*H, 1, cfg.Premodulo)
	pool, err := majpool2d.New(p.gw/pw, p.gh/ph, pw, ph, H)
	if err != nil {
		return nil, err
	}
	net.NewCombiner(pool)
	var Q = pool.Outputs()
	net.NewLayerP(Q*H, 1, cfg.Premodulo)
	attention, err := crossattention.New(Q, H)
	if err != nil {
		return nil, err
	}
	net.NewCombiner(attention)
	net.NewLayerP(Q*H, 1, cfg.Premodulo)
	if err := head(&net, cfg, Q, H, classes); err != nil {
		return nil, err
	}
	return &net, nil
}
