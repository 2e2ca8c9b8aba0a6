package models

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/layer/crossattention"
import "github.com/neurlang/svvit/net/feedforward"

// XViTClassificationModel adds a masked query/key/value attention block in
// front of the plain attention block of the ViT.
var XViTClassificationModel = &Class{
	Name:  "xvit_classification",
	build: buildXViT,
}

func buildXViT(cfg config.ModelConfig, p patching, classes int) (*feedforward.FeedforwardNetwork, error) {
	var P, H = p.patches(), cfg.NumHeads
	var net feedforward.FeedforwardNetwork

	net.NewLayerP(P*H, 1, cfg.Premodulo)
	qkv, err := crossattention.New4(P, H)
	if err != nil {
		return nil, err
	}
	net.NewCombiner(qkv)
	net.NewLayerP(P*H, 1, cfg.Premodulo)
	attention, err := crossattention.New(P, H)
	if err != nil {
		return nil, err
	}
	net.NewCombiner(attention)
	net.NewLayerP(P*H, 1, cfg.Premodulo)
	if err := head(&net, cfg, P, H, classes); err != nil {
		return nil, err
	}
	return &net, nil
}
