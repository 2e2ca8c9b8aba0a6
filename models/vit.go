package models

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/layer/crossattention"
import "github.com/neurlang/svvit/layer/full"
import "github.com/neurlang/svvit/net/feedforward"

// ViTClassificationModel attends over all patches of every head, pools
// every head into one feature and the heads into the class.
var ViTClassificationModel = &Class{
	Name:  "vit_classification",
	build: buildViT,
}

func buildViT(cfg config.ModelConfig, p patching, classes int) (*feedforward.FeedforwardNetwork, error) {
	var P, H = p.patches(), cfg.NumHeads
	var net feedforward.FeedforwardNetwork

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

// head pools P positions of H heads into the class hashtron
func head(net *feedforward.FeedforwardNetwork, cfg config.ModelConfig, P, H, classes int) error {
	perHead, err := full.New(P*H, byte(P), minBits(P))
	if err != nil {
		return err
	}
	net.NewCombiner(perHead)
	net.NewLayerP(H, 1, cfg.Premodulo)
	heads, err := full.New(H, byte(H), minBits(H))
	if err != nil {
		return err
	}
	net.NewCombiner(heads)
	net.NewLayerP(1, ClassBits(classes), 1<<16)
	return nil
}

func minBits(n int) byte {
	if n > 16 {
		return 16
	}
	return byte(n)
}
