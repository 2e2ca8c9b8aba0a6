// Package transfertrainer fine tunes a model restored from another
// experiment's checkpoint, keeping its lowest hashtron layers frozen.
package transfertrainer

import "context"

import "github.com/go-logr/logr"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/checkpoint"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/trainer"

// ErrNoInitCheckpoint is returned when init_from names no checkpoint directory
var ErrNoInitCheckpoint = errors.New("transfer trainer needs init_from.checkpoint_path")

// Train restores the init_from checkpoint, or resumes the working directory
// of an interrupted transfer, and retrains the layers above the frozen ones.
func Train(ctx context.Context, p trainer.Params) error {
	var logger = logr.FromContextOrDiscard(ctx)
	var cfg = p.Config

	m, step, err := restore(ctx, p)
	if err != nil {
		return err
	}
	var net = m.Network
	var frozenLayers = cfg.Transfer.FreezeLayers
	if frozenLayers >= net.LenHashtronLayers() {
		return errors.Errorf("cannot freeze %d of %d hashtron layers", frozenLayers, net.LenHashtronLayers())
	}
	var frozen = net.GetHashtronLayerStart(frozenLayers)
	logger.Info("transfer", "frozen_layers", frozenLayers, "frozen_hashtrons", frozen, "hashtrons", net.Len(), "step", step)

	return trainer.Run(ctx, p, trainer.Options{
		Order:     trainer.SweepOrder,
		Model:     m,
		StartStep: step,
		Frozen:    frozen,
		Balance:   true,
	})
}

// restore prefers the working directory so an interrupted transfer continues
func restore(ctx context.Context, p trainer.Params) (*models.Model, int, error) {
	var logger = logr.FromContextOrDiscard(ctx)
	var cfg = p.Config

	if _, err := checkpoint.Open(checkpoint.Dir(p.Workdir)).Latest(); err == nil {
		return trainer.Resume(ctx, p)
	} else if !errors.Is(err, checkpoint.ErrNoCheckpoint) {
		return nil, 0, err
	}

	if cfg.InitFrom.CheckpointPath == "" {
		return nil, 0, ErrNoInitCheckpoint
	}
	m, state, err := checkpoint.RestoreModel(cfg.InitFrom.CheckpointPath, cfg.InitFrom.Step, cfg.Model, p.ModelClass)
	if err != nil {
		return nil, 0, errors.Wrap(err, "restore init_from")
	}
	if err := compatible(state.Meta, p.Dataset.Meta); err != nil {
		return nil, 0, err
	}
	logger.Info("restored init_from", "dir", cfg.InitFrom.CheckpointPath, "step", state.Step, "accuracy", state.Accuracy)

	if cfg.Transfer.ResetHead {
		m.Network.ForgetLayer(m.Network.LenLayers() - 1)
	}
	return m, 0, nil
}

func compatible(from, to datasets.MetaData) error {
	if from.NumClasses != to.NumClasses || from.Height != to.Height || from.Width != to.Width {
		return errors.Errorf("init_from model takes %d classes of %dx%d images, dataset has %d classes of %dx%d images",
			from.NumClasses, from.Height, from.Width, to.NumClasses, to.Height, to.Width)
	}
	return nil
}
