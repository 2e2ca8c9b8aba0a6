// Package trainutils holds helpers shared by the trainers and the runner.
package trainutils

import "context"
import "time"

import "github.com/go-logr/logr"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/datasets/service"
import "github.com/neurlang/svvit/rng"

// registered datasets
import _ "github.com/neurlang/svvit/datasets/pileupcoverage"
import _ "github.com/neurlang/svvit/datasets/pileupwindow"

// GetDataset builds the dataset named by cfg. With an empty serviceAddress
// the builder runs in process, otherwise the dataset is streamed from the
// dataset service.
func GetDataset(ctx context.Context, cfg *config.Config, key rng.Key, serviceAddress string) (*datasets.Dataset, error) {
	logger := logr.FromContextOrDiscard(ctx)
	start := time.Now()

	var (
		d   *datasets.Dataset
		err error
	)
	if serviceAddress == "" {
		var builder datasets.Builder
		if builder, err = datasets.Lookup(cfg.DatasetName); err != nil {
			return nil, err
		}
		d, err = builder(ctx, cfg.DatasetConfigs, key.Rand())
		err = errors.Wrapf(err, "build dataset %s", cfg.DatasetName)
	} else {
		d, err = service.Fetch(ctx, serviceAddress, service.Request{
			Name:    cfg.DatasetName,
			Configs: cfg.DatasetConfigs,
			Seed:    uint64(key),
		})
	}
	if err != nil {
		return nil, err
	}
	logger.Info("dataset ready",
		"dataset", cfg.DatasetName,
		"train", d.Meta.NumTrainExamples,
		"valid", d.Meta.NumEvalExamples,
		"test", d.Meta.NumTestExamples,
		"height", d.Meta.Height,
		"width", d.Meta.Width,
		"took", time.Since(start))
	return d, nil
}

// TrainSubset draws the training examples used for one step, balanced
// across classes and capped by cfg.TrainSubsetSize.
func TrainSubset(cfg *config.Config, d *datasets.Dataset, key rng.Key) []datasets.Example {
	r := key.Rand()
	examples := datasets.BalanceClasses(d.Train, d.Meta.NumClasses, r)
	return datasets.Subset(examples, cfg.TrainSubsetSize, r)
}
