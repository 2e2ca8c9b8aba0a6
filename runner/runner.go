// Package runner resolves the model and trainer named by an experiment
// configuration and dispatches the run to the training or evaluation
// routine.
package runner

import "context"

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/app"
import "github.com/neurlang/svvit/classificationtrainer"
import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/inference"
import "github.com/neurlang/svvit/metricwriter"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/rng"
import "github.com/neurlang/svvit/trainer"
import "github.com/neurlang/svvit/transfertrainer"
import "github.com/neurlang/svvit/trainutils"

const (
	ClassificationTrainer = "classification_trainer"
	TransferTrainer       = "transfer_trainer"
)

// ErrInvalidArgument is returned for model names without a model class
var ErrInvalidArgument = errors.New("invalid argument")

// GetModelClass returns the model class registered under name
func GetModelClass(name string) (*models.Class, error) {
	switch name {
	case "xvit_classification":
		return models.XViTClassificationModel, nil
	case "vit_classification":
		return models.ViTClassificationModel, nil
	case "topological_vit_classification":
		return models.TopologicalViTClassificationModel, nil
	}
	return nil, errors.Wrapf(ErrInvalidArgument, "unrecognized model: %s", name)
}

// GetTrainer returns the training routine called name. Names other than the
// classification and transfer trainers are looked up in the generic registry.
func GetTrainer(name string) (trainer.TrainFunc, error) {
	switch name {
	case ClassificationTrainer:
		return classificationtrainer.Train, nil
	case TransferTrainer:
		return transfertrainer.Train, nil
	}
	return trainer.Get(name)
}

// Runner dispatches runs to its collaborators
type Runner struct {
	GetModelClass func(name string) (*models.Class, error)
	GetTrainer    func(name string) (trainer.TrainFunc, error)
	GetDataset    func(ctx context.Context, cfg *config.Config, key rng.Key, serviceAddress string) (*datasets.Dataset, error)
	Evaluate      func(ctx context.Context, p inference.Params) error
}

// Default is the runner wired to the real collaborators
var Default = Runner{
	GetModelClass: GetModelClass,
	GetTrainer:    GetTrainer,
	GetDataset:    trainutils.GetDataset,
	Evaluate:      inference.Evaluate,
}

// Main runs the experiment of cfg with the default collaborators
func Main(ctx context.Context, key rng.Key, cfg *config.Config, workdir string, writer metricwriter.MetricWriter) error {
	return Default.Main(ctx, key, cfg, workdir, writer)
}

// Main resolves the model class, splits key into a dataset key and a run
// key, and either evaluates a trained model or builds the dataset and trains.
// Errors of the collaborators are returned unchanged.
func (r Runner) Main(ctx context.Context, key rng.Key, cfg *config.Config, workdir string, writer metricwriter.MetricWriter) error {
	modelClass, err := r.GetModelClass(cfg.ModelName)
	if err != nil {
		return err
	}
	dataKey, key := rng.Split(key)

	if cfg.TrainerName == config.InferenceTrainer {
		return r.Evaluate(ctx, inference.Params{
			Rng:        key,
			EvalConfig: cfg,
			ModelClass: modelClass,
			Workdir:    workdir,
			Writer:     writer,
		})
	}

	dataset, err := r.GetDataset(ctx, cfg, dataKey, app.Flags.DatasetServiceAddress)
	if err != nil {
		return err
	}
	train, err := r.GetTrainer(cfg.TrainerName)
	if err != nil {
		return err
	}
	return train(ctx, trainer.Params{
		Rng:        key,
		Config:     cfg,
		ModelClass: modelClass,
		Dataset:    dataset,
		Workdir:    workdir,
		Writer:     writer,
	})
}
