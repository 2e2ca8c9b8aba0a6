package trainer

import "context"
import "math/rand"

import "github.com/cheggaaa/pb/v3"
import "github.com/go-logr/logr"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/app"
import "github.com/neurlang/svvit/checkpoint"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/learning"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/net/feedforward"
import "github.com/neurlang/svvit/parallel"
import "github.com/neurlang/svvit/rng"
import "github.com/neurlang/svvit/trainutils"

// Options customize the training loop
type Options struct {
	// Order lists the hashtrons retrained in one step, none below first
	Order func(net *feedforward.FeedforwardNetwork, r *rand.Rand, first int) []int

	// Model is trained when set, otherwise Run resumes from the working directory
	Model *models.Model

	// StartStep is the step Model was saved at
	StartStep int

	// Frozen is the number of lowest hashtrons never retrained
	Frozen int

	// Balance oversamples the minority classes of every step
	Balance bool

	// Significance below 100 evaluates training accuracy on a sample only
	Significance byte
}

// BranchOrder retrains one random hashtron per layer, from the input to the output
func BranchOrder(net *feedforward.FeedforwardNetwork, r *rand.Rand, first int) []int {
	return net.Branch(r, first, false)
}

// SweepOrder retrains every hashtron, from the output layer back to the input
func SweepOrder(net *feedforward.FeedforwardNetwork, r *rand.Rand, first int) []int {
	return net.Shuffle(r, first, true)
}

// hparams are the hyper parameters reported to the metric writer
func hparams(p Params, m *models.Model) map[string]any {
	var cfg = p.Config
	return map[string]any{
		"model_name":         cfg.ModelName,
		"trainer_name":       cfg.TrainerName,
		"dataset_name":       cfg.DatasetName,
		"num_heads":          cfg.Model.NumHeads,
		"patches":            cfg.Model.Patches.Size,
		"premodulo":          cfg.Model.Premodulo,
		"quantize_bits":      cfg.Model.QuantizeBits,
		"num_training_steps": cfg.NumTrainingSteps,
		"hashtrons":          m.Hashtrons(),
	}
}

// stepExamples draws the training examples of one step
func stepExamples(p Params, opts Options, key rng.Key) []datasets.Example {
	if opts.Balance {
		return trainutils.TrainSubset(p.Config, p.Dataset, key)
	}
	return datasets.Subset(p.Dataset.Train, p.Config.TrainSubsetSize, key.Rand())
}

// Run trains a model for the configured number of steps. Every step
// retrains the hashtrons listed by opts.Order one by one, keeping a new
// hashtron only if the training accuracy doesn't drop and the model doesn't
// return to a known local minimum.
func Run(ctx context.Context, p Params, opts Options) (err error) {
	var cfg = p.Config
	var logger = logr.FromContextOrDiscard(ctx).WithValues("trainer", cfg.TrainerName, "model", p.ModelClass.Name)
	ctx = logr.NewContext(ctx, logger)

	if opts.Order == nil {
		opts.Order = BranchOrder
	}
	var m, step = opts.Model, opts.StartStep
	if m == nil {
		if m, step, err = Resume(ctx, p); err != nil {
			return err
		}
	}
	var net = m.Network
	var hyper = learning.FromConfig(cfg.Learning)
	var store = checkpoint.Open(checkpoint.Dir(p.Workdir))
	var threads = cfg.Learning.Threads

	var save = func(step int, accuracy float64) error {
		var state = checkpoint.State{Step: step, Model: m.Class.Name, Meta: p.Dataset.Meta, Accuracy: accuracy, RunID: app.RunID}
		if err := store.Save(state, net, cfg.MaxCheckpointsToKeep); err != nil {
			return err
		}
		logger.V(1).Info("saved checkpoint", "step", step)
		return nil
	}
	var evalValid = func(step int) error {
		if len(p.Dataset.Valid) == 0 {
			return nil
		}
		conf, _ := Evaluate(m, p.Dataset.Valid, threads)
		logger.Info("evaluated", "step", step, "valid_accuracy", conf.Accuracy(), "macro_f1", conf.MacroF1())
		return p.Writer.WriteScalars(step, conf.Scalars("valid"))
	}

	if err := p.Writer.WriteHParams(hparams(p, m)); err != nil {
		return errors.Wrap(err, "write hparams")
	}

	var bar *pb.ProgressBar
	if app.Flags.Progress {
		bar = pb.StartNew(cfg.NumTrainingSteps)
		bar.SetCurrent(int64(step))
		defer bar.Finish()
	}

	var moves = parallel.NewMoveSet()
	var localMinimums = make(map[[32]byte]struct{})
	var accuracy float64
	var start, evaluated, saved = step, step, step
	var fullTrain = cfg.TrainSubsetSize == 0 || cfg.TrainSubsetSize >= len(p.Dataset.Train)

	for step < cfg.NumTrainingSteps {
		if err := ctx.Err(); err != nil {
			return err
		}
		step++
		var key = rng.Fold(p.Rng, uint64(step))
		var examples = stepExamples(p, opts, key)
		var samples = make([]models.Sample, len(examples))
		for i := range examples {
			samples[i] = m.Sample(examples[i])
		}

		var evaluate = NewEvaluateFunc(m, examples, opts.Significance, threads)
		var trainWorst = NewTrainWorstFunc(net, hyper, func(worst int, tally *datasets.Tally) {
			parallel.ForEachChunk(len(samples), threads, func(begin, end int) {
				for i := begin; i < end; i++ {
					net.Tally(samples[i], worst, tally)
				}
			})
		})

		var state [32]byte
		accuracy, state = evaluate()
		var improved bool
		for _, worst := range opts.Order(net, key.Rand(), opts.Frozen) {
			var level = byte(accuracy * 100)
			if moves.Exists(state, worst, level) {
				continue
			}
			undo, err := trainWorst(ctx, worst)
			moves.Insert(state, worst, level)
			if errors.Is(err, learning.ErrNoSolution) {
				logger.V(1).Info("hashtron not retrained", "step", step, "hashtron", worst, "reason", err.Error())
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "retrain hashtron %d", worst)
			}
			if undo == nil {
				continue
			}
			var newAccuracy, newState = evaluate()
			if _, bad := localMinimums[newState]; bad || newAccuracy < accuracy {
				undo()
				continue
			}
			logger.V(1).Info("retrained hashtron", "step", step, "hashtron", worst, "accuracy", newAccuracy)
			improved = improved || newAccuracy > accuracy
			accuracy, state = newAccuracy, newState
		}
		if !improved {
			// algorithm stuck in local minimum, don't come back to it
			localMinimums[state] = struct{}{}
		}

		if cfg.LogSummarySteps > 0 && step%cfg.LogSummarySteps == 0 {
			if err := p.Writer.WriteScalars(step, map[string]float64{
				"train_accuracy": accuracy,
				"local_minimums": float64(len(localMinimums)),
			}); err != nil {
				return errors.Wrap(err, "write summary")
			}
		}
		if cfg.LogEvalSteps > 0 && step%cfg.LogEvalSteps == 0 {
			if err := evalValid(step); err != nil {
				return errors.Wrap(err, "write evaluation")
			}
			evaluated = step
		}
		if cfg.CheckpointSteps > 0 && step%cfg.CheckpointSteps == 0 {
			if err := save(step, accuracy); err != nil {
				return err
			}
			saved = step
		}
		if bar != nil {
			bar.Increment()
		}
		if accuracy >= 1 && fullTrain {
			logger.Info("max accuracy reached", "step", step)
			break
		}
	}

	// nothing trained in this run, the stored checkpoint stays as it is
	if step == start {
		logger.Info("no training steps left", "step", step)
		return errors.Wrap(p.Writer.Flush(), "flush metrics")
	}
	if evaluated != step {
		if err := evalValid(step); err != nil {
			return errors.Wrap(err, "write evaluation")
		}
	}
	if saved != step {
		if err := save(step, accuracy); err != nil {
			return err
		}
	}
	logger.Info("training done", "step", step, "train_accuracy", accuracy)
	return errors.Wrap(p.Writer.Flush(), "flush metrics")
}
