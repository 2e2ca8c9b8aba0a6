// Package inference evaluates a trained model on the configured splits of a
// freshly built dataset.
package inference

import "bufio"
import "context"
import "fmt"
import "os"
import "path/filepath"

import "github.com/go-logr/logr"
import "github.com/pkg/errors"
import "golang.org/x/sync/errgroup"

import "github.com/neurlang/svvit/app"
import "github.com/neurlang/svvit/checkpoint"
import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/metrics"
import "github.com/neurlang/svvit/metricwriter"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/rng"
import "github.com/neurlang/svvit/trainer"
import "github.com/neurlang/svvit/trainutils"

// Params are the arguments of Evaluate
type Params struct {
	Rng        rng.Key
	EvalConfig *config.Config
	ModelClass *models.Class
	Workdir    string
	Writer     metricwriter.MetricWriter
}

// Result is the evaluation of one split
type Result struct {
	Split     string
	Confusion *metrics.Confusion
}

// Evaluate restores the newest checkpoint of the working directory, or the
// init_from checkpoint when the working directory has none, and evaluates it
// on every split of inference.splits. Metrics are written at the step of the
// checkpoint, predictions go to predictions_<split>.tsv in the working
// directory.
func Evaluate(ctx context.Context, p Params) error {
	_, err := Run(ctx, p)
	return err
}

// Run is Evaluate returning the per split results
func Run(ctx context.Context, p Params) ([]Result, error) {
	var cfg = p.EvalConfig
	var logger = logr.FromContextOrDiscard(ctx).WithValues("trainer", config.InferenceTrainer, "model", p.ModelClass.Name)

	m, state, err := restore(p)
	if err != nil {
		return nil, err
	}
	logger.Info("restored model", "step", state.Step, "accuracy", state.Accuracy)

	dataKey, _ := rng.Split(p.Rng)
	d, err := trainutils.GetDataset(ctx, cfg, dataKey, app.Flags.DatasetServiceAddress)
	if err != nil {
		return nil, err
	}
	if d.Meta.NumClasses != state.Meta.NumClasses || d.Meta.Height != state.Meta.Height || d.Meta.Width != state.Meta.Width {
		return nil, errors.Errorf("model takes %d classes of %dx%d images, dataset has %d classes of %dx%d images",
			state.Meta.NumClasses, state.Meta.Height, state.Meta.Width, d.Meta.NumClasses, d.Meta.Height, d.Meta.Width)
	}

	var results = make([]Result, len(cfg.Inference.Splits))
	g, gctx := errgroup.WithContext(ctx)
	for i, split := range cfg.Inference.Splits {
		i, split := i, split
		examples, ok := d.Split(split)
		if !ok {
			return nil, errors.Errorf("unknown split %q", split)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			conf, _ := trainer.Evaluate(m, examples, cfg.Learning.Threads)
			results[i] = Result{Split: split, Confusion: conf}
			return writePredictions(filepath.Join(p.Workdir, "predictions_"+split+".tsv"), m, examples)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		logger.Info("evaluated", "split", r.Split, "examples", r.Confusion.Total(),
			"accuracy", r.Confusion.Accuracy(), "macro_f1", r.Confusion.MacroF1())
		logger.V(1).Info("confusion matrix", "split", r.Split, "matrix", r.Confusion.String())
		if err := p.Writer.WriteScalars(state.Step, r.Confusion.Scalars(r.Split)); err != nil {
			return nil, errors.Wrap(err, "write scalars")
		}
	}
	if err := p.Writer.WriteHParams(map[string]any{
		"model_name":       cfg.ModelName,
		"dataset_name":     cfg.DatasetName,
		"checkpoint_step":  state.Step,
		"checkpoint_runid": state.RunID,
		"splits":           cfg.Inference.Splits,
	}); err != nil {
		return nil, errors.Wrap(err, "write hparams")
	}
	return results, errors.Wrap(p.Writer.Flush(), "flush metrics")
}

func restore(p Params) (*models.Model, checkpoint.State, error) {
	var cfg = p.EvalConfig
	m, state, err := checkpoint.RestoreModel(checkpoint.Dir(p.Workdir), 0, cfg.Model, p.ModelClass)
	if !errors.Is(err, checkpoint.ErrNoCheckpoint) || cfg.InitFrom.CheckpointPath == "" {
		return m, state, err
	}
	return checkpoint.RestoreModel(cfg.InitFrom.CheckpointPath, cfg.InitFrom.Step, cfg.Model, p.ModelClass)
}

func writePredictions(path string, m *models.Model, examples []datasets.Example) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create predictions")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# label\tprediction")
	for _, e := range examples {
		fmt.Fprintf(w, "%d\t%d\n", e.Label, m.Predict(e))
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "write predictions")
	}
	return errors.Wrap(f.Close(), "close predictions")
}
