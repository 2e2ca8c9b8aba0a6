package trainer

import "context"
import "math/rand"
import "sync"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/svvit/checkpoint"
import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/rng"
import "github.com/neurlang/svvit/trainutils"

// recordingWriter keeps everything written to it
type recordingWriter struct {
	mu      sync.Mutex
	scalars map[int]map[string]float64
	hparams map[string]any
	flushes int
	// evals counts validation writes per step
	evals map[int]int
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{scalars: make(map[int]map[string]float64), evals: make(map[int]int)}
}

func (w *recordingWriter) WriteScalars(step int, scalars map[string]float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scalars[step] == nil {
		w.scalars[step] = make(map[string]float64)
	}
	if _, ok := scalars["valid/accuracy"]; ok {
		w.evals[step]++
	}
	for k, v := range scalars {
		w.scalars[step][k] = v
	}
	return nil
}

func (w *recordingWriter) WriteHParams(params map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hparams = params
	return nil
}

func (w *recordingWriter) Flush() error {
	w.flushes++
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func (w *recordingWriter) has(key string) bool {
	for _, s := range w.scalars {
		if _, ok := s[key]; ok {
			return true
		}
	}
	return false
}

func testParams(t *testing.T, steps int) (Params, *recordingWriter) {
	cfg := &config.Config{
		ModelName:   "vit_classification",
		TrainerName: "greedy_trainer",
		DatasetName: "pileup_coverage",
		DatasetConfigs: config.DatasetConfigs{
			Synthetic: &config.SyntheticConfig{NumTrain: 24, NumEval: 6, NumTest: 6, Width: 8, Depth: 10},
		},
		Learning:         config.LearningConfig{Threads: 2, DeadlineMs: 200, MaxAttempts: 1 << 14},
		NumTrainingSteps: steps,
		LogSummarySteps:  1,
		LogEvalSteps:     1,
		CheckpointSteps:  1,
	}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	d, err := trainutils.GetDataset(context.Background(), cfg, rng.New(1), "")
	require.NoError(t, err)

	w := newRecordingWriter()
	return Params{
		Rng:        rng.New(2),
		Config:     cfg,
		ModelClass: models.ViTClassificationModel,
		Dataset:    d,
		Workdir:    t.TempDir(),
		Writer:     w,
	}, w
}

func TestGreedyTrains(t *testing.T) {
	p, w := testParams(t, 2)
	require.NoError(t, Greedy(context.Background(), p))

	latest, err := checkpoint.Open(checkpoint.Dir(p.Workdir)).Latest()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, latest, 1)
	assert.LessOrEqual(t, latest, 2)

	assert.Equal(t, "vit_classification", w.hparams["model_name"])
	assert.True(t, w.has("train_accuracy"))
	assert.True(t, w.has("valid/accuracy"))
	assert.Positive(t, w.flushes)
}

func TestFinalStepWrittenOnce(t *testing.T) {
	p, w := testParams(t, 2)
	require.NoError(t, Greedy(context.Background(), p))

	require.NotEmpty(t, w.evals)
	for step, n := range w.evals {
		assert.Equal(t, 1, n, "step %d evaluated more than once", step)
	}
	store := checkpoint.Open(checkpoint.Dir(p.Workdir))
	steps := store.Steps()
	assert.Len(t, steps, len(w.evals), "one checkpoint per trained step")
}

func TestRunWithoutStepsLeft(t *testing.T) {
	p, _ := testParams(t, 2)
	require.NoError(t, Greedy(context.Background(), p))

	store := checkpoint.Open(checkpoint.Dir(p.Workdir))
	latest, err := store.Latest()
	require.NoError(t, err)
	before, err := store.Load(latest)
	require.NoError(t, err)

	w := newRecordingWriter()
	p.Writer = w
	require.NoError(t, Greedy(context.Background(), p))

	again, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, latest, again)
	after, err := store.Load(again)
	require.NoError(t, err)
	assert.Equal(t, before.Accuracy, after.Accuracy, "the stored accuracy is kept")
	assert.Empty(t, w.evals)
	assert.Positive(t, w.flushes)
}

// every model class improves on its untrained accuracy over a few greedy steps
func TestRunLearns(t *testing.T) {
	for _, class := range []*models.Class{
		models.ViTClassificationModel,
		models.XViTClassificationModel,
		models.TopologicalViTClassificationModel,
	} {
		t.Run(class.Name, func(t *testing.T) {
			const steps = 12
			p, w := testParams(t, steps)
			p.Config.ModelName = class.Name
			p.ModelClass = class
			p.Config.LogEvalSteps = 0
			p.Config.CheckpointSteps = 0

			m, err := class.New(p.Config.Model, p.Dataset.Meta)
			require.NoError(t, err)
			untrained, _ := Evaluate(m, p.Dataset.Train, 2)

			require.NoError(t, Run(context.Background(), p, Options{Model: m}))

			trained, _ := Evaluate(m, p.Dataset.Train, 2)
			assert.Greater(t, trained.Accuracy(), untrained.Accuracy())
			assert.Greater(t, trained.Accuracy(), 1.0/3, "better than guessing among three genotypes")

			// a retrain that loses accuracy is undone, so the summary never drops
			last := 0.0
			for step := 1; step <= steps; step++ {
				s, ok := w.scalars[step]
				if !ok {
					break
				}
				assert.GreaterOrEqual(t, s["train_accuracy"], last, "step %d", step)
				last = s["train_accuracy"]
			}
			assert.InDelta(t, trained.Accuracy(), last, 1e-9)
		})
	}
}

func TestResume(t *testing.T) {
	p, _ := testParams(t, 1)

	m, step, err := Resume(context.Background(), p)
	require.NoError(t, err)
	assert.Zero(t, step, "empty workdir builds a new model")
	assert.Equal(t, 2*2+2*2+2+1, m.Hashtrons())

	require.NoError(t, Layerwise(context.Background(), p))

	m, step, err = Resume(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, step)
	assert.Same(t, models.ViTClassificationModel, m.Class)

	p.Dataset.Meta.Width = 16
	_, _, err = Resume(context.Background(), p)
	assert.Error(t, err, "checkpoint of other image shape")
}

func TestRunCancelled(t *testing.T) {
	p, _ := testParams(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, p, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrders(t *testing.T) {
	p, _ := testParams(t, 1)
	m, err := p.ModelClass.New(p.Config.Model, p.Dataset.Meta)
	require.NoError(t, err)
	net := m.Network
	r := rand.New(rand.NewSource(1))

	branch := BranchOrder(net, r, 0)
	assert.Len(t, branch, net.LenHashtronLayers(), "one hashtron per hashtron layer")
	assert.Equal(t, net.Len()-1, branch[len(branch)-1], "branch ends at the output hashtron")

	frozen := net.GetHashtronLayerStart(1)
	for _, n := range BranchOrder(net, r, frozen) {
		assert.GreaterOrEqual(t, n, frozen)
	}

	sweep := SweepOrder(net, r, frozen)
	assert.Len(t, sweep, net.Len()-frozen)
	assert.Equal(t, net.Len()-1, sweep[0], "sweep starts at the output hashtron")
}

func TestEvaluate(t *testing.T) {
	p, _ := testParams(t, 1)
	m, err := p.ModelClass.New(p.Config.Model, p.Dataset.Meta)
	require.NoError(t, err)

	conf, state := Evaluate(m, p.Dataset.Train, 2)
	assert.Equal(t, float64(len(p.Dataset.Train)), conf.Total())
	_, again := Evaluate(m, p.Dataset.Train, 3)
	assert.Equal(t, state, again, "the state digest doesn't depend on threads")
}

func TestSampleSize(t *testing.T) {
	assert.Equal(t, 1000, sampleSize(1000, 0))
	assert.Equal(t, 1000, sampleSize(1000, 100))
	n := sampleSize(1000, 95)
	assert.Positive(t, n)
	assert.Less(t, n, 1000)
	// the finite population correction truncates, 9.99 becomes 9
	assert.Equal(t, 9, sampleSize(10, 99))
}

func TestRegistry(t *testing.T) {
	assert.Contains(t, Names(), "greedy_trainer")
	assert.Contains(t, Names(), "layerwise_trainer")

	_, err := Get("greedy_trainer")
	require.NoError(t, err)
	_, err = Get("adam")
	assert.ErrorIs(t, err, ErrUnknownTrainer)

	assert.Panics(t, func() { Register("greedy_trainer", Greedy) })
}
