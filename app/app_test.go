package app

import "context"
import "os"
import "path/filepath"
import "testing"

import "github.com/go-logr/logr"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/metricwriter"
import "github.com/neurlang/svvit/rng"

const testConfig = `
model_name: vit_classification
trainer_name: greedy_trainer
dataset_name: pileup_coverage
dataset_configs:
  synthetic:
    width: 16
`

func testArgs(t *testing.T) Args {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return Args{
		Config:   path,
		Workdir:  filepath.Join(dir, "work"),
		Seed:     7,
		LogLevel: "error",

		DatasetServiceAddress: "localhost:7070",
	}
}

func TestExecute(t *testing.T) {
	args := testArgs(t)

	var called bool
	err := Execute(context.Background(), args, func(ctx context.Context, key rng.Key, cfg *config.Config, workdir string, writer metricwriter.MetricWriter) error {
		called = true
		assert.Equal(t, rng.New(7), key)
		assert.Equal(t, "vit_classification", cfg.ModelName)
		assert.Equal(t, args.Workdir, workdir)
		assert.DirExists(t, workdir)
		assert.NotEmpty(t, RunID)
		assert.Equal(t, "localhost:7070", Flags.DatasetServiceAddress, "flags are visible to the trainers")
		assert.Equal(t, args, Flags)

		_, err := logr.FromContext(ctx)
		assert.NoError(t, err, "logger is carried in the context")

		require.NoError(t, writer.WriteScalars(1, map[string]float64{"train_accuracy": 0.5}))
		return writer.Flush()
	})
	require.NoError(t, err)
	require.True(t, called)

	data, err := os.ReadFile(filepath.Join(args.Workdir, "metrics.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "train_accuracy")
}

func TestExecuteReturnsMainError(t *testing.T) {
	want := assert.AnError
	err := Execute(context.Background(), testArgs(t), func(context.Context, rng.Key, *config.Config, string, metricwriter.MetricWriter) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestExecuteBadConfig(t *testing.T) {
	args := testArgs(t)
	args.Config = filepath.Join(t.TempDir(), "missing.yaml")
	err := Execute(context.Background(), args, func(context.Context, rng.Key, *config.Config, string, metricwriter.MetricWriter) error {
		t.Fatal("main must not run")
		return nil
	})
	assert.Error(t, err)
}

func TestNewZapLogger(t *testing.T) {
	zl, err := NewZapLogger("info", 2)
	require.NoError(t, err)
	logger := NewLogger(zl)
	assert.True(t, logger.V(2).Enabled())
	assert.False(t, logger.V(3).Enabled())

	_, err = NewZapLogger("loud", 0)
	assert.Error(t, err)
}
