package trainutils

import "context"
import "net/http/httptest"
import "testing"

import "github.com/go-logr/logr"
import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/datasets/service"
import "github.com/neurlang/svvit/rng"

func syntheticConfig() *config.Config {
	return &config.Config{
		DatasetName: "pileup_coverage",
		DatasetConfigs: config.DatasetConfigs{
			Synthetic: &config.SyntheticConfig{NumTrain: 20, NumEval: 5, NumTest: 5, Width: 8, Depth: 10},
		},
	}
}

func TestGetDatasetLocal(t *testing.T) {
	d, err := GetDataset(context.Background(), syntheticConfig(), rng.New(1), "")
	require.NoError(t, err)
	assert.Equal(t, 20, d.Meta.NumTrainExamples)
	assert.Equal(t, 3, d.Meta.NumClasses)
}

func TestGetDatasetLocalIsDeterministic(t *testing.T) {
	a, err := GetDataset(context.Background(), syntheticConfig(), rng.New(5), "")
	require.NoError(t, err)
	b, err := GetDataset(context.Background(), syntheticConfig(), rng.New(5), "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGetDatasetUnknown(t *testing.T) {
	cfg := syntheticConfig()
	cfg.DatasetName = "nope"
	_, err := GetDataset(context.Background(), cfg, rng.New(1), "")
	require.True(t, errors.Is(err, datasets.ErrUnknownDataset))
}

func TestGetDatasetService(t *testing.T) {
	s, err := service.NewServer(logr.Discard(), 2)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	remote, err := GetDataset(context.Background(), syntheticConfig(), rng.New(9), ts.URL)
	require.NoError(t, err)
	local, err := GetDataset(context.Background(), syntheticConfig(), rng.New(9), "")
	require.NoError(t, err)
	assert.Equal(t, local.Meta, remote.Meta)
	assert.Equal(t, local.Train, remote.Train)
}

func TestTrainSubset(t *testing.T) {
	d, err := GetDataset(context.Background(), syntheticConfig(), rng.New(1), "")
	require.NoError(t, err)
	cfg := syntheticConfig()
	cfg.TrainSubsetSize = 6
	assert.Len(t, TrainSubset(cfg, d, rng.New(2)), 6)
}
