package pileupwindow

import "context"
import "math/rand"
import "os"
import "path/filepath"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"

func TestRegistered(t *testing.T) {
	_, err := datasets.Lookup(Name)
	require.NoError(t, err)
}

func TestBuildFromFile(t *testing.T) {
	train := filepath.Join(t.TempDir(), "train.tsv")
	require.NoError(t, os.WriteFile(train, []byte("2\t1,2,1;0,3,1\n0\t1,1,1;1,1,1\n"), 0o644))

	d, err := Build(context.Background(), config.DatasetConfigs{TrainPath: train, MaxCoverage: 3}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, d.Train, 2)
	assert.Equal(t, 2, d.Meta.Height)
	assert.Equal(t, 3, d.Meta.Width)
	for _, e := range d.Train {
		if e.Label == 2 {
			assert.Equal(t, []uint8{85, 170, 85, 0, 255, 85}, e.Image)
		}
	}
}

func TestBuildRejectsRaggedRows(t *testing.T) {
	train := filepath.Join(t.TempDir(), "train.tsv")
	require.NoError(t, os.WriteFile(train, []byte("1\t1,2,1;0,3\n"), 0o644))
	_, err := Build(context.Background(), config.DatasetConfigs{TrainPath: train, MaxCoverage: 3}, rand.New(rand.NewSource(1)))
	require.Error(t, err)
}

func TestBuildSynthetic(t *testing.T) {
	cfg := config.DatasetConfigs{Synthetic: &config.SyntheticConfig{NumTrain: 12, NumEval: 3, NumTest: 3, Width: 16, Height: 4}}
	d, err := Build(context.Background(), cfg, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.Equal(t, 4, d.Meta.Height)
	assert.Equal(t, 16, d.Meta.Width)
	for _, e := range d.Train {
		assert.Len(t, e.Image, 64)
	}
}
