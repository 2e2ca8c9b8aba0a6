package datasets

import "context"
import "math/rand"
import "strconv"
import "strings"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/svvit/config"

func mean(values []int) float64 {
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func TestSimulateCoverageDropsWithGenotype(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	begin, end := deletion(32)
	var inside [NumGenotypes]float64
	for label := uint16(0); label < NumGenotypes; label++ {
		track := SimulateCoverage(r, 32, 40, 0, label)
		require.Len(t, track, 32)
		inside[label] = mean(track[begin:end])
	}
	assert.Greater(t, inside[HomRef], inside[Het])
	assert.Greater(t, inside[Het], inside[HomAlt])
	assert.Zero(t, inside[HomAlt])
}

func TestSimulateReadsHomRefHasNoDeletions(t *testing.T) {
	rows := SimulateReads(rand.New(rand.NewSource(9)), 8, 16, 0, HomRef)
	require.Len(t, rows, 8)
	for _, row := range rows {
		require.Len(t, row, 16)
		assert.NotContains(t, row, ReadDeleted)
	}
}

func TestBuildSplitsSynthetic(t *testing.T) {
	cfg := config.DatasetConfigs{Synthetic: &config.SyntheticConfig{NumTrain: 10, NumEval: 4, NumTest: 3, Width: 8, Height: 1}}
	simulate := func(r *rand.Rand, s *config.SyntheticConfig, label uint16) Example {
		return Example{Image: make([]uint8, s.Width), Height: 1, Width: s.Width, Label: label}
	}
	d, err := BuildSplits(context.Background(), cfg, rand.New(rand.NewSource(1)), nil, simulate)
	require.NoError(t, err)
	assert.Equal(t, MetaData{NumClasses: 3, Height: 1, Width: 8, NumTrainExamples: 10, NumEvalExamples: 4, NumTestExamples: 3}, d.Meta)
}

func TestBuildSplitsRequiresSource(t *testing.T) {
	_, err := BuildSplits(context.Background(), config.DatasetConfigs{}, rand.New(rand.NewSource(1)), nil, nil)
	require.Error(t, err)
}

func TestBuildSplitsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.DatasetConfigs{Synthetic: &config.SyntheticConfig{NumTrain: 1}}
	_, err := BuildSplits(ctx, cfg, rand.New(rand.NewSource(1)), nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildSplitsCarvesValid(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, strconv.Itoa(i%3)+"\t1,2")
	}
	path := t.TempDir() + "/train.tsv"
	require.NoError(t, writeFile(path, strings.Join(lines, "\n")))

	parse := func(label uint16, payload string) (Example, error) {
		values, err := ParseInts(payload)
		if err != nil {
			return Example{}, err
		}
		e := Example{Height: 1, Width: len(values), Label: label}
		for _, v := range values {
			e.Image = append(e.Image, uint8(v))
		}
		return e, nil
	}
	cfg := config.DatasetConfigs{TrainPath: path, ValidFraction: 0.25}
	d, err := BuildSplits(context.Background(), cfg, rand.New(rand.NewSource(1)), parse, nil)
	require.NoError(t, err)
	assert.Len(t, d.Train, 15)
	assert.Len(t, d.Valid, 5)
	assert.Empty(t, d.Test)
}
