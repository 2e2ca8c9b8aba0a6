package datasets

import "compress/gzip"
import "context"
import "math/rand"
import "os"
import "path/filepath"
import "testing"

import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/svvit/config"

func TestSplitAndBalance(t *testing.T) {
	set := Set{1: true, 2: false, 3: false, 4: false}
	sd := set.Split()
	require.Len(t, sd[0], 3)
	require.Len(t, sd[1], 1)

	sd = Balance(sd, rand.New(rand.NewSource(1)))
	require.Len(t, sd[0], 3)
	require.Len(t, sd[1], 3)
	for k := range sd[1] {
		_, clash := sd[0][k]
		require.False(t, clash)
	}
}

func TestTallyMajority(t *testing.T) {
	tally := NewTally()
	tally.AddToCorrect(1, 1, false)
	tally.AddToCorrect(1, 1, false)
	tally.AddToCorrect(1, -1, false)
	tally.AddToCorrect(2, -1, true)
	tally.AddToCorrect(3, 1, false)
	tally.AddToCorrect(3, -1, false)
	tally.AddToImprove(2, 1)
	tally.AddToImprove(4, 1)

	require.True(t, tally.GetImprovementPossible())
	set := tally.Set()
	assert.Equal(t, Set{1: true, 2: false, 4: true}, set, "correct votes override improve votes, ties are dropped")
}

func TestBalanceClasses(t *testing.T) {
	examples := []Example{{Label: 0}, {Label: 0}, {Label: 0}, {Label: 2}}
	out := BalanceClasses(examples, 3, rand.New(rand.NewSource(3)))
	assert.Equal(t, []int{3, 0, 3}, ClassCounts(out, 3))
	assert.Len(t, examples, 4)
}

func TestSplitValidAndSubset(t *testing.T) {
	examples := make([]Example, 100)
	for i := range examples {
		examples[i].Label = uint16(i % 3)
	}
	r := rand.New(rand.NewSource(5))
	train, valid := SplitValid(examples, 0.2, r)
	assert.Len(t, train, 80)
	assert.Len(t, valid, 20)

	assert.Len(t, Subset(examples, 10, r), 10)
	assert.Len(t, Subset(examples, 0, r), 100)
}

func TestRegistry(t *testing.T) {
	builder := func(ctx context.Context, cfg config.DatasetConfigs, r *rand.Rand) (*Dataset, error) {
		return &Dataset{}, nil
	}
	Register("registry_test_dataset", builder)
	require.Panics(t, func() { Register("registry_test_dataset", builder) })

	_, err := Lookup("registry_test_dataset")
	require.NoError(t, err)
	assert.Contains(t, Names(), "registry_test_dataset")

	_, err = Lookup("missing")
	require.True(t, errors.Is(err, ErrUnknownDataset))
	assert.Contains(t, err.Error(), "missing")
}

func TestReadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.tsv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("# comment\n1\t10,20,30\n\n2\t0,0,300\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	examples, err := ReadTSV(path, func(label uint16, payload string) (Example, error) {
		values, err := ParseInts(payload)
		if err != nil {
			return Example{}, err
		}
		e := Example{Height: 1, Width: len(values), Label: label}
		for _, v := range values {
			e.Image = append(e.Image, Scale(v, 30))
		}
		return e, nil
	})
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, uint16(1), examples[0].Label)
	assert.Equal(t, []uint8{85, 170, 255}, examples[0].Image)
	assert.Equal(t, uint8(255), examples[1].At(0, 2))
	require.NoError(t, CheckShapes(examples, 1, 3, 3))
	require.Error(t, CheckShapes(examples, 1, 3, 2))
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestReadTSVErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tsv")
	require.NoError(t, os.WriteFile(path, []byte("x\t1,2\n"), 0o644))
	_, err := ReadTSV(path, func(uint16, string) (Example, error) { return Example{}, nil })
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("1 1,2\n"), 0o644))
	_, err = ReadTSV(path, func(uint16, string) (Example, error) { return Example{}, nil })
	require.Error(t, err)
}
