package models

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"

func testConfig() config.ModelConfig {
	return config.ModelConfig{
		Patches:      config.PatchesConfig{Size: []int{1, 4}},
		NumHeads:     2,
		Premodulo:    4096,
		QuantizeBits: 2,
		Pool:         []int{1, 2},
	}
}

var coverageMeta = datasets.MetaData{NumClasses: 3, Height: 1, Width: 32}

func TestClassBits(t *testing.T) {
	for classes, want := range map[int]byte{2: 1, 3: 2, 4: 2, 5: 3, 256: 8} {
		assert.Equal(t, want, ClassBits(classes), "classes %d", classes)
	}
}

func TestClassesBuild(t *testing.T) {
	for _, tc := range []struct {
		class     *Class
		hashtrons int
	}{
		{ViTClassificationModel, 16 + 16 + 2 + 1},
		{XViTClassificationModel, 16 + 16 + 16 + 2 + 1},
		{TopologicalViTClassificationModel, 16 + 8 + 8 + 2 + 1},
	} {
		t.Run(tc.class.Name, func(t *testing.T) {
			m, err := tc.class.New(testConfig(), coverageMeta)
			require.NoError(t, err)
			assert.Equal(t, tc.hashtrons, m.Hashtrons())
			assert.Equal(t, byte(2), m.Network.GetBits())
			assert.Same(t, tc.class, m.Class)
			assert.Equal(t, tc.class.Name, tc.class.String())

			e := datasets.Example{Image: make([]uint8, 32), Height: 1, Width: 32, Label: 2}
			assert.Less(t, m.Predict(e), uint16(4))
		})
	}
}

func TestPatchMustDivideImage(t *testing.T) {
	cfg := testConfig()
	cfg.Patches.Size = []int{1, 5}
	_, err := ViTClassificationModel.New(cfg, coverageMeta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not divide")
}

func TestPoolMustDividePatchGrid(t *testing.T) {
	cfg := testConfig()
	cfg.Pool = []int{1, 3}
	_, err := TopologicalViTClassificationModel.New(cfg, coverageMeta)
	require.Error(t, err)
}

func TestNewValidates(t *testing.T) {
	cfg := testConfig()
	cfg.NumHeads = 0
	_, err := ViTClassificationModel.New(cfg, coverageMeta)
	require.Error(t, err)

	_, err = ViTClassificationModel.New(testConfig(), datasets.MetaData{NumClasses: 1, Height: 1, Width: 32})
	require.Error(t, err)

	cfg = testConfig()
	cfg.QuantizeBits = 9
	_, err = ViTClassificationModel.New(cfg, coverageMeta)
	require.Error(t, err)
}

func TestTokens(t *testing.T) {
	p, err := newPatching(testConfig(), datasets.MetaData{NumClasses: 3, Height: 2, Width: 8})
	require.NoError(t, err)
	e := datasets.Example{
		Image: []uint8{
			255, 0, 64, 128, 0, 0, 0, 0,
			0, 0, 0, 0, 192, 192, 192, 192,
		},
		Height: 2, Width: 8,
	}
	tokens := p.tokens(e)
	require.Len(t, tokens, 4)
	assert.Equal(t, uint32(0b11_00_01_10), tokens[0])
	assert.Equal(t, uint32(0), tokens[1])
	assert.Equal(t, uint32(0), tokens[2])
	assert.Equal(t, uint32(0b11_11_11_11), tokens[3])

	cfg := testConfig()
	cfg.Patches.Size = []int{2, 8}
	cfg.QuantizeBits = 8
	big, err := newPatching(cfg, datasets.MetaData{NumClasses: 3, Height: 2, Width: 8})
	require.NoError(t, err)
	a := big.tokens(e)
	e.Image[15] = 0
	assert.NotEqual(t, a, big.tokens(e), "folded tokens still depend on every pixel")
}

func TestSampleFeatureWrapsHeads(t *testing.T) {
	m, err := ViTClassificationModel.New(testConfig(), coverageMeta)
	require.NoError(t, err)
	e := datasets.Example{Image: make([]uint8, 32), Height: 1, Width: 32, Label: 1}
	e.Image[0] = 255
	s := m.Sample(e)
	assert.Equal(t, s.Feature(0), s.Feature(8))
	assert.Equal(t, uint16(1), s.Output())
}
