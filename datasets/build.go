package datasets

import "context"
import "math/rand"

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"

// NumGenotypes is the number of classes of the pileup datasets
const NumGenotypes = 3

// ParseFunc turns the payload of a dataset line into an example
type ParseFunc func(label uint16, payload string) (Example, error)

// SimulateFunc draws one synthetic example of the given label
type SimulateFunc func(r *rand.Rand, s *config.SyntheticConfig, label uint16) Example

// BuildSplits builds the three splits of a pileup dataset either from files
// or, when cfg.Synthetic is set, by simulation.
func BuildSplits(ctx context.Context, cfg config.DatasetConfigs, r *rand.Rand, parse ParseFunc, simulate SimulateFunc) (*Dataset, error) {
	var d Dataset
	if s := cfg.Synthetic; s != nil {
		for _, split := range []struct {
			dst *[]Example
			n   int
		}{{&d.Train, s.NumTrain}, {&d.Valid, s.NumEval}, {&d.Test, s.NumTest}} {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for i := 0; i < split.n; i++ {
				*split.dst = append(*split.dst, simulate(r, s, uint16(r.Intn(NumGenotypes))))
			}
		}
	} else {
		if cfg.TrainPath == "" {
			return nil, errors.New("dataset_configs: train_path or synthetic is required")
		}
		train, err := ReadTSV(cfg.TrainPath, parse)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cfg.EvalPath != "" {
			if d.Valid, err = ReadTSV(cfg.EvalPath, parse); err != nil {
				return nil, err
			}
			d.Train = train
		} else {
			d.Train, d.Valid = SplitValid(train, cfg.ValidFraction, r)
		}
		if cfg.TestPath != "" {
			if d.Test, err = ReadTSV(cfg.TestPath, parse); err != nil {
				return nil, err
			}
		}
	}
	if len(d.Train) == 0 {
		return nil, errors.New("dataset has no training examples")
	}
	d.Meta = MetaData{
		NumClasses: NumGenotypes,
		Height:     d.Train[0].Height,
		Width:      d.Train[0].Width,
	}
	for _, name := range SplitNames {
		examples, _ := d.Split(name)
		if err := CheckShapes(examples, d.Meta.Height, d.Meta.Width, NumGenotypes); err != nil {
			return nil, errors.Wrapf(err, "%s split", name)
		}
	}
	d.UpdateMeta()
	return &d, nil
}
