// Package pileupcoverage registers the pileup_coverage dataset: read depth
// tracks around candidate deletions, one row per example.
//
// Each line of a dataset file is the genotype label, a tab, and the comma
// separated depth of every position of the window.
package pileupcoverage

import "context"
import "math/rand"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"

// Name is the registry name of the dataset
const Name = "pileup_coverage"

func init() {
	datasets.Register(Name, Build)
}

// Build builds the pileup_coverage dataset
func Build(ctx context.Context, cfg config.DatasetConfigs, r *rand.Rand) (*datasets.Dataset, error) {
	maxCoverage := cfg.MaxCoverage
	parse := func(label uint16, payload string) (datasets.Example, error) {
		depths, err := datasets.ParseInts(payload)
		if err != nil {
			return datasets.Example{}, err
		}
		return track(depths, maxCoverage, label), nil
	}
	simulate := func(r *rand.Rand, s *config.SyntheticConfig, label uint16) datasets.Example {
		return track(datasets.SimulateCoverage(r, s.Width, s.Depth, s.Noise, label), s.Depth, label)
	}
	return datasets.BuildSplits(ctx, cfg, r, parse, simulate)
}

func track(depths []int, maxCoverage int, label uint16) datasets.Example {
	e := datasets.Example{
		Image:  make([]uint8, len(depths)),
		Height: 1,
		Width:  len(depths),
		Label:  label,
	}
	for x, d := range depths {
		e.Image[x] = datasets.Scale(d, maxCoverage)
	}
	return e
}
