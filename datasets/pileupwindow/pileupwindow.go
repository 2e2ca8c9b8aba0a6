// Package pileupwindow registers the pileup_window dataset: windows of
// aligned reads around candidate deletions, one row per read.
//
// Each line of a dataset file is the genotype label, a tab, and the rows of
// the window separated by semicolons. A row holds comma separated read
// states (0 absent, 1 match, 2 deleted, 3 mismatch) or base qualities.
package pileupwindow

import "context"
import "math/rand"
import "strings"

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"

// Name is the registry name of the dataset
const Name = "pileup_window"

func init() {
	datasets.Register(Name, Build)
}

// Build builds the pileup_window dataset
func Build(ctx context.Context, cfg config.DatasetConfigs, r *rand.Rand) (*datasets.Dataset, error) {
	maxValue := cfg.MaxCoverage
	parse := func(label uint16, payload string) (datasets.Example, error) {
		var rows [][]int
		for i, text := range strings.Split(payload, ";") {
			row, err := datasets.ParseInts(text)
			if err != nil {
				return datasets.Example{}, errors.Wrapf(err, "row %d", i)
			}
			rows = append(rows, row)
		}
		return window(rows, maxValue, label)
	}
	simulate := func(r *rand.Rand, s *config.SyntheticConfig, label uint16) datasets.Example {
		e, _ := window(datasets.SimulateReads(r, s.Height, s.Width, s.Noise, label), datasets.ReadMismatch, label)
		return e
	}
	return datasets.BuildSplits(ctx, cfg, r, parse, simulate)
}

func window(rows [][]int, maxValue int, label uint16) (datasets.Example, error) {
	e := datasets.Example{Height: len(rows), Label: label}
	if len(rows) > 0 {
		e.Width = len(rows[0])
	}
	e.Image = make([]uint8, 0, e.Height*e.Width)
	for y, row := range rows {
		if len(row) != e.Width {
			return e, errors.Errorf("row %d has %d columns, want %d", y, len(row), e.Width)
		}
		for _, v := range row {
			e.Image = append(e.Image, datasets.Scale(v, maxValue))
		}
	}
	return e, nil
}
