package config

import "runtime"

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if len(c.Model.Patches.Size) == 0 {
		c.Model.Patches.Size = []int{1, 4}
	}
	if c.Model.NumHeads == 0 {
		c.Model.NumHeads = 2
	}
	if c.Model.Premodulo == 0 {
		c.Model.Premodulo = 1 << 12
	}
	if c.Model.QuantizeBits == 0 {
		c.Model.QuantizeBits = 2
	}
	if len(c.Model.Pool) == 0 {
		c.Model.Pool = []int{1, 2}
	}

	if c.Learning.Threads == 0 {
		c.Learning.Threads = runtime.NumCPU()
	}
	if c.Learning.DeadlineMs == 0 {
		c.Learning.DeadlineMs = 1000
	}
	if c.Learning.DeadlineRetry == 0 {
		c.Learning.DeadlineRetry = 3
	}
	if c.Learning.MaxAttempts == 0 {
		c.Learning.MaxAttempts = 1 << 20
	}
	if c.Learning.FinalSize == 0 {
		c.Learning.FinalSize = 12
	}
	if c.Learning.Factor == 0 {
		c.Learning.Factor = 4
	}
	if c.Learning.Numerator == 0 || c.Learning.Denominator == 0 {
		c.Learning.Numerator = 20
		c.Learning.Denominator = 21
	}
	if c.Learning.Subtractor == 0 {
		c.Learning.Subtractor = 1
	}

	if c.NumTrainingSteps == 0 {
		c.NumTrainingSteps = 100
	}
	if c.LogSummarySteps == 0 {
		c.LogSummarySteps = 10
	}
	if c.LogEvalSteps == 0 {
		c.LogEvalSteps = 50
	}
	if c.MaxCheckpointsToKeep == 0 {
		c.MaxCheckpointsToKeep = 3
	}

	if c.DatasetConfigs.MaxCoverage == 0 {
		c.DatasetConfigs.MaxCoverage = 255
	}
	if s := c.DatasetConfigs.Synthetic; s != nil {
		if s.NumTrain == 0 {
			s.NumTrain = 512
		}
		if s.NumEval == 0 {
			s.NumEval = 128
		}
		if s.NumTest == 0 {
			s.NumTest = 128
		}
		if s.Width == 0 {
			s.Width = 32
		}
		if s.Height == 0 {
			s.Height = 8
		}
		if s.Depth == 0 {
			s.Depth = 30
		}
	}

	if len(c.Inference.Splits) == 0 {
		c.Inference.Splits = []string{"test"}
	}
}
