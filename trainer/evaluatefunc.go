package trainer

import "math"

import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/metrics"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/parallel"

// sampleSize calculates the statistically sufficient sample size
// for a given dataset size N and significance level (0–100).
func sampleSize(N int, significance byte) int {
	if significance == 0 || significance >= 100 {
		return N
	}

	// Convert significance level to Z-score
	z := zScoreFromAlpha(100 - significance)

	// Assume worst-case proportion p = 0.5 for max variability
	p := 0.5
	e := float64(100-significance) * 0.01

	numerator := math.Pow(z, 2) * p * (1 - p)
	denominator := math.Pow(e, 2)

	// Initial sample size without population correction
	ss := numerator / denominator

	// Apply finite population correction
	correctedSS := ss * float64(N) / (float64(N) - 1 + ss)

	if int(correctedSS) > N {
		return N
	}

	return int(correctedSS)
}

// zScoreFromAlpha returns the Z-score for a given alpha level
// Common: 90% => 1.645, 95% => 1.96, 99% => 2.576
func zScoreFromAlpha(alpha byte) float64 {
	switch {
	case alpha <= 1:
		return 2.576 // 99% confidence
	case alpha <= 5:
		return 1.96 // 95% confidence
	case alpha <= 10:
		return 1.645 // 90% confidence
	default:
		return 1.96 // default fallback
	}
}

// Evaluate predicts every example and returns the confusion matrix and the
// digest of the predictions, which identifies the state of the model.
func Evaluate(m *models.Model, examples []datasets.Example, threads int) (*metrics.Confusion, [32]byte) {
	var predictions = make([]uint16, len(examples))
	var hsh = parallel.NewUint16Hasher(len(examples))
	parallel.ForEachChunk(len(examples), threads, func(begin, end int) {
		for i := begin; i < end; i++ {
			predictions[i] = m.Predict(examples[i])
			hsh.MustPutUint16(i, predictions[i])
		}
	})
	var conf = metrics.NewConfusion(m.NumClasses)
	for i, e := range examples {
		conf.Add(int(e.Label), int(predictions[i]))
	}
	return conf, hsh.Sum()
}

// NewEvaluateFunc returns a function measuring the accuracy of m on examples,
// or on a statistically sufficient prefix of them for a nonzero significance.
func NewEvaluateFunc(m *models.Model, examples []datasets.Example, significance byte, threads int) func() (float64, [32]byte) {
	examples = examples[:sampleSize(len(examples), significance)]
	return func() (float64, [32]byte) {
		conf, state := Evaluate(m, examples, threads)
		return conf.Accuracy(), state
	}
}
