// Package classificationtrainer trains a genotype classifier from scratch,
// or resumes the newest checkpoint of the working directory.
package classificationtrainer

import "context"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/trainer"

// SignificanceKey is the extra configuration key selecting the confidence
// level (0-100) of the sampled training accuracy, 0 evaluates every example.
const SignificanceKey = "eval_significance"

// Train runs the greedy loop on class-balanced training steps
func Train(ctx context.Context, p trainer.Params) error {
	return trainer.Run(ctx, p, trainer.Options{
		Order:        trainer.BranchOrder,
		Balance:      true,
		Significance: significance(p.Config),
	})
}

func significance(cfg *config.Config) byte {
	v, ok := cfg.Get(SignificanceKey)
	if !ok {
		return 0
	}
	var s float64
	switch n := v.(type) {
	case int:
		s = float64(n)
	case float64:
		s = n
	default:
		return 0
	}
	if s <= 0 || s >= 100 {
		return 0
	}
	return byte(s)
}
