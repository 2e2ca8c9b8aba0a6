package trainer

import "context"

func init() {
	Register("greedy_trainer", Greedy)
	Register("layerwise_trainer", Layerwise)
}

// Greedy retrains one random branch of the network per step
func Greedy(ctx context.Context, p Params) error {
	return Run(ctx, p, Options{Order: BranchOrder})
}

// Layerwise retrains every hashtron per step, sweeping from the output back to the input
func Layerwise(ctx context.Context, p Params) error {
	return Run(ctx, p, Options{Order: SweepOrder})
}
