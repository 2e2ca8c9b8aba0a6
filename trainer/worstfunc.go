package trainer

import "context"
import "runtime"

import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/learning"
import "github.com/neurlang/svvit/net/feedforward"

// NewTrainWorstFunc returns a function retraining hashtron worst of net on
// the votes collected by tallyFunc. It returns a nil undo when the votes
// don't ask for any change.
func NewTrainWorstFunc(net *feedforward.FeedforwardNetwork, h *learning.HyperParameters,
	tallyFunc func(worst int, tally *datasets.Tally)) func(ctx context.Context, worst int) (undo func(), err error) {
	return func(ctx context.Context, worst int) (undo func(), err error) {
		var ptr = net.GetHashtron(worst)
		if ptr == nil {
			return nil, nil
		}

		var tally = datasets.NewTally()
		tallyFunc(worst, tally)

		if !tally.GetImprovementPossible() {
			return nil, nil
		}

		var set = tally.Set()
		tally.Free()
		tally = nil

		htron, err := h.Training(ctx, set, ptr.Bits())
		if err != nil {
			return nil, err
		}
		set = nil
		runtime.GC()

		var backup = *ptr
		*ptr = *htron
		return func() {
			*ptr = backup
		}, nil
	}
}
