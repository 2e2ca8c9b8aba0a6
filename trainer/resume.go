package trainer

import "context"

import "github.com/go-logr/logr"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/checkpoint"
import "github.com/neurlang/svvit/models"

// Resume restores the newest checkpoint of the working directory, or builds
// an untrained model when there is none. It returns the model and the step
// it was saved at.
func Resume(ctx context.Context, p Params) (*models.Model, int, error) {
	var logger = logr.FromContextOrDiscard(ctx)
	var dir = checkpoint.Dir(p.Workdir)

	m, state, err := checkpoint.RestoreModel(dir, 0, p.Config.Model, p.ModelClass)
	switch {
	case errors.Is(err, checkpoint.ErrNoCheckpoint):
		m, err = p.ModelClass.New(p.Config.Model, p.Dataset.Meta)
		if err != nil {
			return nil, 0, err
		}
		logger.Info("initialized model", "hashtrons", m.Hashtrons())
		return m, 0, nil
	case err != nil:
		return nil, 0, err
	}
	if err := sameShape(state.Meta.NumClasses, state.Meta.Height, state.Meta.Width, p); err != nil {
		return nil, 0, err
	}
	logger.Info("resumed model", "step", state.Step, "accuracy", state.Accuracy, "dir", dir)
	return m, state.Step, nil
}

// sameShape checks a restored model reads the examples of the dataset
func sameShape(classes, height, width int, p Params) error {
	var meta = p.Dataset.Meta
	if classes != meta.NumClasses || height != meta.Height || width != meta.Width {
		return errors.Errorf("checkpoint model takes %d classes of %dx%d images, dataset has %d classes of %dx%d images",
			classes, height, width, meta.NumClasses, meta.Height, meta.Width)
	}
	return nil
}
