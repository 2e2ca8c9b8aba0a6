package trainer

import "context"
import "sort"
import "sync"

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/datasets"
import "github.com/neurlang/svvit/metricwriter"
import "github.com/neurlang/svvit/models"
import "github.com/neurlang/svvit/rng"

// ErrUnknownTrainer is returned by Get for names without a registered trainer
var ErrUnknownTrainer = errors.New("unknown trainer")

// Params are the arguments every training routine receives
type Params struct {
	Rng        rng.Key
	Config     *config.Config
	ModelClass *models.Class
	Dataset    *datasets.Dataset
	Workdir    string
	Writer     metricwriter.MetricWriter
}

// TrainFunc is a training routine
type TrainFunc func(ctx context.Context, p Params) error

var (
	trainersMu sync.RWMutex
	trainers   = make(map[string]TrainFunc)
)

// Register makes a training routine available by name. Registering a name twice panics.
func Register(name string, train TrainFunc) {
	trainersMu.Lock()
	defer trainersMu.Unlock()
	if train == nil {
		panic("trainer: Register trainer is nil")
	}
	if _, dup := trainers[name]; dup {
		panic("trainer: Register called twice for trainer " + name)
	}
	trainers[name] = train
}

// Get returns the training routine registered under name
func Get(name string) (TrainFunc, error) {
	trainersMu.RLock()
	defer trainersMu.RUnlock()
	train, ok := trainers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTrainer, "trainer %q", name)
	}
	return train, nil
}

// Names returns the sorted names of the registered trainers
func Names() []string {
	trainersMu.RLock()
	defer trainersMu.RUnlock()
	names := make([]string, 0, len(trainers))
	for name := range trainers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
