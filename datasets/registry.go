package datasets

import "context"
import "math/rand"
import "sort"
import "sync"

import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"

// ErrUnknownDataset is returned when no builder is registered under a name.
var ErrUnknownDataset = errors.New("unknown dataset")

// Builder builds a dataset from its configs using r for shuffling and
// simulation.
type Builder func(ctx context.Context, cfg config.DatasetConfigs, r *rand.Rand) (*Dataset, error)

var (
	buildersMu sync.RWMutex
	builders   = make(map[string]Builder)
)

// Register makes a dataset builder available by name. Dataset packages call
// it from init. Registering a name twice panics.
func Register(name string, builder Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	if builder == nil {
		panic("datasets: Register builder is nil")
	}
	if _, dup := builders[name]; dup {
		panic("datasets: Register called twice for dataset " + name)
	}
	builders[name] = builder
}

// Lookup returns the builder registered under name
func Lookup(name string) (Builder, error) {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	builder, ok := builders[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDataset, "dataset %q", name)
	}
	return builder, nil
}

// Names returns the sorted names of the registered datasets
func Names() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
