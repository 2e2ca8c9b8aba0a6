package app

import "os"
import "runtime/pprof"

import "github.com/pkg/errors"

// StartCPUProfile profiles the process into path until the returned stop is
// called. A profile named default.pgo next to a main package enables profile
// guided optimization of its builds.
func StartCPUProfile(path string) (stop func(), err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create cpu profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "start cpu profile")
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}
