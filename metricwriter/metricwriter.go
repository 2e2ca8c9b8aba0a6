// Package metricwriter implements sinks for training and evaluation metrics.
//
// Writers:
//   - LoggingWriter logs every write
//   - JSONLWriter appends json lines to a file
//   - PostgresWriter batches rows into a metrics table
//   - MultiWriter fans out to several writers
//
// The caller owns a writer: trainers write and flush, only the launcher closes.
package metricwriter

import "sort"

import "go.uber.org/multierr"

// MetricWriter receives scalars keyed by step and hyper parameters.
type MetricWriter interface {
	WriteScalars(step int, scalars map[string]float64) error
	WriteHParams(params map[string]any) error
	Flush() error
	Close() error
}

// sortedKeys returns the keys of m in ascending order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MultiWriter writes to every writer, collecting all errors.
type MultiWriter []MetricWriter

// NewMultiWriter returns a writer writing to every non nil writer.
func NewMultiWriter(writers ...MetricWriter) MultiWriter {
	var out MultiWriter
	for _, w := range writers {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}

func (m MultiWriter) WriteScalars(step int, scalars map[string]float64) (err error) {
	for _, w := range m {
		err = multierr.Append(err, w.WriteScalars(step, scalars))
	}
	return
}

func (m MultiWriter) WriteHParams(params map[string]any) (err error) {
	for _, w := range m {
		err = multierr.Append(err, w.WriteHParams(params))
	}
	return
}

func (m MultiWriter) Flush() (err error) {
	for _, w := range m {
		err = multierr.Append(err, w.Flush())
	}
	return
}

func (m MultiWriter) Close() (err error) {
	for _, w := range m {
		err = multierr.Append(err, w.Close())
	}
	return
}
