package metricwriter

import "github.com/go-logr/logr"

// LoggingWriter logs metrics.
type LoggingWriter struct {
	logger logr.Logger
}

// NewLoggingWriter creates a writer logging to logger.
func NewLoggingWriter(logger logr.Logger) *LoggingWriter {
	return &LoggingWriter{logger: logger.WithName("metrics")}
}

func (w *LoggingWriter) WriteScalars(step int, scalars map[string]float64) error {
	kv := make([]any, 0, 2+2*len(scalars))
	kv = append(kv, "step", step)
	for _, k := range sortedKeys(scalars) {
		kv = append(kv, k, scalars[k])
	}
	w.logger.Info("scalars", kv...)
	return nil
}

func (w *LoggingWriter) WriteHParams(params map[string]any) error {
	kv := make([]any, 0, 2*len(params))
	for _, k := range sortedKeys(params) {
		kv = append(kv, k, params[k])
	}
	w.logger.Info("hparams", kv...)
	return nil
}

func (w *LoggingWriter) Flush() error { return nil }

func (w *LoggingWriter) Close() error { return nil }
