package app

import "github.com/go-logr/logr"
import "github.com/go-logr/zapr"
import "github.com/pkg/errors"
import "go.uber.org/zap"
import "go.uber.org/zap/zapcore"

// NewZapLogger builds a console logger at level. Each verbosity step enables
// one more logr V level below info.
func NewZapLogger(level string, verbosity int) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	if verbosity > 0 && lvl <= zapcore.InfoLevel {
		lvl = zapcore.Level(-verbosity)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	zl, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return zl, nil
}

// NewLogger bridges a zap logger to logr
func NewLogger(zl *zap.Logger) logr.Logger {
	return zapr.NewLogger(zl).WithName("svvit")
}
