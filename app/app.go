// Package app is the command line launcher of the experiment runner. It
// parses flags, sets up logging and metric writers, loads the configuration
// and hands everything to a main function.
package app

import "context"
import "fmt"
import "os"
import "os/signal"
import "path/filepath"
import "syscall"

import "github.com/alexflint/go-arg"
import "github.com/go-logr/logr"
import "github.com/google/uuid"
import "github.com/pkg/errors"

import "github.com/neurlang/svvit/config"
import "github.com/neurlang/svvit/metricwriter"
import "github.com/neurlang/svvit/rng"

const (
	name    = "svvit"
	version = "0.3.0"
)

// Args are the command line flags of the runner
type Args struct {
	Config                string `arg:"--config,required,env:SVVIT_CONFIG" help:"experiment configuration (yaml)"`
	Workdir               string `arg:"--workdir,required" help:"directory for checkpoints and metrics"`
	Seed                  int64  `arg:"--seed" default:"0" help:"seed of the root random key"`
	DatasetServiceAddress string `arg:"--dataset_service_address,env:DATASET_SERVICE_ADDRESS" help:"stream datasets from this dataset service instead of building them"`
	LogLevel              string `arg:"--log_level" default:"info" help:"debug, info, warn or error"`
	Verbosity             int    `arg:"-v,--verbosity" default:"0" help:"logr verbosity, 1 logs every retrained hashtron"`
	MetricsDSN            string `arg:"--metrics_dsn,env:SVVIT_METRICS_DSN" help:"postgres connection string receiving the metrics"`
	Progress              bool   `arg:"--progress" help:"show a progress bar"`
	CPUProfile            string `arg:"--cpuprofile" help:"write a cpu profile of the run, e.g. default.pgo"`
}

func (Args) Version() string {
	return name + " " + version
}

func (Args) Description() string {
	return fmt.Sprintf(`%s
trains and evaluates hashtron vision transformers on structural variant pileups`, name)
}

// Flags holds the parsed command line flags
var Flags Args

// RunID identifies the current run in checkpoints and metrics
var RunID string

// MainFunc is the entry point Run hands the prepared run to
type MainFunc func(ctx context.Context, key rng.Key, cfg *config.Config, workdir string, writer metricwriter.MetricWriter) error

// Run parses the command line into Flags and calls main, exiting with a
// nonzero status on failure.
func Run(main MainFunc) {
	arg.MustParse(&Flags)
	if err := Execute(context.Background(), Flags, main); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

// Execute prepares a run described by args and calls main
func Execute(ctx context.Context, args Args, main MainFunc) error {
	zl, err := NewZapLogger(args.LogLevel, args.Verbosity)
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck

	Flags = args
	RunID = uuid.NewString()
	logger := NewLogger(zl).WithValues("run_id", RunID)

	if args.CPUProfile != "" {
		stopProfile, err := StartCPUProfile(args.CPUProfile)
		if err != nil {
			return err
		}
		defer stopProfile()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logr.NewContext(ctx, logger)

	cfg, err := config.LoadAndValidate(args.Config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(args.Workdir, 0o755); err != nil {
		return errors.Wrap(err, "create workdir")
	}

	writer, err := NewMetricWriter(ctx, args, logger)
	if err != nil {
		return err
	}
	defer writer.Close()

	logger.Info("starting run",
		"model", cfg.ModelName,
		"trainer", cfg.TrainerName,
		"dataset", cfg.DatasetName,
		"workdir", args.Workdir,
		"seed", args.Seed)
	return main(ctx, rng.New(args.Seed), cfg, args.Workdir, writer)
}

// NewMetricWriter combines the writers selected by args: the log, a JSONL
// file in the working directory and, with a DSN, a Postgres database.
func NewMetricWriter(ctx context.Context, args Args, logger logr.Logger) (metricwriter.MetricWriter, error) {
	jsonl, err := metricwriter.NewJSONLWriter(filepath.Join(args.Workdir, "metrics.jsonl"), RunID)
	if err != nil {
		return nil, err
	}
	writers := []metricwriter.MetricWriter{
		metricwriter.NewLoggingWriter(logger.WithName("metrics")),
		jsonl,
	}
	if args.MetricsDSN != "" {
		pg, err := metricwriter.ConnectPostgres(ctx, args.MetricsDSN, RunID)
		if err != nil {
			jsonl.Close()
			return nil, err
		}
		writers = append(writers, pg)
	}
	return metricwriter.NewMultiWriter(writers...), nil
}
