package main

import "context"
import "fmt"
import "os"
import "os/signal"
import "syscall"

import "github.com/alexflint/go-arg"

import "github.com/neurlang/svvit/app"
import _ "github.com/neurlang/svvit/datasets/pileupcoverage"
import _ "github.com/neurlang/svvit/datasets/pileupwindow"
import "github.com/neurlang/svvit/datasets/service"

var (
	name    = "dataset_service"
	version = "0.3.0"
)

type args struct {
	Addr     string `arg:"--addr,env:DATASET_SERVICE_ADDR" default:":8080" help:"listen address"`
	Cache    int    `arg:"--cache" default:"16" help:"number of built datasets kept in memory"`
	LogLevel string `arg:"--log_level" default:"info" help:"debug, info, warn or error"`
}

func (args) Version() string {
	return name + " " + version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
builds svvit datasets and streams them to runners`, name)
}

func main() {
	var args args
	arg.MustParse(&args)
	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

func run(args args) error {
	zl, err := app.NewZapLogger(args.LogLevel, 0)
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck
	logger := app.NewLogger(zl).WithName(name)

	srv, err := service.NewServer(logger, args.Cache)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("listening", "addr", args.Addr, "cache", args.Cache)
	return srv.ListenAndServe(ctx, args.Addr)
}
