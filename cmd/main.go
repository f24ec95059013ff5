package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/mini-maxit/solver-bench/internal/config"
	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/internal/rabbitmq/channel"
	"github.com/mini-maxit/solver-bench/internal/rabbitmq/publisher"
	"github.com/mini-maxit/solver-bench/internal/reference"
	"github.com/mini-maxit/solver-bench/internal/report"
	"github.com/mini-maxit/solver-bench/internal/scheduler"
	"github.com/mini-maxit/solver-bench/internal/services"
	"github.com/mini-maxit/solver-bench/internal/stages/invoker"
	"github.com/mini-maxit/solver-bench/internal/sysinfo"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/grid"
)

func main() {
	app := cli.NewApp()
	app.Name = "solver-bench"
	app.Usage = "run the CVRP solver over every instance and heuristic configuration and write a CSV report"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "grid",
			Usage:  "YAML file describing the experiment grid",
			EnvVar: "GRID_FILE",
		},
		cli.BoolFlag{
			Name:  "dry-run",
			Usage: "log the planned runs without invoking the solver",
		},
	}
	app.Action = run

	// Exit errors terminate inside Run; anything else is unexpected.
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(constants.ExitCodeReportFailure)
	}
}

func run(c *cli.Context) error {
	logger.InitializeLogger()
	defer logger.Sync()

	logger := logger.NewNamedLogger("main")

	fail := func(code int, format string, args ...interface{}) error {
		msg := fmt.Sprintf(format, args...)
		logger.Error(msg)
		_ = logger.Sync()
		return cli.NewExitError(msg, code)
	}

	logger.Info("Starting solver sweep")

	cfg := config.NewConfig()

	gridFile := c.String("grid")
	if gridFile == "" {
		gridFile = cfg.GridFile
	}
	g, err := config.LoadGrid(gridFile)
	if err != nil {
		return fail(constants.ExitCodeConfigError, "Failed to load experiment grid: %s", err)
	}

	strategy, err := invoker.NewStrategy(cfg.SolverProtocol, g)
	if err != nil {
		return fail(constants.ExitCodeConfigError, "Failed to select solver protocol: %s", err)
	}

	resolver, err := reference.NewResolver(cfg.SolutionDir)
	if err != nil {
		return fail(constants.ExitCodeConfigError, "Failed to open solutions directory: %s", err)
	}

	sweepID := uuid.New().String()

	exe, locateErr := invoker.Locate(cfg.SolverCandidates, cfg.SolverWrapper)

	if c.Bool("dry-run") {
		return dryRun(logger, sweepID, cfg, resolver, g, exe, locateErr)
	}

	if locateErr != nil {
		return fail(constants.ExitCodeSolverNotFound, "Failed to locate solver: %s", locateErr)
	}
	logger.Infof("Using solver %s with %s protocol [Sweep: %s]", exe, strategy.Name(), sweepID)

	pub := newPublisher(logger, cfg, sweepID)
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Errorf("Failed to close publisher: %s", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inv := invoker.NewInvoker(exe, strategy, cfg.RunTimeout)
	sched := scheduler.NewScheduler(cfg.MaxWorkers, inv, pub, cfg.RunTimeout)
	svc := services.NewSweepService(sweepID, cfg.InstanceDir, resolver, g, sched, pub)

	sweep, err := svc.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fail(constants.ExitCodeInterrupted, "Sweep interrupted, no report written: %s", err)
		}
		return fail(constants.ExitCodeConfigError, "Failed to run sweep: %s", err)
	}

	writer := report.NewWriter(cfg.ReportExtraColumns)
	if err := writer.Write(cfg.ReportPath, sweep.Results); err != nil {
		return fail(constants.ExitCodeReportFailure, "Failed to write report: %s", err)
	}

	meta := report.Metadata{
		SweepID:    sweep.ID,
		StartedAt:  sweep.StartedAt,
		FinishedAt: sweep.FinishedAt,
		Solver:     exe.String(),
		Protocol:   strategy.Name(),
		TimeoutSec: int(cfg.RunTimeout / time.Second),
		Grid:       g,
		System:     sysinfo.Collect(),
		Instances:  len(sweep.Instances),
		Runs:       len(sweep.Results),
		Failures:   sweep.Failures,
	}
	if err := writer.WriteMetadata(cfg.ReportPath, meta); err != nil {
		logger.Warnf("Failed to write report metadata: %s", err)
	}

	logger.Infof("Report written to %s [Sweep: %s]", cfg.ReportPath, sweepID)
	return nil
}

func dryRun(
	logger *zap.SugaredLogger,
	sweepID string,
	cfg *config.Config,
	resolver *reference.Resolver,
	g grid.Grid,
	exe invoker.Executable,
	locateErr error,
) error {
	if locateErr != nil {
		logger.Warnf("Solver not found, a real sweep would fail: %s", locateErr)
	} else {
		logger.Infof("Solver: %s", exe)
	}

	svc := services.NewSweepService(sweepID, cfg.InstanceDir, resolver, g, nil, nil)
	jobs, _, err := svc.Plan()
	if err != nil {
		logger.Error(err)
		_ = logger.Sync()
		return cli.NewExitError(err.Error(), constants.ExitCodeConfigError)
	}

	for _, job := range jobs {
		best := job.Reference.BestKnown.String()
		if best == "" {
			best = "-"
		}
		logger.Infof("#%d %s (best known: %s)", job.Index+1, job, best)
	}
	logger.Infof("Dry run planned %d runs, report would go to %s", len(jobs), cfg.ReportPath)
	return nil
}

// newPublisher connects to RabbitMQ when a URL is configured. Failing to
// connect only disables publishing.
func newPublisher(logger *zap.SugaredLogger, cfg *config.Config, sweepID string) publisher.Publisher {
	if cfg.RabbitMQURL == "" {
		return publisher.NewNoopPublisher()
	}

	ch, err := channel.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Errorf("Failed to connect to RabbitMQ, results will not be published: %s", err)
		return publisher.NewNoopPublisher()
	}

	pub, err := publisher.NewPublisher(ch, cfg.ResultsQueueName, sweepID)
	if err != nil {
		_ = ch.Close()
		logger.Errorf("Failed to set up result publishing: %s", err)
		return publisher.NewNoopPublisher()
	}

	logger.Infof("Publishing results to queue %s", cfg.ResultsQueueName)
	return pub
}
