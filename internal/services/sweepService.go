package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mini-maxit/solver-bench/internal/catalog"
	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/internal/pipeline"
	"github.com/mini-maxit/solver-bench/internal/rabbitmq/publisher"
	"github.com/mini-maxit/solver-bench/internal/reference"
	"github.com/mini-maxit/solver-bench/internal/scheduler"
	"github.com/mini-maxit/solver-bench/pkg/grid"
	"github.com/mini-maxit/solver-bench/pkg/result"
)

// Sweep is the outcome of one complete pass over instances and grid.
type Sweep struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Instances  []catalog.Instance
	Results    []result.RunResult
	Failures   int
}

type SweepService interface {
	// Plan lists the instances, resolves their references and expands the
	// grid into jobs in sweep order, without running anything.
	Plan() ([]pipeline.Job, []catalog.Instance, error)
	Run(ctx context.Context) (*Sweep, error)
}

type sweepService struct {
	logger      *zap.SugaredLogger
	sweepID     string
	instanceDir string
	resolver    *reference.Resolver
	grid        grid.Grid
	scheduler   scheduler.Scheduler
	publisher   publisher.Publisher
}

func NewSweepService(
	sweepID string,
	instanceDir string,
	resolver *reference.Resolver,
	g grid.Grid,
	scheduler scheduler.Scheduler,
	pub publisher.Publisher,
) SweepService {
	if pub == nil {
		pub = publisher.NewNoopPublisher()
	}
	return &sweepService{
		logger:      logger.NewNamedLogger("sweepService"),
		sweepID:     sweepID,
		instanceDir: instanceDir,
		resolver:    resolver,
		grid:        g,
		scheduler:   scheduler,
		publisher:   pub,
	}
}

func (s *sweepService) Plan() ([]pipeline.Job, []catalog.Instance, error) {
	instances, err := catalog.List(s.instanceDir)
	if err != nil {
		s.logger.Errorf("Failed to list instances: %s", err)
		return nil, nil, err
	}
	if len(instances) == 0 {
		s.logger.Warnf("No instance files found in %s", s.instanceDir)
	}

	configs := s.grid.Configurations()
	jobs := make([]pipeline.Job, 0, len(instances)*len(configs))
	for _, inst := range instances {
		sol := s.resolver.Resolve(inst)
		for _, cfg := range configs {
			jobs = append(jobs, pipeline.Job{
				Index:         len(jobs),
				Instance:      inst,
				Reference:     sol,
				Configuration: cfg,
			})
		}
	}

	s.logger.Infof("Planned %d runs: %d instances x %d configurations [Sweep: %s]",
		len(jobs), len(instances), len(configs), s.sweepID)
	return jobs, instances, nil
}

func (s *sweepService) Run(ctx context.Context) (*Sweep, error) {
	sweep := &Sweep{ID: s.sweepID, StartedAt: time.Now()}

	jobs, instances, err := s.Plan()
	if err != nil {
		return nil, err
	}
	sweep.Instances = instances

	results, err := s.scheduler.Run(ctx, jobs)
	if err != nil {
		s.logger.Errorf("Sweep did not finish: %s [Sweep: %s]", err, s.sweepID)
		return nil, err
	}
	sweep.Results = results
	sweep.FinishedAt = time.Now()

	for _, r := range results {
		if r.Failure != "" {
			sweep.Failures++
		}
	}

	if err := s.publisher.PublishSweepDone(ctx, len(results), sweep.Failures); err != nil {
		s.logger.Errorf("Failed to publish sweep summary: %s [Sweep: %s]", err, s.sweepID)
	}

	s.logger.Infof("Sweep finished: %d runs, %d failures in %s [Sweep: %s]",
		len(results), sweep.Failures, sweep.FinishedAt.Sub(sweep.StartedAt).Round(time.Millisecond), s.sweepID)
	return sweep, nil
}
