package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/internal/pipeline"
	"github.com/mini-maxit/solver-bench/internal/rabbitmq/publisher"
	"github.com/mini-maxit/solver-bench/internal/stages/invoker"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/result"
)

type Scheduler interface {
	// Run processes every job and returns the results in job order. When ctx
	// is cancelled, jobs that have not started are skipped and ctx.Err() is
	// returned.
	Run(ctx context.Context, jobs []pipeline.Job) ([]result.RunResult, error)
	GetWorkersStatus() map[string]interface{}
}

type scheduler struct {
	mu               sync.Mutex
	busyWorkersCount int
	workers          map[int]pipeline.Worker
	maxWorkers       int
	logger           *zap.SugaredLogger
}

func NewScheduler(
	maxWorkers int,
	invoker invoker.Invoker,
	publisher publisher.Publisher,
	timeout time.Duration,
) Scheduler {
	if maxWorkers < 1 {
		maxWorkers = constants.DefaultMaxWorkers
	}
	workers := make(map[int]pipeline.Worker, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		workers[i] = pipeline.NewWorker(i, invoker, publisher, timeout)
	}

	return NewSchedulerWithWorkers(workers)
}

func NewSchedulerWithWorkers(workers map[int]pipeline.Worker) Scheduler {
	workerPoolLogger := logger.NewNamedLogger("workerPool")

	return &scheduler{
		workers:    workers,
		maxWorkers: len(workers),
		logger:     workerPoolLogger,
	}
}

func (s *scheduler) GetWorkersStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make(map[int]string, len(s.workers))

	for id, worker := range s.workers {
		state := worker.GetState()
		if state.Status == constants.WorkerStatusBusy {
			statuses[id] = state.Status.String() + " Processing run: " + state.ProcessingRun
			continue
		}
		statuses[id] = state.Status.String()
	}

	return map[string]interface{}{
		"busy_workers":  s.busyWorkersCount,
		"total_workers": s.maxWorkers,
		"worker_status": statuses,
	}
}

func (s *scheduler) Run(ctx context.Context, jobs []pipeline.Job) ([]result.RunResult, error) {
	results := make([]result.RunResult, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	var progressMu sync.Mutex
	done := 0

	for _, w := range s.workers {
		wg.Add(1)
		go func(w pipeline.Worker) {
			defer wg.Done()
			for idx := range queue {
				if ctx.Err() != nil {
					continue
				}
				results[idx] = s.process(ctx, w, jobs[idx])

				progressMu.Lock()
				done++
				s.logger.Infof("Progress %d/%d [WorkerID: %d]", done, len(jobs), w.GetId())
				progressMu.Unlock()
			}
		}(w)
	}

	var err error
dispatch:
	for idx := range jobs {
		// Checked before the select so a cancelled sweep never starts
		// another run even when a worker is free.
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case queue <- idx:
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		}
	}
	close(queue)
	wg.Wait()

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Warnf("Sweep interrupted: %s", err)
		return nil, err
	}
	return results, nil
}

func (s *scheduler) process(ctx context.Context, w pipeline.Worker, job pipeline.Job) (runResult result.RunResult) {
	s.markWorkerAsBusy()
	defer s.markWorkerAsIdle(w)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Worker panicked: %v", r)
			runResult = result.RunResult{
				Instance:       job.Instance.Name,
				InstancePath:   job.Instance.Path,
				Configuration:  job.Configuration,
				BestKnown:      job.Reference.BestKnown,
				ExitCode:       constants.ExitCodeProcessKilled,
				Failure:        constants.FailureError,
				FailureMessage: fmt.Sprintf(constants.RunMessagePanic, r),
			}
		}
	}()

	return w.ProcessJob(ctx, job)
}

func (s *scheduler) markWorkerAsBusy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busyWorkersCount++
}

func (s *scheduler) markWorkerAsIdle(worker pipeline.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busyWorkersCount--
	s.logger.Debugf("Worker marked as idle [WorkerID: %d]", worker.GetId())
}
