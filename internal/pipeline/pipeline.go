package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mini-maxit/solver-bench/internal/catalog"
	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/internal/rabbitmq/publisher"
	"github.com/mini-maxit/solver-bench/internal/reference"
	"github.com/mini-maxit/solver-bench/internal/stages/invoker"
	"github.com/mini-maxit/solver-bench/internal/stages/parser"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	customErr "github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/pkg/grid"
	"github.com/mini-maxit/solver-bench/pkg/result"
)

// Job is one (instance, configuration) pair of the sweep. Index is its
// position in the sequential sweep order.
type Job struct {
	Index         int
	Instance      catalog.Instance
	Reference     reference.Solution
	Configuration grid.RunConfiguration
}

func (j Job) String() string {
	return fmt.Sprintf("%s %s", j.Instance.Name, j.Configuration)
}

type Worker interface {
	ProcessJob(ctx context.Context, job Job) result.RunResult
	GetState() WorkerState
	GetId() int
}

type WorkerState struct {
	Status        constants.WorkerStatus `json:"status"`
	ProcessingRun string                 `json:"processing_run"`
}

type worker struct {
	id        int
	mu        sync.Mutex
	state     WorkerState
	invoker   invoker.Invoker
	publisher publisher.Publisher
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

func NewWorker(
	id int,
	invoker invoker.Invoker,
	publisher publisher.Publisher,
	timeout time.Duration,
) Worker {
	logger := logger.NewNamedLogger(fmt.Sprintf("worker-%d", id))

	return &worker{
		id:        id,
		state:     WorkerState{Status: constants.WorkerStatusIdle},
		invoker:   invoker,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
	}
}

func (ws *worker) GetId() int {
	return ws.id
}

func (ws *worker) GetState() WorkerState {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state
}

func (ws *worker) setState(status constants.WorkerStatus, run string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state = WorkerState{Status: status, ProcessingRun: run}
}

// ProcessJob runs the solver once and turns whatever happened into a
// RunResult. It never fails: timeouts, solver errors and panics all become
// rows with a failure marker.
func (ws *worker) ProcessJob(ctx context.Context, job Job) (runResult result.RunResult) {
	ws.setState(constants.WorkerStatusBusy, job.String())
	defer ws.setState(constants.WorkerStatusIdle, "")

	runResult = result.RunResult{
		Instance:      job.Instance.Name,
		InstancePath:  job.Instance.Path,
		Configuration: job.Configuration,
		BestKnown:     job.Reference.BestKnown,
		ExitCode:      constants.ExitCodeProcessKilled,
	}

	defer func() {
		if r := recover(); r != nil {
			ws.logger.Errorf("Worker panicked: %v [Run: %s]", r, job)
			runResult.Fields = result.Fields{}
			runResult.Gap = result.None()
			runResult.Failure = constants.FailureError
			runResult.FailureMessage = fmt.Sprintf(constants.RunMessagePanic, r)
		}
		ws.publish(ctx, runResult)
	}()

	ws.logger.Infof("Running [Run: %s]", job)
	out, err := ws.invoker.Invoke(ctx, job.Instance, job.Configuration)
	runResult.Stdout = out.Stdout
	runResult.Stderr = out.Stderr
	runResult.ExitCode = out.ExitCode
	runResult.WallTime = out.WallTime

	switch {
	case err == nil:
		ws.fill(&runResult, out.Stdout)
	case errors.Is(err, customErr.ErrInvocationTimeout):
		runResult.Failure = constants.FailureTimeout
		runResult.FailureMessage = fmt.Sprintf(constants.RunMessageTimeout, int(ws.timeout.Seconds()))
	case errors.Is(err, customErr.ErrSolverFailed):
		// Whatever the solver printed before failing is still reported.
		ws.fill(&runResult, out.Stdout)
		runResult.Failure = constants.FailureError
		runResult.FailureMessage = fmt.Sprintf(constants.RunMessageSolverFailed, out.ExitCode)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		runResult.Failure = constants.FailureError
		runResult.FailureMessage = constants.RunMessageCancelled
	default:
		runResult.Failure = constants.FailureError
		runResult.FailureMessage = fmt.Sprintf(constants.RunMessageLaunchFailure, err)
	}

	if runResult.Failure != "" {
		ws.logger.Warnf("Run failed: %s [Run: %s]", runResult.FailureMessage, job)
	} else {
		ws.logger.Infof("Run finished in %s, cost=%s gap=%s [Run: %s]",
			runResult.WallTime.Round(time.Millisecond), runResult.Fields.Cost.Raw, runResult.Gap, job)
	}

	return runResult
}

func (ws *worker) fill(runResult *result.RunResult, stdout string) {
	runResult.Fields = parser.Parse(stdout)
	runResult.Gap = result.Gap(runResult.Fields.Cost, runResult.BestKnown)
}

func (ws *worker) publish(ctx context.Context, runResult result.RunResult) {
	if ws.publisher == nil {
		return
	}
	// Publishing is best effort and must not hold up or fail the sweep.
	if err := ws.publisher.PublishRunResult(context.WithoutCancel(ctx), runResult); err != nil {
		ws.logger.Errorf("Failed to publish result: %s [Run: %s %s]", err, runResult.Instance, runResult.Configuration)
	}
}
