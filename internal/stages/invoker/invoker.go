package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mini-maxit/solver-bench/internal/catalog"
	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	customErr "github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/pkg/grid"
)

// Output is everything captured from one solver process. Stdout is the only
// input to parsing; Stderr is kept for diagnostics.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	WallTime time.Duration
	TimedOut bool
}

type Invoker interface {
	// Invoke runs the solver once. The returned Output is filled even when an
	// error is returned, so partial stdout can still be parsed.
	Invoke(ctx context.Context, inst catalog.Instance, cfg grid.RunConfiguration) (Output, error)
}

type invoker struct {
	logger   *zap.SugaredLogger
	exe      Executable
	strategy Strategy
	timeout  time.Duration
}

func NewInvoker(exe Executable, strategy Strategy, timeout time.Duration) Invoker {
	logger := logger.NewNamedLogger("invoker")
	if timeout <= 0 {
		timeout = time.Duration(constants.DefaultRunTimeoutSec) * time.Second
	}
	return &invoker{logger: logger, exe: exe, strategy: strategy, timeout: timeout}
}

func (i *invoker) Invoke(
	ctx context.Context,
	inst catalog.Instance,
	cfg grid.RunConfiguration,
) (Output, error) {
	invocation := i.strategy.Build(inst, cfg)
	runCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	name, args := i.exe.Command(invocation.Args)
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.WaitDelay = time.Duration(constants.ProcessWaitDelaySec) * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if invocation.Stdin != "" {
		cmd.Stdin = strings.NewReader(invocation.Stdin)
	}

	i.logger.Debugf("Running %s %s [Run: %s %s]", name, strings.Join(args, " "), inst.Name, cfg)
	start := time.Now()
	runErr := cmd.Run()

	out := Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: constants.ExitCodeProcessKilled,
		WallTime: time.Since(start),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runErr == nil {
		return out, nil
	}

	if ctx.Err() != nil {
		return out, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		out.TimedOut = true
		i.logger.Warnf("Solver timed out after %s [Run: %s %s]", i.timeout, inst.Name, cfg)
		return out, fmt.Errorf("%w after %s", customErr.ErrInvocationTimeout, i.timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		i.logger.Warnf("Solver exited with code %d [Run: %s %s]", out.ExitCode, inst.Name, cfg)
		return out, fmt.Errorf("%w: %d", customErr.ErrSolverFailed, out.ExitCode)
	}

	if errors.Is(runErr, exec.ErrWaitDelay) {
		// The solver itself exited cleanly; a child kept the output pipes open.
		i.logger.Warnf("Solver left output pipes open [Run: %s %s]", inst.Name, cfg)
		return out, nil
	}

	i.logger.Errorf("Failed to run solver: %s [Run: %s %s]", runErr, inst.Name, cfg)
	return out, fmt.Errorf("failed to run solver %s: %w", i.exe, runErr)
}
