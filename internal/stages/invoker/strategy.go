package invoker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mini-maxit/solver-bench/internal/catalog"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/pkg/grid"
)

// Invocation is what gets handed to the solver process.
type Invocation struct {
	Args  []string
	Stdin string
}

// Strategy encodes a run configuration in the calling convention the solver
// expects. One strategy is used for a whole sweep.
type Strategy interface {
	Name() string
	Build(inst catalog.Instance, cfg grid.RunConfiguration) Invocation
}

func NewStrategy(protocol string, g grid.Grid) (Strategy, error) {
	switch protocol {
	case constants.ProtocolArgs:
		return ArgsStrategy{}, nil
	case constants.ProtocolStdin:
		return StdinStrategy{ExitSelector: g.ExitSelector}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrInvalidProtocol, protocol)
	}
}

// ArgsStrategy passes everything as positional arguments:
// path heuristic local_search [iterations rcl_size].
type ArgsStrategy struct{}

func (ArgsStrategy) Name() string { return constants.ProtocolArgs }

func (ArgsStrategy) Build(inst catalog.Instance, cfg grid.RunConfiguration) Invocation {
	args := []string{inst.Path, cfg.Heuristic.Code, cfg.LocalSearch.Code}
	if cfg.Grasp != nil {
		args = append(args,
			strconv.Itoa(cfg.Grasp.Iterations),
			strconv.Itoa(cfg.Grasp.RCLSize))
	}
	return Invocation{Args: args}
}

// StdinStrategy drives the solver's interactive menu: the instance path, the
// heuristic selector, the GRASP parameters when needed, the operator selector
// and finally the exit selector, one per line.
type StdinStrategy struct {
	ExitSelector string
}

func (StdinStrategy) Name() string { return constants.ProtocolStdin }

func (s StdinStrategy) Build(inst catalog.Instance, cfg grid.RunConfiguration) Invocation {
	lines := []string{inst.Path, cfg.Heuristic.Selector}
	if cfg.Grasp != nil {
		lines = append(lines,
			strconv.Itoa(cfg.Grasp.Iterations),
			strconv.Itoa(cfg.Grasp.RCLSize))
	}
	lines = append(lines, cfg.LocalSearch.Selector, s.ExitSelector)
	return Invocation{Stdin: strings.Join(lines, "\n") + "\n"}
}
