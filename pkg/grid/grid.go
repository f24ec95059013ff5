package grid

import (
	"fmt"

	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/errors"
)

type HeuristicKind int

const (
	// Clarke & Wright savings construction.
	ClarkeWright HeuristicKind = iota + 1
	// Nearest insertion construction.
	NearestInsertion
	// GRASP randomized multi-start metaheuristic.
	GRASP
)

var HeuristicKindMap = map[string]HeuristicKind{
	"cw":    ClarkeWright,
	"ni":    NearestInsertion,
	"grasp": GRASP,
}

func (hk HeuristicKind) String() string {
	for key, value := range HeuristicKindMap {
		if value == hk {
			return key
		}
	}
	return "unknown"
}

func (hk HeuristicKind) MarshalText() ([]byte, error) {
	return []byte(hk.String()), nil
}

func (hk *HeuristicKind) UnmarshalText(text []byte) error {
	kind, err := ParseHeuristicKind(string(text))
	if err != nil {
		return err
	}
	*hk = kind
	return nil
}

func (hk HeuristicKind) IsMetaheuristic() bool {
	return hk == GRASP
}

func ParseHeuristicKind(s string) (HeuristicKind, error) {
	if kind, ok := HeuristicKindMap[s]; ok {
		return kind, nil
	}
	return 0, fmt.Errorf("%w: %q", errors.ErrUnknownHeuristic, s)
}

type LocalSearchKind int

const (
	NoLocalSearch LocalSearchKind = iota + 1
	Swap
	Relocate
	SwapAndRelocate
)

var LocalSearchKindMap = map[string]LocalSearchKind{
	"none":     NoLocalSearch,
	"swap":     Swap,
	"relocate": Relocate,
	"both":     SwapAndRelocate,
}

func (lk LocalSearchKind) String() string {
	for key, value := range LocalSearchKindMap {
		if value == lk {
			return key
		}
	}
	return "unknown"
}

func (lk LocalSearchKind) MarshalText() ([]byte, error) {
	return []byte(lk.String()), nil
}

func (lk *LocalSearchKind) UnmarshalText(text []byte) error {
	kind, err := ParseLocalSearchKind(string(text))
	if err != nil {
		return err
	}
	*lk = kind
	return nil
}

func ParseLocalSearchKind(s string) (LocalSearchKind, error) {
	if kind, ok := LocalSearchKindMap[s]; ok {
		return kind, nil
	}
	return 0, fmt.Errorf("%w: %q", errors.ErrUnknownLocalSearch, s)
}

// Heuristic binds a heuristic kind to its wire encodings. Code is passed as a
// positional argument, Selector is typed into the interactive menu.
type Heuristic struct {
	Kind     HeuristicKind `json:"kind"`
	Code     string        `json:"code"`
	Selector string        `json:"selector"`
}

type LocalSearch struct {
	Kind     LocalSearchKind `json:"kind"`
	Code     string          `json:"code"`
	Selector string          `json:"selector"`
}

type GraspParams struct {
	Iterations int `json:"iterations"`
	RCLSize    int `json:"rcl_size"`
}

// RunConfiguration is one point of the sweep. Grasp is set only for the
// metaheuristic, whose LocalSearch is always the "none" entry.
type RunConfiguration struct {
	Heuristic   Heuristic    `json:"heuristic"`
	LocalSearch LocalSearch  `json:"local_search"`
	Grasp       *GraspParams `json:"grasp,omitempty"`
}

func (rc RunConfiguration) String() string {
	if rc.Grasp != nil {
		return fmt.Sprintf("%s + %s (iters=%d, rcl=%d)",
			rc.Heuristic.Code, rc.LocalSearch.Code, rc.Grasp.Iterations, rc.Grasp.RCLSize)
	}
	return fmt.Sprintf("%s + %s", rc.Heuristic.Code, rc.LocalSearch.Code)
}

// Grid is the immutable experiment grid built once at startup.
type Grid struct {
	Heuristics    []Heuristic   `json:"heuristics"`
	LocalSearches []LocalSearch `json:"local_searches"`
	Grasp         GraspParams   `json:"grasp"`
	// ExitSelector ends an interactive solver session.
	ExitSelector string `json:"exit_selector"`
}

func DefaultGrid() Grid {
	return Grid{
		Heuristics: []Heuristic{
			{Kind: ClarkeWright, Code: "cw", Selector: "1"},
			{Kind: NearestInsertion, Code: "ni", Selector: "2"},
			{Kind: GRASP, Code: "grasp", Selector: "3"},
		},
		LocalSearches: []LocalSearch{
			{Kind: NoLocalSearch, Code: "none", Selector: "4"},
			{Kind: Swap, Code: "swap", Selector: "1"},
			{Kind: Relocate, Code: "relocate", Selector: "2"},
			{Kind: SwapAndRelocate, Code: "both", Selector: "3"},
		},
		Grasp: GraspParams{
			Iterations: constants.DefaultGraspIterations,
			RCLSize:    constants.DefaultGraspRCLSize,
		},
		ExitSelector: "4",
	}
}

// Validate checks the invariants the expansion relies on.
func (g Grid) Validate() error {
	if len(g.Heuristics) == 0 {
		return fmt.Errorf("%w: no heuristics", errors.ErrInvalidGrid)
	}
	seen := make(map[HeuristicKind]bool, len(g.Heuristics))
	hasMeta := false
	for _, h := range g.Heuristics {
		if h.Kind.String() == "unknown" {
			return fmt.Errorf("%w: heuristic kind %d", errors.ErrUnknownHeuristic, h.Kind)
		}
		if seen[h.Kind] {
			return fmt.Errorf("%w: heuristic %s listed twice", errors.ErrInvalidGrid, h.Kind)
		}
		seen[h.Kind] = true
		if h.Code == "" {
			return fmt.Errorf("%w: heuristic %s has no code", errors.ErrInvalidGrid, h.Kind)
		}
		if h.Kind.IsMetaheuristic() {
			hasMeta = true
		}
	}

	if _, ok := g.noneLocalSearch(); !ok {
		return fmt.Errorf("%w: local search list must contain %q", errors.ErrInvalidGrid, NoLocalSearch)
	}
	seenLS := make(map[LocalSearchKind]bool, len(g.LocalSearches))
	for _, ls := range g.LocalSearches {
		if ls.Kind.String() == "unknown" {
			return fmt.Errorf("%w: local search kind %d", errors.ErrUnknownLocalSearch, ls.Kind)
		}
		if seenLS[ls.Kind] {
			return fmt.Errorf("%w: local search %s listed twice", errors.ErrInvalidGrid, ls.Kind)
		}
		seenLS[ls.Kind] = true
		if ls.Code == "" {
			return fmt.Errorf("%w: local search %s has no code", errors.ErrInvalidGrid, ls.Kind)
		}
	}

	if hasMeta && (g.Grasp.Iterations <= 0 || g.Grasp.RCLSize <= 0) {
		return fmt.Errorf("%w: grasp iterations and rcl size must be positive", errors.ErrInvalidGrid)
	}
	return nil
}

func (g Grid) noneLocalSearch() (LocalSearch, bool) {
	for _, ls := range g.LocalSearches {
		if ls.Kind == NoLocalSearch {
			return ls, true
		}
	}
	return LocalSearch{}, false
}

// Configurations expands the grid in heuristic-major order. Constructive
// heuristics get one configuration per local search; the metaheuristic gets
// exactly one, paired with "none".
func (g Grid) Configurations() []RunConfiguration {
	none, _ := g.noneLocalSearch()
	configs := make([]RunConfiguration, 0, len(g.Heuristics)*len(g.LocalSearches))
	for _, h := range g.Heuristics {
		if h.Kind.IsMetaheuristic() {
			params := g.Grasp
			configs = append(configs, RunConfiguration{
				Heuristic:   h,
				LocalSearch: none,
				Grasp:       &params,
			})
			continue
		}
		for _, ls := range g.LocalSearches {
			configs = append(configs, RunConfiguration{Heuristic: h, LocalSearch: ls})
		}
	}
	return configs
}
