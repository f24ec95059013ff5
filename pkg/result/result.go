package result

import (
	"math"
	"strconv"
	"time"

	"github.com/mini-maxit/solver-bench/pkg/grid"
)

type FieldState int

const (
	// The solver did not emit the key.
	Absent FieldState = iota
	// The value was coerced to its typed form.
	Parsed
	// The key was present but its value failed coercion; Raw holds the text.
	Unparsed
)

// Field is a single solver output value that can be absent, typed, or kept
// as its raw text when coercion failed.
type Field[T any] struct {
	State FieldState
	Value T
	Raw   string
}

func ParsedField[T any](value T, raw string) Field[T] {
	return Field[T]{State: Parsed, Value: value, Raw: raw}
}

func UnparsedField[T any](raw string) Field[T] {
	return Field[T]{State: Unparsed, Raw: raw}
}

func (f Field[T]) IsParsed() bool {
	return f.State == Parsed
}

// Fields is the structured form of the solver's KEY: value output.
type Fields struct {
	Capacity    Field[int]
	TotalDemand Field[int]
	NumRoutes   Field[int]
	Cost        Field[float64]
	Time        Field[float64]
	Status      Field[string]
	Msg         Field[string]
	// Extra holds every key that is not one of the fields above.
	Extra map[string]string
}

// OptionalFloat is a float64 that may be missing.
type OptionalFloat struct {
	Valid bool
	Value float64
}

func Some(v float64) OptionalFloat {
	return OptionalFloat{Valid: true, Value: v}
}

func None() OptionalFloat {
	return OptionalFloat{}
}

// Gap returns 100*(cost-best)/best when the cost was parsed and a non-zero
// best-known cost exists.
func Gap(cost Field[float64], best OptionalFloat) OptionalFloat {
	if !cost.IsParsed() || !best.Valid || best.Value == 0 {
		return None()
	}
	gap := 100 * (cost.Value - best.Value) / best.Value
	if math.IsNaN(gap) || math.IsInf(gap, 0) {
		return None()
	}
	return Some(gap)
}

// RunResult is one completed solver invocation. It is not modified after it
// has been appended to the sweep results.
type RunResult struct {
	Instance      string
	InstancePath  string
	Configuration grid.RunConfiguration
	Stdout        string
	Stderr        string
	ExitCode      int
	WallTime      time.Duration
	Fields        Fields
	Gap           OptionalFloat
	BestKnown     OptionalFloat
	// Failure is empty for runs that completed, otherwise a marker such as
	// "timeout" or "error", with FailureMessage describing it.
	Failure        string
	FailureMessage string
}

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (o OptionalFloat) String() string {
	if !o.Valid {
		return ""
	}
	return FormatFloat(o.Value)
}
