package messages

import (
	"encoding/json"

	"github.com/mini-maxit/solver-bench/pkg/grid"
	"github.com/mini-maxit/solver-bench/pkg/result"
)

type QueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	SweepID   string          `json:"sweep_id"`
	Payload   json.RawMessage `json:"payload"`
}

// RunResultPayload is the wire form of one RunResult. Fields the solver did
// not report, or that failed to parse, are null; their raw text is kept in
// Raw.
type RunResultPayload struct {
	Instance    string                `json:"instance"`
	Config      grid.RunConfiguration `json:"configuration"`
	Capacity    *int                  `json:"capacity"`
	TotalDemand *int                  `json:"total_demand"`
	NumRoutes   *int                  `json:"num_routes"`
	Cost        *float64              `json:"cost"`
	Time        *float64              `json:"time"`
	Gap         *float64              `json:"gap"`
	BestKnown   *float64              `json:"best_known"`
	Status      string                `json:"status"`
	Msg         string                `json:"msg"`
	ExitCode    int                   `json:"exit_code"`
	WallTimeMs  int64                 `json:"wall_time_ms"`
	Failure     string                `json:"failure,omitempty"`
	Raw         map[string]string     `json:"raw,omitempty"`
	Extra       map[string]string     `json:"extra,omitempty"`
}

type SweepDonePayload struct {
	Runs     int `json:"runs"`
	Failures int `json:"failures"`
}

func NewRunResultPayload(r result.RunResult) RunResultPayload {
	f := r.Fields
	p := RunResultPayload{
		Instance:    r.Instance,
		Config:      r.Configuration,
		Capacity:    parsedValue(f.Capacity),
		TotalDemand: parsedValue(f.TotalDemand),
		NumRoutes:   parsedValue(f.NumRoutes),
		Cost:        parsedValue(f.Cost),
		Time:        parsedValue(f.Time),
		Gap:         optionalValue(r.Gap),
		BestKnown:   optionalValue(r.BestKnown),
		Status:      f.Status.Raw,
		Msg:         f.Msg.Raw,
		ExitCode:    r.ExitCode,
		WallTimeMs:  r.WallTime.Milliseconds(),
		Failure:     r.Failure,
		Extra:       f.Extra,
	}
	if p.Status == "" {
		p.Status = r.Failure
	}
	if p.Msg == "" {
		p.Msg = r.FailureMessage
	}

	raw := map[string]string{}
	addUnparsed(raw, "capacity", f.Capacity)
	addUnparsed(raw, "total_demand", f.TotalDemand)
	addUnparsed(raw, "num_routes", f.NumRoutes)
	addUnparsed(raw, "cost", f.Cost)
	addUnparsed(raw, "time", f.Time)
	if len(raw) > 0 {
		p.Raw = raw
	}
	return p
}

func parsedValue[T any](f result.Field[T]) *T {
	if !f.IsParsed() {
		return nil
	}
	v := f.Value
	return &v
}

func optionalValue(o result.OptionalFloat) *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func addUnparsed[T any](raw map[string]string, key string, f result.Field[T]) {
	if f.State == result.Unparsed {
		raw[key] = f.Raw
	}
}
