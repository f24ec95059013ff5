package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/internal/sysinfo"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/grid"
	"github.com/mini-maxit/solver-bench/pkg/result"
	"github.com/mini-maxit/solver-bench/utils"
)

// Report columns.
const (
	ColInstance    = "instance"
	ColCapacity    = "capacity"
	ColTotalDemand = "total_demand"
	ColHeuristic   = "heuristic"
	ColLocalSearch = "local_search"
	ColCost        = "cost"
	ColNumRoutes   = "num_routes"
	ColTime        = "time"
	ColGap         = "gap"
	ColBestKnown   = "best_known"
	ColStatus      = "status"
	ColMsg         = "msg"
)

func DefaultColumns() []string {
	return []string{
		ColInstance, ColCapacity, ColTotalDemand, ColHeuristic, ColLocalSearch,
		ColCost, ColNumRoutes, ColTime, ColGap, ColBestKnown, ColStatus, ColMsg,
	}
}

// Metadata is written next to the report and describes how it was produced.
type Metadata struct {
	SweepID    string       `json:"sweep_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Solver     string       `json:"solver"`
	Protocol   string       `json:"protocol"`
	TimeoutSec int          `json:"timeout_sec"`
	Grid       grid.Grid    `json:"grid"`
	System     sysinfo.Info `json:"system"`
	Instances  int          `json:"instances"`
	Runs       int          `json:"runs"`
	Failures   int          `json:"failures"`
}

type Writer struct {
	logger  *zap.SugaredLogger
	columns []string
}

// NewWriter uses the default columns followed by extraColumns. Extra columns
// are filled from solver output keys of the same name.
func NewWriter(extraColumns []string) *Writer {
	columns := DefaultColumns()
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	for _, c := range extraColumns {
		if c == "" || known[c] {
			continue
		}
		known[c] = true
		columns = append(columns, c)
	}

	return &Writer{
		logger:  logger.NewNamedLogger("report"),
		columns: columns,
	}
}

func (w *Writer) Columns() []string {
	return append([]string(nil), w.columns...)
}

// Write replaces the file at path with a header and one row per result.
func (w *Writer) Write(path string, results []result.RunResult) error {
	err := utils.WriteFileAtomic(path, constants.ReportTmpPattern, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(w.columns); err != nil {
			return err
		}
		for _, r := range results {
			if err := cw.Write(w.Row(r)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		w.logger.Errorf("Failed to write report %s: %s", path, err)
		return err
	}

	w.logger.Infof("Wrote %d rows to %s", len(results), path)
	return nil
}

// WriteMetadata writes meta as indented JSON to the sidecar of reportPath.
func (w *Writer) WriteMetadata(reportPath string, meta Metadata) error {
	path := MetadataPath(reportPath)
	return utils.WriteFileAtomic(path, constants.ReportTmpPattern, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
}

func MetadataPath(reportPath string) string {
	return reportPath + constants.MetadataFileSuffix
}

// Row projects r onto the writer's columns. Missing values are empty strings.
func (w *Writer) Row(r result.RunResult) []string {
	row := make([]string, len(w.columns))
	for i, col := range w.columns {
		row[i] = cell(r, col)
	}
	return row
}

func cell(r result.RunResult, col string) string {
	f := r.Fields
	switch col {
	case ColInstance:
		return r.Instance
	case ColCapacity:
		return intCell(f.Capacity)
	case ColTotalDemand:
		return intCell(f.TotalDemand)
	case ColHeuristic:
		return r.Configuration.Heuristic.Code
	case ColLocalSearch:
		return r.Configuration.LocalSearch.Code
	case ColCost:
		return floatCell(f.Cost)
	case ColNumRoutes:
		return intCell(f.NumRoutes)
	case ColTime:
		return floatCell(f.Time)
	case ColGap:
		return r.Gap.String()
	case ColBestKnown:
		return r.BestKnown.String()
	case ColStatus:
		if f.Status.State != result.Absent {
			return f.Status.Raw
		}
		return r.Failure
	case ColMsg:
		if f.Msg.State != result.Absent {
			return f.Msg.Raw
		}
		return r.FailureMessage
	default:
		return f.Extra[col]
	}
}

func intCell(f result.Field[int]) string {
	switch f.State {
	case result.Parsed:
		return strconv.Itoa(f.Value)
	case result.Unparsed:
		return f.Raw
	default:
		return ""
	}
}

func floatCell(f result.Field[float64]) string {
	switch f.State {
	case result.Parsed:
		return result.FormatFloat(f.Value)
	case result.Unparsed:
		return f.Raw
	default:
		return ""
	}
}
