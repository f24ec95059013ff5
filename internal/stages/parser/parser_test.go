package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/mini-maxit/solver-bench/internal/stages/parser"
	"github.com/mini-maxit/solver-bench/pkg/result"
)

func TestParse_SolverOutput(t *testing.T) {
	stdout := "instance:instancias/E051.dat\n" +
		"capacity:160\n" +
		"total_demand:777\n" +
		"heuristic:cw\n" +
		"local_search:swap\n" +
		"cost:530.25\n" +
		"num_routes:5\n" +
		"time:0.0123\n" +
		"status:ok\n"

	fields := Parse(stdout)

	assert.Equal(t, result.ParsedField(160, "160"), fields.Capacity)
	assert.Equal(t, result.ParsedField(777, "777"), fields.TotalDemand)
	assert.Equal(t, result.ParsedField(5, "5"), fields.NumRoutes)
	assert.Equal(t, result.ParsedField(530.25, "530.25"), fields.Cost)
	assert.Equal(t, result.ParsedField(0.0123, "0.0123"), fields.Time)
	assert.Equal(t, "ok", fields.Status.Value)
	assert.Equal(t, result.Absent, fields.Msg.State)
	assert.Equal(t, "instancias/E051.dat", fields.Extra["instance"])
	assert.Equal(t, "cw", fields.Extra["heuristic"])
}

func TestParse_UppercaseKeys(t *testing.T) {
	fields := Parse("COST: 530.0\nTIME: 1.23")
	assert.True(t, fields.Cost.IsParsed())
	assert.Equal(t, 530.0, fields.Cost.Value)
	assert.Equal(t, 1.23, fields.Time.Value)
	assert.Empty(t, fields.Extra)
}

func TestParse_IntegerFieldsTruncateFloats(t *testing.T) {
	fields := Parse("capacity: 160.9\nnum_routes: -2.7\ntotal_demand: 1e3")
	assert.Equal(t, 160, fields.Capacity.Value)
	assert.Equal(t, -2, fields.NumRoutes.Value)
	assert.Equal(t, 1000, fields.TotalDemand.Value)
}

func TestParse_CoercionFailureKeepsRaw(t *testing.T) {
	fields := Parse("cost: n/a\ncapacity: big\nnum_routes: nan\ntime:")

	assert.Equal(t, result.Unparsed, fields.Cost.State)
	assert.Equal(t, "n/a", fields.Cost.Raw)
	assert.Equal(t, result.Unparsed, fields.Capacity.State)
	assert.Equal(t, "big", fields.Capacity.Raw)
	assert.Equal(t, result.Unparsed, fields.NumRoutes.State)
	assert.Equal(t, result.Unparsed, fields.Time.State)
	assert.Equal(t, "", fields.Time.Raw)
}

func TestParse_LastDuplicateWins(t *testing.T) {
	fields := Parse("cost: 10\nsomething else\ncost: 12.5\n")
	assert.Equal(t, 12.5, fields.Cost.Value)
}

func TestParse_SplitsOnFirstColon(t *testing.T) {
	fields := Parse("msg: error: file not found\nstarted at: 12:30:01")
	assert.Equal(t, "error: file not found", fields.Msg.Value)
	assert.Equal(t, "12:30:01", fields.Extra["started at"])
}

func TestParse_DegenerateOutput(t *testing.T) {
	cases := []string{
		"",
		"\n\n\n",
		"Segmentation fault",
		": no key here",
		"La heuristica no encontro una solucion factible.",
	}
	for _, stdout := range cases {
		fields := Parse(stdout)
		if fields.Cost.State != result.Absent {
			t.Fatalf("expected absent cost for %q, got %+v", stdout, fields.Cost)
		}
		if len(fields.Extra) != 0 {
			t.Fatalf("expected no extra keys for %q, got %v", stdout, fields.Extra)
		}
	}
}

func TestParse_WindowsLineEndings(t *testing.T) {
	fields := Parse("cost: 42.5\r\nstatus: ok\r\n")
	assert.Equal(t, 42.5, fields.Cost.Value)
	assert.Equal(t, "ok", fields.Status.Value)
}

func TestRawPairs_UnknownKeysVerbatim(t *testing.T) {
	pairs := RawPairs("Route 1: 0 3 5 0\nCost: 7")
	assert.Equal(t, "0 3 5 0", pairs["Route 1"])
	assert.Equal(t, "7", pairs["cost"])
}
