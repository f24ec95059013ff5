package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/mini-maxit/solver-bench/pkg/result"
)

// Known solver output keys. They are matched case-insensitively so that
// "COST: 1" and "cost: 1" fill the same field.
const (
	KeyCapacity    = "capacity"
	KeyTotalDemand = "total_demand"
	KeyNumRoutes   = "num_routes"
	KeyCost        = "cost"
	KeyTime        = "time"
	KeyStatus      = "status"
	KeyMsg         = "msg"
)

// Parse turns solver stdout into structured fields. Lines without a colon are
// ignored and a later line overrides an earlier one with the same key.
// Values that fail numeric coercion keep their raw text.
func Parse(stdout string) result.Fields {
	raw := RawPairs(stdout)

	fields := result.Fields{Extra: make(map[string]string)}
	for key, value := range raw {
		switch strings.ToLower(key) {
		case KeyCapacity:
			fields.Capacity = parseInt(value)
		case KeyTotalDemand:
			fields.TotalDemand = parseInt(value)
		case KeyNumRoutes:
			fields.NumRoutes = parseInt(value)
		case KeyCost:
			fields.Cost = parseFloat(value)
		case KeyTime:
			fields.Time = parseFloat(value)
		case KeyStatus:
			fields.Status = result.ParsedField(value, value)
		case KeyMsg:
			fields.Msg = result.ParsedField(value, value)
		default:
			fields.Extra[key] = value
		}
	}
	return fields
}

// RawPairs splits each "key: value" line on its first colon. Known keys are
// stored lowercased, everything else verbatim.
func RawPairs(stdout string) map[string]string {
	pairs := make(map[string]string)
	for _, line := range strings.Split(stdout, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if isKnownKey(key) {
			key = strings.ToLower(key)
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs
}

func isKnownKey(key string) bool {
	switch strings.ToLower(key) {
	case KeyCapacity, KeyTotalDemand, KeyNumRoutes, KeyCost, KeyTime, KeyStatus, KeyMsg:
		return true
	}
	return false
}

func parseFloat(value string) result.Field[float64] {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return result.UnparsedField[float64](value)
	}
	return result.ParsedField(v, value)
}

// parseInt accepts "12" as well as "12.0" and truncates toward zero.
func parseInt(value string) result.Field[int] {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return result.UnparsedField[int](value)
	}
	t := math.Trunc(v)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return result.UnparsedField[int](value)
	}
	return result.ParsedField(int(t), value)
}
