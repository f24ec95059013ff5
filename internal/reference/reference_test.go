package reference_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mini-maxit/solver-bench/internal/catalog"
	. "github.com/mini-maxit/solver-bench/internal/reference"
	pkgerrors "github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/tests"
)

func TestResolve_ExampleInstance(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, dir, "e051.sol", "Route #1: 1 2 3\nCOST : 524.61\n")

	r, err := NewResolver(dir)
	require.NoError(t, err)

	sol := r.Resolve(catalog.NewInstance("instances", "E051.dat"))
	assert.Equal(t, filepath.Join(dir, "e051.sol"), sol.Path)
	require.True(t, sol.BestKnown.Valid)
	assert.InDelta(t, 524.61, sol.BestKnown.Value, 1e-9)
}

func TestResolve_NoMatch(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, dir, "e051.sol", "COST : 524.61\n")

	r, err := NewResolver(dir)
	require.NoError(t, err)

	sol := r.Resolve(catalog.NewInstance("instances", "X01.dat"))
	assert.Empty(t, sol.Path)
	assert.False(t, sol.BestKnown.Valid)
}

func TestResolve_Idempotent(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, dir, "E016-opt.sol", "cost 411.3\n")

	r, err := NewResolver(dir)
	require.NoError(t, err)

	inst := catalog.NewInstance("instances", "E016.dat")
	first := r.Resolve(inst)
	second := r.Resolve(inst)
	assert.Equal(t, first, second)
	assert.True(t, first.BestKnown.Valid)
	assert.InDelta(t, 411.3, first.BestKnown.Value, 1e-9)
}

func TestFindSolutionFile_ExactMatchPreferred(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, dir, "e051.sol", "COST : 524.61\n")
	tests.WriteFile(t, dir, "E05.sol", "COST : 300\n")
	// sorts before E05.sol but is only a prefix match
	tests.WriteFile(t, dir, "E05-alt.sol", "COST : 310\n")

	r, err := NewResolver(dir)
	require.NoError(t, err)

	path, ok := r.FindSolutionFile("e05")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "E05.sol"), path)

	path, ok = r.FindSolutionFile("e051")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "e051.sol"), path)
}

func TestFindSolutionFile_PrefixFallbackIsLexicallyFirst(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, dir, "e05-b.sol", "COST : 2\n")
	tests.WriteFile(t, dir, "e05-a.sol", "COST : 1\n")

	r, err := NewResolver(dir)
	require.NoError(t, err)

	path, ok := r.FindSolutionFile("e05")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "e05-a.sol"), path)
}

func TestFindSolutionFile_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, filepath.Join(dir, "e051"), "inner.sol", "COST : 1\n")

	r, err := NewResolver(dir)
	require.NoError(t, err)

	_, ok := r.FindSolutionFile("e051")
	assert.False(t, ok)
}

func TestNewResolver_MissingDir(t *testing.T) {
	_, err := NewResolver(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, pkgerrors.ErrSolutionsDirUnreadable) {
		t.Fatalf("expected ErrSolutionsDirUnreadable, got: %v", err)
	}
}

func TestParseCostLine(t *testing.T) {
	cases := []struct {
		line string
		want float64
		ok   bool
	}{
		{"COST : 524.61", 524.61, true},
		{"COST    :723.541", 723.541, true},
		{"  cost: 10", 10, true},
		{"Cost 411.3", 411.3, true},
		{"COST = 12.5 units", 12.5, true},
		{"COST : approx 99", 99, true},
		{"COST : unknown", 0, false},
		{"COST", 0, false},
		{"COST : NaN", 0, false},
	}

	for _, c := range cases {
		got, ok := ParseCostLine(c.line)
		if ok != c.ok {
			t.Fatalf("ParseCostLine(%q) ok = %v, want %v", c.line, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("ParseCostLine(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func TestReadBestCost(t *testing.T) {
	dir := t.TempDir()

	noCost := tests.WriteFile(t, dir, "a.sol", "Route #1: 1 2\nRoute #2: 3\n")
	_, ok, err := ReadBestCost(noCost)
	require.NoError(t, err)
	assert.False(t, ok)

	skipped := tests.WriteFile(t, dir, "b.sol", "COST : pending\nCOST : 77.5\n")
	cost, ok, err := ReadBestCost(skipped)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 77.5, cost)

	_, _, err = ReadBestCost(filepath.Join(dir, "missing.sol"))
	assert.Error(t, err)
}
