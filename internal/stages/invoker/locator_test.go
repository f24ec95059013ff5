package invoker_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/mini-maxit/solver-bench/internal/stages/invoker"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	pkgerrors "github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/tests"
)

func TestLocate_FirstExecutableCandidateWins(t *testing.T) {
	dir := t.TempDir()
	notExec := tests.WriteFile(t, dir, "build/bin/main_experiment", "not executable")
	second := tests.WriteScript(t, dir, "build/main_experiment", "echo hi\n")
	third := tests.WriteScript(t, dir, "main_experiment", "echo hi\n")

	exe, err := Locate([]string{notExec, filepath.Join(dir, "missing"), second, third}, "")
	require.NoError(t, err)
	assert.Equal(t, second, exe.Path)
	assert.Empty(t, exe.Launcher)
}

func TestLocate_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, dir, "bin/placeholder", "")
	solver := tests.WriteScript(t, dir, "solver", "echo hi\n")

	exe, err := Locate([]string{filepath.Join(dir, "bin"), solver}, "")
	require.NoError(t, err)
	assert.Equal(t, solver, exe.Path)
}

func TestLocate_FallsBackToExecutableWrapper(t *testing.T) {
	dir := t.TempDir()
	wrapper := tests.WriteScript(t, dir, "run_experiment.sh", "echo hi\n")

	exe, err := Locate([]string{filepath.Join(dir, "missing")}, wrapper)
	require.NoError(t, err)
	assert.Equal(t, wrapper, exe.Path)
	assert.Empty(t, exe.Launcher)
}

func TestLocate_NonExecutableWrapperUsesShell(t *testing.T) {
	dir := t.TempDir()
	wrapper := tests.WriteFile(t, dir, "run_experiment.sh", "echo hi\n")

	exe, err := Locate([]string{filepath.Join(dir, "missing")}, wrapper)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.ShellInterpreter}, exe.Launcher)

	name, args := exe.Command([]string{"a.dat", "cw", "none"})
	assert.Equal(t, constants.ShellInterpreter, name)
	assert.Equal(t, []string{wrapper, "a.dat", "cw", "none"}, args)
}

func TestLocate_NothingResolves(t *testing.T) {
	dir := t.TempDir()
	_, err := Locate([]string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}, filepath.Join(dir, "run.sh"))
	if !errors.Is(err, pkgerrors.ErrSolverNotFound) {
		t.Fatalf("expected ErrSolverNotFound, got: %v", err)
	}
}

func TestExecutable_CommandDirect(t *testing.T) {
	exe := Executable{Path: "/opt/solver"}
	name, args := exe.Command([]string{"x.dat", "ni", "swap"})
	assert.Equal(t, "/opt/solver", name)
	assert.Equal(t, []string{"x.dat", "ni", "swap"}, args)
	assert.Equal(t, "/opt/solver", exe.String())
}
