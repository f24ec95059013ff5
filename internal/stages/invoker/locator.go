package invoker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/errors"
)

// Executable is the resolved solver. Launcher is non-empty when the solver is
// a script that has to be started through an interpreter.
type Executable struct {
	Path     string
	Launcher []string
}

// Command returns the program name and full argument list for one run.
func (e Executable) Command(args []string) (string, []string) {
	if len(e.Launcher) == 0 {
		return e.Path, args
	}
	full := make([]string, 0, len(e.Launcher)+len(args))
	full = append(full, e.Launcher[1:]...)
	full = append(full, e.Path)
	full = append(full, args...)
	return e.Launcher[0], full
}

func (e Executable) String() string {
	if len(e.Launcher) == 0 {
		return e.Path
	}
	return strings.Join(e.Launcher, " ") + " " + e.Path
}

// Locate returns the first candidate that is an executable regular file. When
// none is, the wrapper script is used, through /bin/sh if it lacks the
// execute bit.
func Locate(candidates []string, wrapper string) (Executable, error) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if isExecutableFile(candidate) {
			return Executable{Path: absPath(candidate)}, nil
		}
	}

	if wrapper != "" {
		info, err := os.Stat(wrapper)
		if err == nil && info.Mode().IsRegular() {
			if info.Mode().Perm()&0o111 != 0 {
				return Executable{Path: absPath(wrapper)}, nil
			}
			return Executable{
				Path:     absPath(wrapper),
				Launcher: []string{constants.ShellInterpreter},
			}, nil
		}
	}

	return Executable{}, fmt.Errorf("%w: tried %s and wrapper %q",
		errors.ErrSolverNotFound, strings.Join(candidates, ", "), wrapper)
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
