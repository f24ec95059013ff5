package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/errors"
)

// Instance is one problem file found in the instance directory.
type Instance struct {
	Name string
	Path string
	// BaseName is the lowercased file name without extension, used to find the
	// matching reference solution.
	BaseName string
}

func NewInstance(dir, name string) Instance {
	return Instance{
		Name:     name,
		Path:     filepath.Join(dir, name),
		BaseName: BaseName(name),
	}
}

// BaseName lowercases name and strips its extension.
func BaseName(name string) string {
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// IsInstanceFile reports whether name has the instance extension, ignoring case.
func IsInstanceFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), constants.InstanceFileExt)
}

// List returns the instance files of dir sorted by name.
func List(dir string) ([]Instance, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrInstanceDirUnreadable, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsInstanceFile(entry.Name()) {
			continue
		}
		if !entry.Type().IsRegular() {
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	instances := make([]Instance, len(names))
	for i, name := range names {
		instances[i] = NewInstance(dir, name)
	}
	return instances, nil
}
