package reference

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/mini-maxit/solver-bench/internal/catalog"
	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/pkg/result"
)

// Solution is the best-known reference for one instance. Path is empty when
// no solution file matched.
type Solution struct {
	Path      string
	BestKnown result.OptionalFloat
}

type Resolver struct {
	logger *zap.SugaredLogger
	dir    string
	// names are the solution file names sorted lexically.
	names []string
	fold  cases.Caser

	mu       sync.Mutex
	resolved map[string]Solution
}

// NewResolver lists dir once. The listing is reused for every instance, so
// files added during a sweep are not seen.
func NewResolver(dir string) (*Resolver, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrSolutionsDirUnreadable, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return &Resolver{
		logger:   logger.NewNamedLogger("reference"),
		dir:      dir,
		names:    names,
		fold:     cases.Fold(),
		resolved: make(map[string]Solution),
	}, nil
}

// FindSolutionFile returns the solution file for an instance base name. A
// file whose extension-less name equals the base name wins over files that
// merely start with it; among prefix matches the lexically first one is used,
// even when several share the prefix.
func (r *Resolver) FindSolutionFile(baseName string) (string, bool) {
	key := r.fold.String(baseName)
	if key == "" {
		return "", false
	}

	prefixMatch := ""
	for _, name := range r.names {
		folded := r.fold.String(name)
		if !strings.HasPrefix(folded, key) {
			continue
		}
		if r.fold.String(catalog.BaseName(name)) == key {
			return filepath.Join(r.dir, name), true
		}
		if prefixMatch == "" {
			prefixMatch = name
		}
	}

	if prefixMatch == "" {
		return "", false
	}
	return filepath.Join(r.dir, prefixMatch), true
}

// Resolve finds the reference solution of inst and its best-known cost. The
// outcome is cached per base name, so repeated calls return the same value.
func (r *Resolver) Resolve(inst catalog.Instance) Solution {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sol, ok := r.resolved[inst.BaseName]; ok {
		return sol
	}

	sol := Solution{}
	path, found := r.FindSolutionFile(inst.BaseName)
	if !found {
		r.logger.Infof("No reference solution for %s", inst.Name)
	} else {
		sol.Path = path
		cost, ok, err := ReadBestCost(path)
		switch {
		case err != nil:
			r.logger.Warnf("Failed to read reference solution %s: %s", path, err)
		case !ok:
			r.logger.Warnf("Reference solution %s has no parseable %s line", path, constants.CostLinePrefix)
		default:
			sol.BestKnown = result.Some(cost)
			r.logger.Debugf("Best known cost for %s is %s (%s)", inst.Name, result.FormatFloat(cost), path)
		}
	}

	r.resolved[inst.BaseName] = sol
	return sol
}

// ReadBestCost returns the number on the first COST line that carries one.
func ReadBestCost(path string) (float64, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(line)), constants.CostLinePrefix) {
			continue
		}
		if cost, ok := ParseCostLine(line); ok {
			return cost, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

// ParseCostLine extracts the cost from a line such as "COST : 524.61" or
// "Cost 524.61". The text after the first colon is tried first, then each
// whitespace separated token.
func ParseCostLine(line string) (float64, bool) {
	if _, after, found := strings.Cut(line, ":"); found {
		if v, ok := parseCost(strings.TrimSpace(after)); ok {
			return v, true
		}
	}
	for _, token := range strings.Fields(line) {
		if v, ok := parseCost(token); ok {
			return v, true
		}
	}
	return 0, false
}

func parseCost(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
