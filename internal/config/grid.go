package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/pkg/grid"
)

const gridSchemaName = "grid.schema.json"

//go:embed grid.schema.json
var gridSchemaData []byte

var (
	gridSchema     *jsonschema.Schema
	compileOnce    sync.Once
	compileGridErr error
)

func compileGridSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(gridSchemaData))
		if err != nil {
			compileGridErr = fmt.Errorf("unmarshal grid schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(gridSchemaName, doc); err != nil {
			compileGridErr = fmt.Errorf("add grid schema resource: %w", err)
			return
		}

		gridSchema, err = compiler.Compile(gridSchemaName)
		if err != nil {
			compileGridErr = fmt.Errorf("compile grid schema: %w", err)
		}
	})

	return compileGridErr
}

// ValidateGrid checks YAML grid data against the embedded schema.
func ValidateGrid(data []byte) error {
	if err := compileGridSchema(); err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: invalid YAML: %w", pkgerrors.ErrInvalidGrid, err)
	}

	// The validator expects JSON-shaped values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrInvalidGrid, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrInvalidGrid, err)
	}

	if err := gridSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrInvalidGrid, err)
	}
	return nil
}

type gridEntry struct {
	Kind     string `yaml:"kind"`
	Code     string `yaml:"code"`
	Selector string `yaml:"selector"`
}

// UnmarshalYAML accepts either a bare kind name or a mapping.
func (e *gridEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Kind = node.Value
		return nil
	}
	type plain gridEntry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = gridEntry(p)
	return nil
}

type gridFile struct {
	Heuristics    []gridEntry `yaml:"heuristics"`
	LocalSearches []gridEntry `yaml:"local_searches"`
	Grasp         *struct {
		Iterations int `yaml:"iterations"`
		RCLSize    int `yaml:"rcl_size"`
	} `yaml:"grasp"`
	ExitSelector string `yaml:"exit_selector"`
}

// LoadGrid returns the default grid when path is empty, otherwise the grid
// described by the YAML file at path. Entries omitted from the file keep
// their default codes and selectors.
func LoadGrid(path string) (grid.Grid, error) {
	if path == "" {
		return grid.DefaultGrid(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return grid.Grid{}, fmt.Errorf("%w: %w", pkgerrors.ErrInvalidGrid, err)
	}
	return ParseGrid(data)
}

func ParseGrid(data []byte) (grid.Grid, error) {
	if err := ValidateGrid(data); err != nil {
		return grid.Grid{}, err
	}

	var file gridFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return grid.Grid{}, fmt.Errorf("%w: %w", pkgerrors.ErrInvalidGrid, err)
	}

	defaults := grid.DefaultGrid()
	g := defaults

	if len(file.Heuristics) > 0 {
		g.Heuristics = make([]grid.Heuristic, 0, len(file.Heuristics))
		for _, entry := range file.Heuristics {
			kind, err := grid.ParseHeuristicKind(entry.Kind)
			if err != nil {
				return grid.Grid{}, err
			}
			h := grid.Heuristic{Kind: kind, Code: entry.Kind}
			for _, d := range defaults.Heuristics {
				if d.Kind == kind {
					h = d
				}
			}
			if entry.Code != "" {
				h.Code = entry.Code
			}
			if entry.Selector != "" {
				h.Selector = entry.Selector
			}
			g.Heuristics = append(g.Heuristics, h)
		}
	}

	if len(file.LocalSearches) > 0 {
		g.LocalSearches = make([]grid.LocalSearch, 0, len(file.LocalSearches))
		for _, entry := range file.LocalSearches {
			kind, err := grid.ParseLocalSearchKind(entry.Kind)
			if err != nil {
				return grid.Grid{}, err
			}
			ls := grid.LocalSearch{Kind: kind, Code: entry.Kind}
			for _, d := range defaults.LocalSearches {
				if d.Kind == kind {
					ls = d
				}
			}
			if entry.Code != "" {
				ls.Code = entry.Code
			}
			if entry.Selector != "" {
				ls.Selector = entry.Selector
			}
			g.LocalSearches = append(g.LocalSearches, ls)
		}
	}

	if file.Grasp != nil {
		if file.Grasp.Iterations != 0 {
			g.Grasp.Iterations = file.Grasp.Iterations
		}
		if file.Grasp.RCLSize != 0 {
			g.Grasp.RCLSize = file.Grasp.RCLSize
		}
	}
	if file.ExitSelector != "" {
		g.ExitSelector = file.ExitSelector
	}

	if err := g.Validate(); err != nil {
		return grid.Grid{}, err
	}
	return g, nil
}
