// Package notebook models a single processing step as a notebook execution
// with declared dependencies and targets, and defines the contract for the
// external notebook executor.
package notebook

import (
	"fmt"
	"path/filepath"
)

// unexecutedSuffix keeps the templated-but-not-yet-run notebook artifact
// distinct from the executed one in the same output directory.
const unexecutedSuffix = "-unexecuted"

// SingleNotebookDirStep is the builder form of a step: the notebook is named
// relative to a shared raw-notebooks directory and not yet resolved to
// absolute paths.
type SingleNotebookDirStep struct {
	// Name of the step. The (Name, stub) pair must be unique within a run.
	Name string

	// Doc is a human-readable description of the step.
	Doc string

	// Notebook is the directory-relative notebook name, without extension.
	Notebook string

	// RawExt is the extension of the raw notebook, typically ".py" or ".md".
	RawExt string

	// Dependencies are the paths the notebook's outputs depend on.
	Dependencies []string

	// Targets are the paths this notebook creates. Must be non-empty for any
	// step other than pure validation/comparison steps; a step without
	// targets can never be considered done.
	Targets []string

	// Configuration is the hashable payload used for change detection. When
	// set, the step re-runs whenever any field reachable from it changes,
	// and is insulated from unrelated config edits. When nil, the whole
	// hydrated config file becomes a dependency instead.
	Configuration any

	// Suffix disambiguates multiple runs of the same notebook template for
	// different named sub-configurations, e.g. spatial sub-regions.
	Suffix string

	// Parameters are extra notebook parameters beyond the implicit
	// config-file parameter.
	Parameters map[string]string
}

// NotebookStep is the resolved form of a step with fully-qualified paths.
// Steps are pure data: constructed fresh on every graph generation, never
// mutated.
type NotebookStep struct {
	Name string
	Stub string
	Doc  string

	RawNotebook        string
	UnexecutedNotebook string
	ExecutedNotebook   string

	Dependencies []string
	Targets      []string

	Configuration any
	Parameters    map[string]string
}

// TaskName is the unique key for this step within a run's full task set.
func (s NotebookStep) TaskName() string {
	return fmt.Sprintf("%s_%s", s.Name, s.Stub)
}

// ToNotebookStep resolves the builder into a NotebookStep, assuming all raw
// notebooks live under rawNotebooksDir and all output notebooks (executed
// and unexecuted) are written under outputNotebookDir.
func (s SingleNotebookDirStep) ToNotebookStep(stub, rawNotebooksDir, outputNotebookDir string) NotebookStep {
	name := s.Name
	if name == "" {
		name = s.Notebook
	}

	outputBase := s.Notebook
	if s.Suffix != "" {
		outputBase = fmt.Sprintf("%s_%s", s.Notebook, s.Suffix)
	}

	return NotebookStep{
		Name:               name,
		Stub:               stub,
		Doc:                s.Doc,
		RawNotebook:        filepath.Join(rawNotebooksDir, s.Notebook+s.RawExt),
		UnexecutedNotebook: filepath.Join(outputNotebookDir, outputBase+unexecutedSuffix+".ipynb"),
		ExecutedNotebook:   filepath.Join(outputNotebookDir, outputBase+".ipynb"),
		Dependencies:       s.Dependencies,
		Targets:            s.Targets,
		Configuration:      s.Configuration,
		Parameters:         s.Parameters,
	}
}
