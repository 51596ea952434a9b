// Package steps defines the workflow's step graph: pure functions that
// enumerate the ordered notebook steps for a hydrated configuration. Three
// families exist: historical steps shared across all scenarios, per-scenario
// steps, and a final cross-scenario finalisation step set.
package steps

import (
	"fmt"

	"github.com/climres/h2pipeline/internal/notebook"
)

const (
	// HistoricalStub identifies the shared historical step family; it is
	// deliberately not derived from any scenario.
	HistoricalStub = "historical"

	// FinaliseStub identifies the cross-scenario finalisation step family.
	FinaliseStub = "finalise"
)

// resolve converts builder steps into resolved notebook steps and asserts
// task-name uniqueness. Duplicate names would be silently merged or skipped
// by a task runner, so they are rejected at graph-generation time.
func resolve(builders []notebook.SingleNotebookDirStep, stub, rawNotebooksDir, outputNotebookDir string) ([]notebook.NotebookStep, error) {
	out := make([]notebook.NotebookStep, 0, len(builders))
	seen := make(map[string]struct{}, len(builders))

	for _, b := range builders {
		step := b.ToNotebookStep(stub, rawNotebooksDir, outputNotebookDir)
		if _, dup := seen[step.TaskName()]; dup {
			return nil, fmt.Errorf("duplicate step name %q in %s steps", step.TaskName(), stub)
		}
		seen[step.TaskName()] = struct{}{}
		out = append(out, step)
	}
	return out, nil
}
