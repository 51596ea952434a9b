package task

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/climres/h2pipeline/internal/config"
	"github.com/climres/h2pipeline/internal/notebook"
	"github.com/climres/h2pipeline/internal/steps"
)

// ErrDivergentHistoricalConfig reports scenarios whose historical step sets
// are not structurally identical. Historical steps run once and are shared by
// every scenario in the run, so diverging historical configuration cannot be
// honored.
var ErrDivergentHistoricalConfig = errors.New("scenarios have diverging historical configuration")

// FromNotebookSteps converts resolved notebook steps into tasks bound to a
// runner and a hydrated config file.
//
// Each task depends on the step's declared dependencies plus the raw notebook
// itself. Steps carrying their own configuration payload get a fingerprint
// derived from it, insulating them from unrelated config edits; steps without
// one fall back to depending on the whole hydrated config file.
func FromNotebookSteps(nbSteps []notebook.NotebookStep, configFile string, runner notebook.Runner) ([]Task, error) {
	tasks := make([]Task, 0, len(nbSteps))
	for _, step := range nbSteps {
		deps := make([]string, 0, len(step.Dependencies)+2)
		deps = append(deps, step.Dependencies...)
		deps = append(deps, step.RawNotebook)

		var fingerprint string
		if step.Configuration != nil {
			fp, err := Fingerprint(step.Configuration)
			if err != nil {
				return nil, fmt.Errorf("task %s: %w", step.TaskName(), err)
			}
			fingerprint = fp
		} else {
			deps = append(deps, configFile)
		}

		parameters := map[string]string{"config_file": configFile}
		for k, v := range step.Parameters {
			parameters[k] = v
		}

		tasks = append(tasks, Task{
			Name:         step.TaskName(),
			Doc:          fmt.Sprintf("%s for config %s", step.Doc, step.Stub),
			Dependencies: deps,
			Targets:      step.Targets,
			Fingerprint:  fingerprint,
			CleanTargets: true,
			Action: func(ctx context.Context) error {
				return runner.Run(ctx, step.RawNotebook, step.UnexecutedNotebook, step.ExecutedNotebook, parameters)
			},
		})
	}
	return tasks, nil
}

// GenHistoricalTasks generates the shared historical tasks for a set of
// scenario bundles. Every scenario's historical step set must be
// structurally identical; the first bundle's hydrated config then drives the
// notebooks, since any bundle would give the same result.
func GenHistoricalTasks(bundles []*config.Bundle, rawNotebooksDir string, runner notebook.Runner) ([]Task, error) {
	if len(bundles) == 0 {
		return nil, nil
	}

	reference, err := steps.Historical(bundles[0].Config, rawNotebooksDir)
	if err != nil {
		return nil, err
	}
	for _, b := range bundles[1:] {
		got, err := steps.Historical(b.Config, rawNotebooksDir)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(reference, got) {
			return nil, fmt.Errorf("%w: %s differs from %s", ErrDivergentHistoricalConfig, b.Stub, bundles[0].Stub)
		}
	}

	return FromNotebookSteps(reference, bundles[0].HydratedPath, runner)
}

// GenScenarioTasks generates the per-scenario tasks for every bundle.
func GenScenarioTasks(bundles []*config.Bundle, rawNotebooksDir string, runner notebook.Runner) ([]Task, error) {
	var tasks []Task
	for _, b := range bundles {
		nbSteps, err := steps.Scenario(b.Config, rawNotebooksDir, b.Stub)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", b.Stub, err)
		}
		scenarioTasks, err := FromNotebookSteps(nbSteps, b.HydratedPath, runner)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, scenarioTasks...)
	}
	return tasks, nil
}

// GenFinaliseTasks generates the cross-scenario finalisation tasks. Shared
// finalisation settings must agree across bundles; the first bundle's
// hydrated config drives the notebooks.
func GenFinaliseTasks(bundles []*config.Bundle, rawNotebooksDir string, runner notebook.Runner) ([]Task, error) {
	if len(bundles) == 0 {
		return nil, nil
	}

	cfgs := make([]*config.Config, 0, len(bundles))
	for _, b := range bundles {
		cfgs = append(cfgs, b.Config)
	}

	nbSteps, err := steps.Finalise(cfgs, rawNotebooksDir)
	if err != nil {
		return nil, err
	}
	return FromNotebookSteps(nbSteps, bundles[0].HydratedPath, runner)
}
