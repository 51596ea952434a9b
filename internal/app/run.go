package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/climres/h2pipeline/internal/bundle"
	"github.com/climres/h2pipeline/internal/config"
	"github.com/climres/h2pipeline/internal/ctxlog"
	"github.com/climres/h2pipeline/internal/dag"
	"github.com/climres/h2pipeline/internal/runner"
	"github.com/climres/h2pipeline/internal/state"
	"github.com/climres/h2pipeline/internal/task"
)

// Run executes the full workflow: hydrate configs, build the task graph and
// run it (or list it, for a dry run).
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	bundles, err := a.hydrateAll()
	if err != nil {
		return err
	}
	if len(bundles) == 0 {
		a.logger.Warn("No scenario configuration files found.",
			"dir", a.config.ConfigDir, "glob", a.config.ConfigGlob)
		return nil
	}

	rawNotebooksDir, err := filepath.Abs(a.config.RawNotebooksDir)
	if err != nil {
		return fmt.Errorf("resolving raw notebooks dir: %w", err)
	}

	tasks, err := a.generateTasks(bundles, rawNotebooksDir)
	if err != nil {
		return err
	}

	graph, err := dag.Build(ctx, tasks)
	if err != nil {
		return err
	}

	if a.config.Clean {
		return a.cleanTargets(tasks)
	}

	store, err := state.Load(filepath.Join(a.runRootDir(), stateFileName))
	if err != nil {
		return err
	}

	if a.config.DryRun {
		return a.printPlan(graph, store)
	}

	a.logger.Info("Starting workflow execution.",
		"run_id", a.config.RunID, "tasks", len(tasks), "workers", a.config.Workers)
	return runner.New(graph, store, a.config.Workers).Run(ctx)
}

// generateTasks builds the complete task list: shared historical tasks, the
// per-scenario chains, the cross-scenario finalisation and the final
// source-copy task that turns the run root into a publishable bundle.
func (a *App) generateTasks(bundles []*config.Bundle, rawNotebooksDir string) ([]task.Task, error) {
	historical, err := task.GenHistoricalTasks(bundles, rawNotebooksDir, a.runner)
	if err != nil {
		return nil, err
	}
	scenario, err := task.GenScenarioTasks(bundles, rawNotebooksDir, a.runner)
	if err != nil {
		return nil, err
	}
	finalise, err := task.GenFinaliseTasks(bundles, rawNotebooksDir, a.runner)
	if err != nil {
		return nil, err
	}

	var finaliseTargets []string
	for _, t := range finalise {
		finaliseTargets = append(finaliseTargets, t.Targets...)
	}

	repoRoot, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving repository root: %w", err)
	}
	copySource := bundle.SourceTask(repoRoot, a.runRootDir(), a.config.RunID, Version, finaliseTargets)

	tasks := make([]task.Task, 0, len(historical)+len(scenario)+len(finalise)+1)
	tasks = append(tasks, historical...)
	tasks = append(tasks, scenario...)
	tasks = append(tasks, finalise...)
	tasks = append(tasks, copySource)
	return tasks, nil
}

// printPlan lists the tasks in dependency order with their current staleness,
// without running anything.
func (a *App) printPlan(graph *dag.Graph, store *state.Store) error {
	for _, id := range graph.TopoOrder() {
		node := graph.Nodes[id]
		status := "stale"
		if node.Task.UpToDate(store) {
			status = "up to date"
		}
		fmt.Fprintf(a.outW, "%s\t%s\t%s\n", id, status, node.Task.Doc)
	}
	return nil
}

// cleanTargets removes the targets of every cleanable task. Removing a
// checklist target leaves its directory contents in place; output-bundle
// directories are expected to be cleaned wholesale.
func (a *App) cleanTargets(tasks []task.Task) error {
	for _, t := range tasks {
		removed, err := t.Clean()
		if err != nil {
			return err
		}
		for _, target := range removed {
			a.logger.Info("Removed target.", "task", t.Name, "target", target)
		}
	}
	return nil
}
