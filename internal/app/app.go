// Package app wires the workflow together: hydrating scenario configs,
// generating the task graph and executing it.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/climres/h2pipeline/internal/config"
	"github.com/climres/h2pipeline/internal/fragment"
	"github.com/climres/h2pipeline/internal/notebook"
	"github.com/climres/h2pipeline/internal/steps"
)

// Version is the workflow version recorded in published bundles.
const Version = "0.2.0"

// stateFileName is the per-run task fingerprint store.
const stateFileName = ".h2pipeline-state.json"

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	runner notebook.Runner
}

// New is the constructor for the main application. A nil runner means
// notebooks are executed through the external jupytext/papermill tools.
func New(outW io.Writer, cfg *Config, runner notebook.Runner) *App {
	if runner == nil {
		runner = notebook.NewCommandRunner()
	}
	return &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, outW),
		config: cfg,
		runner: runner,
	}
}

// hydrateAll hydrates every scenario fragment matched by the config glob and
// persists the hydrated configs. Stubs must be unique and must not collide
// with the reserved historical and finalisation stubs.
func (a *App) hydrateAll() ([]*config.Bundle, error) {
	files, err := fragment.Glob(a.config.ConfigDir, a.config.ConfigGlob)
	if err != nil {
		return nil, err
	}

	seen := map[string]string{}
	bundles := make([]*config.Bundle, 0, len(files))
	for _, file := range files {
		b, err := config.Hydrate(file, a.config.CommonConfigFile, a.config.UserPlaceholdersFile, a.config.OutputRootDir, a.config.RunID)
		if err != nil {
			return nil, err
		}

		if b.Stub == steps.HistoricalStub || b.Stub == steps.FinaliseStub {
			return nil, fmt.Errorf("scenario file %s uses reserved stub %q", file, b.Stub)
		}
		if other, dup := seen[b.Stub]; dup {
			return nil, fmt.Errorf("scenario files %s and %s produce the same stub %q", other, file, b.Stub)
		}
		seen[b.Stub] = file

		if err := b.WriteHydrated(); err != nil {
			return nil, err
		}
		a.logger.Info("Hydrated scenario configuration.", "scenario", b.Stub, "config", b.HydratedPath)

		bundles = append(bundles, b)
	}
	return bundles, nil
}

// runRootDir is where everything belonging to this run lands.
func (a *App) runRootDir() string {
	return filepath.Join(a.config.OutputRootDir, a.config.RunID)
}
