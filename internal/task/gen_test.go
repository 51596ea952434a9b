package task

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/climres/h2pipeline/internal/config"
	"github.com/climres/h2pipeline/internal/config/configtest"
	"github.com/climres/h2pipeline/internal/notebook"
)

type recordingRunner struct {
	mu   sync.Mutex
	runs []recordedRun
}

type recordedRun struct {
	raw        string
	executed   string
	parameters map[string]string
}

func (r *recordingRunner) Run(_ context.Context, raw, unexecuted, executed string, parameters map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, recordedRun{raw: raw, executed: executed, parameters: parameters})
	return nil
}

func TestFromNotebookSteps(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	nbSteps := []notebook.NotebookStep{
		{
			Name:             "100_calculate",
			Stub:             "ssp119-low",
			Doc:              "calculate things",
			RawNotebook:      "/repo/notebooks/100_calculate.py",
			ExecutedNotebook: "/out/notebooks/100_calculate.ipynb",
			Dependencies:     []string{"/data/in.csv"},
			Targets:          []string{"/out/result.csv"},
			Configuration:    map[string]string{"mode": "full"},
		},
		{
			Name:             "110_plot",
			Stub:             "ssp119-low",
			Doc:              "plot things",
			RawNotebook:      "/repo/notebooks/110_plot.py",
			ExecutedNotebook: "/out/notebooks/110_plot.ipynb",
			Dependencies:     []string{"/out/result.csv"},
			Targets:          []string{"/out/plot.pdf"},
			Parameters:       map[string]string{"name": "region-a"},
		},
	}

	tasks, err := FromNotebookSteps(nbSteps, "/out/hydrated.yaml", runner)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// A step with its own configuration gets a fingerprint and does not
	// depend on the hydrated config file.
	withConfig := tasks[0]
	require.Equal(t, "100_calculate_ssp119-low", withConfig.Name)
	require.NotEmpty(t, withConfig.Fingerprint)
	require.Equal(t, []string{"/data/in.csv", "/repo/notebooks/100_calculate.py"}, withConfig.Dependencies)

	// A step without configuration falls back to the config file dependency.
	withoutConfig := tasks[1]
	require.Empty(t, withoutConfig.Fingerprint)
	require.Contains(t, withoutConfig.Dependencies, "/out/hydrated.yaml")

	// Actions pass the config file and step parameters through to the runner.
	require.NoError(t, withoutConfig.Action(context.Background()))
	require.Len(t, runner.runs, 1)
	require.Equal(t, "/repo/notebooks/110_plot.py", runner.runs[0].raw)
	require.Equal(t, map[string]string{
		"config_file": "/out/hydrated.yaml",
		"name":        "region-a",
	}, runner.runs[0].parameters)
}

func testBundle(t *testing.T, name string) *config.Bundle {
	t.Helper()

	cfg := configtest.Scenario(name)
	return &config.Bundle{
		Config:       cfg,
		HydratedPath: "/out/" + name + "/hydrated.yaml",
		Stub:         name,
	}
}

func TestGenHistoricalTasks_SharedConfig(t *testing.T) {
	t.Parallel()

	bundles := []*config.Bundle{testBundle(t, "ssp119-low"), testBundle(t, "ssp119-high")}

	tasks, err := GenHistoricalTasks(bundles, "/repo/notebooks", &recordingRunner{})
	require.NoError(t, err)
	require.Len(t, tasks, 8)

	// Only one shared task set is generated, keyed by the historical stub.
	for _, tk := range tasks {
		require.Contains(t, tk.Name, "_historical")
	}
	require.NoError(t, CheckDistinctTargets(tasks))
}

func TestGenHistoricalTasks_DivergentConfig(t *testing.T) {
	t.Parallel()

	low := testBundle(t, "ssp119-low")
	high := testBundle(t, "ssp119-high")
	high.Config.HistoricalH2Gridding.OutputDirectory = "/elsewhere/gridded"

	_, err := GenHistoricalTasks([]*config.Bundle{low, high}, "/repo/notebooks", &recordingRunner{})
	require.ErrorIs(t, err, ErrDivergentHistoricalConfig)
}

func TestGenScenarioTasks(t *testing.T) {
	t.Parallel()

	bundles := []*config.Bundle{testBundle(t, "ssp119-low"), testBundle(t, "ssp119-high")}

	tasks, err := GenScenarioTasks(bundles, "/repo/notebooks", &recordingRunner{})
	require.NoError(t, err)
	require.Len(t, tasks, 22)
	require.NoError(t, CheckDistinctTargets(tasks))
}

func TestGenFinaliseTasks(t *testing.T) {
	t.Parallel()

	bundles := []*config.Bundle{testBundle(t, "ssp119-low"), testBundle(t, "ssp119-high")}

	tasks, err := GenFinaliseTasks(bundles, "/repo/notebooks", &recordingRunner{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	for _, tk := range tasks {
		require.Contains(t, tk.Name, "_finalise")
	}
}

func TestGenTasks_EmptyBundles(t *testing.T) {
	t.Parallel()

	historical, err := GenHistoricalTasks(nil, "/repo/notebooks", &recordingRunner{})
	require.NoError(t, err)
	require.Empty(t, historical)

	finalise, err := GenFinaliseTasks(nil, "/repo/notebooks", &recordingRunner{})
	require.NoError(t, err)
	require.Empty(t, finalise)
}
