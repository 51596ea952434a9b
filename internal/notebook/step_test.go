package notebook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToNotebookStep(t *testing.T) {
	t.Parallel()

	sds := SingleNotebookDirStep{
		Doc:          "grid historical H2 emissions",
		Notebook:     "100_historical_h2_emissions/120_grid_historical_emissions",
		RawExt:       ".py",
		Dependencies: []string{"/data/countries.csv"},
		Targets:      []string{"/out/gridded/checklist.chk"},
	}

	step := sds.ToNotebookStep("historical", "/repo/notebooks", "/out/notebooks")

	require.Equal(t, "100_historical_h2_emissions/120_grid_historical_emissions", step.Name)
	require.Equal(t, "/repo/notebooks/100_historical_h2_emissions/120_grid_historical_emissions.py", step.RawNotebook)
	require.Equal(t, "/out/notebooks/100_historical_h2_emissions/120_grid_historical_emissions-unexecuted.ipynb", step.UnexecutedNotebook)
	require.Equal(t, "/out/notebooks/100_historical_h2_emissions/120_grid_historical_emissions.ipynb", step.ExecutedNotebook)
	require.Equal(t, sds.Dependencies, step.Dependencies)
	require.Equal(t, sds.Targets, step.Targets)
	require.Equal(t, "100_historical_h2_emissions/120_grid_historical_emissions_historical", step.TaskName())
}

func TestToNotebookStep_SuffixDisambiguatesOutputs(t *testing.T) {
	t.Parallel()

	sds := SingleNotebookDirStep{
		Name:     "400_spatial_emissions-sydney-410_run_projection",
		Doc:      "calculate emissions for a given region",
		Notebook: "400_spatial_emissions/410_run_projection",
		RawExt:   ".py",
		Suffix:   "sydney",
		Targets:  []string{"/out/sydney.nc"},
	}

	step := sds.ToNotebookStep("ssp119-low", "/repo/notebooks", "/out/notebooks")

	// The raw notebook is shared between regions; the outputs are not.
	require.Equal(t, "/repo/notebooks/400_spatial_emissions/410_run_projection.py", step.RawNotebook)
	require.Equal(t, "/out/notebooks/400_spatial_emissions/410_run_projection_sydney-unexecuted.ipynb", step.UnexecutedNotebook)
	require.Equal(t, "/out/notebooks/400_spatial_emissions/410_run_projection_sydney.ipynb", step.ExecutedNotebook)
}

func TestToNotebookStep_NameDefaultsToNotebook(t *testing.T) {
	t.Parallel()

	sds := SingleNotebookDirStep{
		Notebook: "000_preparation/010_prepare_input_data",
		RawExt:   ".py",
	}

	step := sds.ToNotebookStep("historical", "/n", "/o")
	require.Equal(t, "000_preparation/010_prepare_input_data", step.Name)
}

func TestExecutionError(t *testing.T) {
	t.Parallel()

	underlying := errors.New("kernel died")
	err := &ExecutionError{Notebook: "/n/broken.py", Err: underlying}

	require.Contains(t, err.Error(), "/n/broken.py")
	require.Contains(t, err.Error(), "kernel died")
	require.True(t, errors.Is(err, underlying))
}
