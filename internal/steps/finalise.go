package steps

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/climres/h2pipeline/internal/checklist"
	"github.com/climres/h2pipeline/internal/config"
	"github.com/climres/h2pipeline/internal/notebook"
)

// Finalise returns the cross-scenario finalisation steps. It condenses over
// all hydrated configurations: the checklist step depends on every scenario's
// completion markers, and the figures step reads every complete scenario.
// Settings shared across scenarios (the results archive and the finalisation
// directories) must agree; diverging values are an error because the steps
// would otherwise write to an arbitrary scenario's location.
func Finalise(cfgs []*config.Config, rawNotebooksDir string) ([]notebook.NotebookStep, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("finalisation requires at least one scenario configuration")
	}

	completionMarkers := dedupSorted(cfgs, func(c *config.Config) []string {
		return []string{
			c.Input4MIPsArchive.CompleteFileEmissionsHistorical,
			c.Input4MIPsArchive.CompleteFileEmissionsScenario,
			c.Input4MIPsArchive.CompleteFileConcentrations,
		}
	})
	completeScenarios := dedupSorted(cfgs, func(c *config.Config) []string {
		return []string{c.Emissions.CompleteScenario}
	})

	resultsArchive, err := sharedString(cfgs, "input4mips_archive.results_archive", func(c *config.Config) string {
		return c.Input4MIPsArchive.ResultsArchive
	})
	if err != nil {
		return nil, err
	}
	notebookDir, err := sharedString(cfgs, "finalisation_notebook_dir", func(c *config.Config) string {
		return c.FinalisationNotebookDir
	})
	if err != nil {
		return nil, err
	}
	dataDir, err := sharedString(cfgs, "finalisation_data_dir", func(c *config.Config) string {
		return c.FinalisationDataDir
	})
	if err != nil {
		return nil, err
	}
	plotDir, err := sharedString(cfgs, "finalisation_plot_dir", func(c *config.Config) string {
		return c.FinalisationPlotDir
	})
	if err != nil {
		return nil, err
	}

	builders := []notebook.SingleNotebookDirStep{
		{
			Doc:          "create a checklist file covering all input4MIPs outputs",
			Notebook:     "500_finalisation/500_write-input4MIPs-checklist",
			RawExt:       ".py",
			Dependencies: completionMarkers,
			Targets:      []string{checklist.File(resultsArchive)},
		},
		{
			Doc:          "generate emissions figures across all scenarios",
			Notebook:     "500_finalisation/510_generate_emissions_figures",
			RawExt:       ".py",
			Dependencies: completeScenarios,
			Targets: []string{
				filepath.Join(dataDir, "emissions_delta.csv"),
				filepath.Join(dataDir, "emissions_total.csv"),
				filepath.Join(dataDir, "energy_by_carrier.csv"),
				filepath.Join(plotDir, "total_emissions.pdf"),
				filepath.Join(plotDir, "emissions_by_carrier.pdf"),
				filepath.Join(plotDir, "emissions_by_region.pdf"),
				filepath.Join(plotDir, "emissions_by_sector.pdf"),
				filepath.Join(plotDir, "energy_by_carrier.pdf"),
				filepath.Join(plotDir, "energy_by_region.pdf"),
			},
		},
	}

	return resolve(builders, FinaliseStub, rawNotebooksDir, notebookDir)
}

// dedupSorted collects values across configurations, removing duplicates and
// sorting so the result is independent of scenario order.
func dedupSorted(cfgs []*config.Config, extract func(*config.Config) []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range cfgs {
		for _, v := range extract(c) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// sharedString returns the single value a setting takes across all
// configurations, or an error naming the setting when scenarios disagree.
func sharedString(cfgs []*config.Config, setting string, extract func(*config.Config) string) (string, error) {
	value := extract(cfgs[0])
	for _, c := range cfgs[1:] {
		if got := extract(c); got != value {
			return "", fmt.Errorf("setting %s must be shared across scenarios, got both %q and %q", setting, value, got)
		}
	}
	return value, nil
}
