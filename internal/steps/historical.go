package steps

import (
	"path/filepath"

	"github.com/climres/h2pipeline/internal/checklist"
	"github.com/climres/h2pipeline/internal/config"
	"github.com/climres/h2pipeline/internal/notebook"
)

// Historical returns the steps with no scenario-specific dependency. They
// form a strict linear chain: each step's dependencies include the targets
// of its logical predecessor, so ordering is enforced by construction and no
// separate graph solver is needed. These steps run at most once per run no
// matter how many scenarios are processed together.
func Historical(cfg *config.Config, rawNotebooksDir string) ([]notebook.NotebookStep, error) {
	historicalEmissionsDir := filepath.Join(
		cfg.Input4MIPsArchive.ResultsArchive,
		"input4MIPs", "CMIP6", "CMIP", "CR", "CR-historical",
	)

	builders := []notebook.SingleNotebookDirStep{
		{
			Doc:          "check the inputs for the gridding proxies are all in the right place",
			Notebook:     "000_preparation/009_prepare_for_processing_gridding",
			RawExt:       ".py",
			Dependencies: []string{cfg.GriddingPreparation.RawRScript},
			Targets: []string{
				checklist.File(cfg.GriddingPreparation.ZenodoDataArchive),
				cfg.GriddingPreparation.OutputRScript,
			},
		},
		{
			Doc:           "prepare gridding proxies",
			Notebook:      "000_preparation/010_prepare_input_data",
			RawExt:        ".py",
			Configuration: cfg.GriddingPreparation.OutputDir,
			Dependencies: []string{
				cfg.GriddingPreparation.OutputRScript,
				checklist.File(cfg.GriddingPreparation.ZenodoDataArchive),
			},
			Targets: []string{checklist.File(cfg.GriddingPreparation.OutputDir)},
		},
		{
			Doc:           "download required CMIP6 concentrations",
			Notebook:      "300_projected_concentrations/320_download-cmip6-data",
			RawExt:        ".py",
			Configuration: cfg.CMIP6Concentrations,
			Targets:       []string{checklist.File(cfg.CMIP6Concentrations.RootRawDataDir)},
		},
		{
			Doc:      "extract grids from CMIP6 concentrations",
			Notebook: "300_projected_concentrations/321_extract-grids-from-cmip6",
			RawExt:   ".py",
			Configuration: []any{
				cfg.CMIP6Concentrations.ConcentrationScenarioIDs,
				cfg.CMIP6Concentrations.ConcentrationVariables,
			},
			Dependencies: []string{checklist.File(cfg.CMIP6Concentrations.RootRawDataDir)},
			Targets:      []string{cfg.ConcentrationGridding.CMIP6SeasonalityAndLatitudinalGradientPath},
		},
		{
			Doc:      "calculate baseline historical emissions",
			Notebook: "100_historical_h2_emissions/100_calculate_historical_anthropogenic",
			RawExt:   ".py",
			Configuration: []any{
				cfg.HistoricalH2Emissions.BaselineSource,
				cfg.HistoricalH2Emissions.AnthropogenicProxy,
			},
			Dependencies: []string{cfg.HistoricalH2Emissions.BaselineSource},
			Targets: []string{
				cfg.HistoricalH2Emissions.BaselineH2EmissionsRegions,
				cfg.HistoricalH2Emissions.FigureBaselineBySource,
				cfg.HistoricalH2Emissions.FigureBaselineBySector,
				cfg.HistoricalH2Emissions.FigureBaselineBySourceAndSector,
			},
		},
		{
			Doc:          "downscale historical H2 regional emissions to countries",
			Notebook:     "100_historical_h2_emissions/110_downscale_historical_emissions",
			RawExt:       ".py",
			Dependencies: []string{cfg.HistoricalH2Emissions.BaselineH2EmissionsRegions},
			Targets:      []string{cfg.HistoricalH2Emissions.BaselineH2EmissionsCountries},
		},
		{
			Doc:           "grid historical H2 emissions",
			Notebook:      "100_historical_h2_emissions/120_grid_historical_emissions",
			RawExt:        ".py",
			Configuration: cfg.HistoricalH2Gridding,
			Dependencies: []string{
				cfg.HistoricalH2Emissions.BaselineH2EmissionsCountries,
				checklist.File(cfg.GriddingPreparation.OutputDir),
			},
			Targets: []string{checklist.File(cfg.HistoricalH2Gridding.OutputDirectory)},
		},
		{
			Doc:      "write historical input4MIPs results",
			Notebook: "100_historical_h2_emissions/130_write_historical_input4MIPs",
			RawExt:   ".py",
			Configuration: []any{
				cfg.Input4MIPsArchive.ResultsArchive,
				cfg.Input4MIPsArchive.LocalArchive,
				cfg.Input4MIPsArchive.Version,
			},
			Dependencies: []string{checklist.File(cfg.HistoricalH2Gridding.OutputDirectory)},
			Targets: []string{
				checklist.File(historicalEmissionsDir),
				cfg.Input4MIPsArchive.CompleteFileEmissionsHistorical,
			},
		},
	}

	return resolve(builders, HistoricalStub, rawNotebooksDir, cfg.HistoricalNotebookDir)
}
