package steps

import (
	"fmt"

	"github.com/climres/h2pipeline/internal/checklist"
	"github.com/climres/h2pipeline/internal/config"
	"github.com/climres/h2pipeline/internal/notebook"
)

// Scenario returns the per-scenario step chain: building the input scenario,
// extending timeseries, computing delta and baseline emissions, merging,
// downscaling, gridding, writing input4MIPs files, running MAGICC, gridding
// concentrations, and a dynamic fan-out over the configured spatial
// emissions regions.
func Scenario(cfg *config.Config, rawNotebooksDir, stub string) ([]notebook.NotebookStep, error) {
	builders := projectedEmissionSteps(cfg)
	builders = append(builders, concentrationSteps(cfg)...)
	builders = append(builders, spatialEmissionSteps(cfg)...)

	return resolve(builders, stub, rawNotebooksDir, cfg.OutputNotebookDir)
}

func projectedEmissionSteps(cfg *config.Config) []notebook.SingleNotebookDirStep {
	cleaningInputs := make([]string, 0, len(cfg.Emissions.CleaningOperations))
	seen := map[string]struct{}{}
	for _, op := range cfg.Emissions.CleaningOperations {
		if _, ok := seen[op.InputFile]; ok {
			continue
		}
		seen[op.InputFile] = struct{}{}
		cleaningInputs = append(cleaningInputs, op.InputFile)
	}

	builders := []notebook.SingleNotebookDirStep{
		{
			Doc:      "create the input emissions scenario",
			Notebook: "200_projected_h2_emissions/200_make_input_scenario",
			RawExt:   ".py",
			Configuration: []any{
				cfg.Emissions.CleaningOperations,
				cfg.Emissions.Metadata,
			},
			Dependencies: cleaningInputs,
			Targets:      []string{cfg.Emissions.InputScenario},
		},
		{
			Doc:           "extend input data to cover target period",
			Notebook:      "200_projected_h2_emissions/201_extend_timeseries",
			RawExt:        ".py",
			Configuration: cfg.DeltaEmissions.Extensions,
			Dependencies: []string{
				cfg.Emissions.InputScenario,
				cfg.DeltaEmissions.Inputs.ShareByCarrier,
				cfg.DeltaEmissions.Inputs.EmissionsIntensitiesProduction,
				cfg.DeltaEmissions.Inputs.EmissionsIntensitiesCombustion,
				cfg.DeltaEmissions.Inputs.LeakageRates,
			},
			Targets: []string{
				cfg.DeltaEmissions.EnergyByCarrier,
				cfg.DeltaEmissions.Clean.ShareByCarrier,
				cfg.DeltaEmissions.Clean.EmissionsIntensitiesProduction,
				cfg.DeltaEmissions.Clean.EmissionsIntensitiesCombustion,
				cfg.DeltaEmissions.Clean.LeakageRates,
			},
		},
		{
			Doc:      "calculate delta emissions from H2 usage",
			Notebook: "200_projected_h2_emissions/210_calculate_delta_emissions",
			RawExt:   ".py",
			Dependencies: []string{
				cfg.DeltaEmissions.EnergyByCarrier,
				cfg.DeltaEmissions.Clean.ShareByCarrier,
				cfg.DeltaEmissions.Clean.EmissionsIntensitiesProduction,
				cfg.DeltaEmissions.Clean.EmissionsIntensitiesCombustion,
				cfg.DeltaEmissions.Clean.LeakageRates,
			},
			Targets: []string{
				cfg.DeltaEmissions.DeltaEmissionsComplete,
				cfg.DeltaEmissions.DeltaEmissionsTotals,
			},
		},
		{
			Doc:           "calculate baseline projected emissions",
			Notebook:      "200_projected_h2_emissions/220_calculate_baseline_anthropogenic",
			RawExt:        ".py",
			Configuration: cfg.ProjectedH2Emissions,
			Dependencies:  []string{cfg.ProjectedH2Emissions.BaselineSource},
			Targets: []string{
				cfg.ProjectedH2Emissions.BaselineH2EmissionsRegions,
				cfg.ProjectedH2Emissions.FigureBaselineBySource,
				cfg.ProjectedH2Emissions.FigureBaselineBySector,
				cfg.ProjectedH2Emissions.FigureBaselineBySourceAndSector,
			},
		},
		{
			Doc:      "merge projected emissions to form a scenario",
			Notebook: "200_projected_h2_emissions/230_merge_emissions",
			RawExt:   ".py",
			Configuration: []any{
				cfg.Name,
				cfg.SSPScenario,
			},
			Dependencies: []string{
				cfg.Emissions.InputScenario,
				cfg.DeltaEmissions.DeltaEmissionsComplete,
				cfg.ProjectedH2Emissions.BaselineH2EmissionsRegions,
			},
			Targets: []string{
				cfg.Emissions.CompleteScenario,
				cfg.Emissions.MagiccScenario,
				cfg.Emissions.FigureBySector,
				cfg.Emissions.FigureBySectorOnlyModified,
				cfg.Emissions.FigureVsRCMIP,
			},
		},
		{
			Doc:      "downscale projected H2 regional emissions to countries",
			Notebook: "200_projected_h2_emissions/240_downscale_projected_emissions",
			RawExt:   ".py",
			Dependencies: []string{
				cfg.Emissions.CompleteScenario,
				cfg.HistoricalH2Emissions.BaselineH2EmissionsCountries,
			},
			Targets: []string{cfg.Emissions.CompleteScenarioCountries},
		},
		{
			Doc:           "grid projected H2 emissions",
			Notebook:      "200_projected_h2_emissions/250_grid_projected_emissions",
			RawExt:        ".py",
			Configuration: cfg.ProjectedGridding,
			Dependencies: []string{
				cfg.Emissions.CompleteScenarioCountries,
				checklist.File(cfg.GriddingPreparation.OutputDir),
			},
			Targets: []string{checklist.File(cfg.ProjectedGridding.OutputDirectory)},
		},
		{
			Doc:           "write projected input4MIPs results",
			Notebook:      "200_projected_h2_emissions/260_write_projected_input4MIPs",
			RawExt:        ".py",
			Configuration: cfg.Input4MIPsArchive,
			Dependencies:  []string{checklist.File(cfg.ProjectedGridding.OutputDirectory)},
			Targets:       []string{cfg.Input4MIPsArchive.CompleteFileEmissionsScenario},
		},
	}

	// The high production calculation only exists for scenarios that
	// configure it.
	if cfg.Emissions.HighProduction != nil {
		builders = append(builders, notebook.SingleNotebookDirStep{
			Doc: "determine the additional production emissions where " +
				"Australia has a higher share of H2 production",
			Notebook:      "200_projected_h2_emissions/270_check_production",
			RawExt:        ".py",
			Configuration: cfg.Emissions.HighProduction,
			Dependencies: []string{
				cfg.Emissions.CompleteScenarioCountries,
				cfg.Emissions.CompleteScenario,
			},
			Targets: []string{cfg.Emissions.HighProduction.OutputFile},
		})
	}

	return builders
}

func concentrationSteps(cfg *config.Config) []notebook.SingleNotebookDirStep {
	return []notebook.SingleNotebookDirStep{
		{
			Doc:           "run MAGICC to project concentrations",
			Notebook:      "300_projected_concentrations/310_run-magicc-for-scenarios",
			RawExt:        ".py",
			Configuration: cfg.MagiccRuns,
			Dependencies:  []string{cfg.Emissions.MagiccScenario},
			Targets:       []string{cfg.MagiccRuns.OutputFile},
		},
		{
			Doc:           "create gridded concentration projections",
			Notebook:      "300_projected_concentrations/322_projection-gridding",
			RawExt:        ".py",
			Configuration: cfg.CMIP6Concentrations.ConcentrationVariables,
			Dependencies: []string{
				cfg.ConcentrationGridding.CMIP6SeasonalityAndLatitudinalGradientPath,
				cfg.RCMIP.ConcentrationsPath,
				cfg.MagiccRuns.OutputFile,
			},
			Targets: []string{checklist.File(cfg.ConcentrationGridding.InterimGriddedOutputDir)},
		},
		{
			Doc:          "write concentration input4MIPs style files",
			Notebook:     "300_projected_concentrations/330_write-input4MIPs-files",
			RawExt:       ".py",
			Dependencies: []string{checklist.File(cfg.ConcentrationGridding.InterimGriddedOutputDir)},
			Targets:      []string{cfg.Input4MIPsArchive.CompleteFileConcentrations},
		},
	}
}

func spatialEmissionSteps(cfg *config.Config) []notebook.SingleNotebookDirStep {
	const groupName = "400_spatial_emissions"

	var builders []notebook.SingleNotebookDirStep
	for _, region := range cfg.SpatialEmissions {
		templateInputs := make([]string, 0, len(region.ScalerTemplates))
		for _, template := range region.ScalerTemplates {
			templateInputs = append(templateInputs, template.InputFile)
		}

		builders = append(builders,
			notebook.SingleNotebookDirStep{
				Name:          fmt.Sprintf("%s-%s-400_generate_configuration", groupName, region.Name),
				Doc:           "combine different templates for scalers together",
				Notebook:      "400_spatial_emissions/400_generate_configuration",
				RawExt:        ".py",
				Configuration: region,
				Dependencies:  templateInputs,
				Targets:       []string{region.DownscalingConfig},
				Suffix:        region.Name,
				Parameters:    map[string]string{"name": region.Name},
			},
			notebook.SingleNotebookDirStep{
				Name:     fmt.Sprintf("%s-%s-410_run_projection", groupName, region.Name),
				Doc:      "calculate emissions for a given region",
				Notebook: "400_spatial_emissions/410_run_projection",
				RawExt:   ".py",
				Dependencies: []string{
					cfg.Input4MIPsArchive.CompleteFileEmissionsScenario,
					region.DownscalingConfig,
				},
				Targets: []string{
					checklist.File(region.CSVOutputDirectory),
					region.NetCDFOutput,
				},
				Suffix:     region.Name,
				Parameters: map[string]string{"name": region.Name},
			},
		)
	}
	return builders
}
