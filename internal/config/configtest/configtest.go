// Package configtest builds hydrated-looking configurations for tests.
package configtest

import (
	"path/filepath"

	"github.com/climres/h2pipeline/internal/config"
)

// Scenario returns a fully-populated configuration for a scenario named
// name. Scenario-specific paths live under /out/<name>; shared paths
// (historical, finalisation, the results archive) are identical across all
// scenarios so configurations from this builder can be combined in one run.
func Scenario(name string) *config.Config {
	root := filepath.Join("/out", name)

	return &config.Config{
		Name:        name,
		SSPScenario: "ssp119",

		OutputNotebookDir:       filepath.Join(root, "notebooks"),
		HistoricalNotebookDir:   "/out/historical/notebooks",
		FinalisationNotebookDir: "/out/finalisation/notebooks",
		FinalisationDataDir:     "/out/finalisation/data",
		FinalisationPlotDir:     "/out/finalisation/plots",

		GriddingPreparation: config.GriddingPreparation{
			RawRScript:        "/repo/scripts/prepare.R",
			OutputRScript:     "/out/historical/prepare.R",
			ZenodoDataArchive: "/data/zenodo",
			OutputDir:         "/out/historical/gridding-proxies",
		},
		Emissions: config.Emissions{
			CleaningOperations: []config.TimeseriesOperation{
				{InputFile: "/data/ar6.csv", Filters: map[string]any{"variable": "Emissions|H2"}},
				{InputFile: "/data/ar6.csv", Filters: map[string]any{"variable": "Emissions|CH4"}},
			},
			Metadata:                  map[string]string{"model": "test"},
			InputScenario:             filepath.Join(root, "input_scenario.csv"),
			CompleteScenario:          filepath.Join(root, "complete_scenario.csv"),
			MagiccScenario:            filepath.Join(root, "magicc_scenario.csv"),
			CompleteScenarioCountries: filepath.Join(root, "complete_scenario_countries.csv"),

			FigureBySector:             filepath.Join(root, "figures", "by_sector.pdf"),
			FigureBySectorOnlyModified: filepath.Join(root, "figures", "by_sector_modified.pdf"),
			FigureVsRCMIP:              filepath.Join(root, "figures", "vs_rcmip.pdf"),
		},
		HistoricalH2Emissions: config.BaselineH2Emissions{
			Scenario:                        "ssp245",
			BaselineSource:                  "/data/ceds.csv",
			AnthropogenicProxy:              map[string]string{"Emissions|H2|Fossil": "CEDS"},
			BaselineH2EmissionsRegions:      "/out/historical/baseline_regions.csv",
			BaselineH2EmissionsCountries:    "/out/historical/baseline_countries.csv",
			FigureBaselineBySector:          "/out/historical/figures/by_sector.pdf",
			FigureBaselineBySource:          "/out/historical/figures/by_source.pdf",
			FigureBaselineBySourceAndSector: "/out/historical/figures/by_source_and_sector.pdf",
		},
		HistoricalH2Gridding: config.Gridding{
			ProxyMapping:       "/data/proxy_mapping.csv",
			SeasonalityMapping: "/data/seasonality_mapping.csv",
			SectorType:         "CEDS9",
			GridDataDirectory:  "/out/historical/grid-data",
			OutputDirectory:    "/out/historical/gridded",
		},
		Input4MIPsArchive: config.Input4MIPsArchive{
			LocalArchive:                    "/out/input4mips/local",
			ResultsArchive:                  "/out/input4mips/results",
			Version:                         "0.2.0",
			CompleteFileEmissionsHistorical: "/out/input4mips/historical.complete",
			CompleteFileEmissionsScenario:   filepath.Join(root, "input4mips", "scenario.complete"),
			CompleteFileConcentrations:      filepath.Join(root, "input4mips", "concentrations.complete"),
		},
		DeltaEmissions: config.DeltaEmissions{
			Inputs: config.EmissionsInputs{
				ShareByCarrier:                 "/data/share_by_carrier.csv",
				LeakageRates:                   "/data/leakage_rates.csv",
				EmissionsIntensitiesProduction: "/data/intensities_production.csv",
				EmissionsIntensitiesCombustion: "/data/intensities_combustion.csv",
			},
			Clean: config.EmissionsInputs{
				ShareByCarrier:                 filepath.Join(root, "clean", "share_by_carrier.csv"),
				LeakageRates:                   filepath.Join(root, "clean", "leakage_rates.csv"),
				EmissionsIntensitiesProduction: filepath.Join(root, "clean", "intensities_production.csv"),
				EmissionsIntensitiesCombustion: filepath.Join(root, "clean", "intensities_combustion.csv"),
			},
			EnergyByCarrier: filepath.Join(root, "energy_by_carrier.csv"),
			Extensions: []config.TimeseriesExtension{
				{Filters: map[string]any{"variable": "Emissions|H2"}, Rate: 0.01, StartYear: 2023, EndYear: 2100},
			},
			DeltaEmissionsComplete: filepath.Join(root, "delta_emissions_complete.csv"),
			DeltaEmissionsTotals:   filepath.Join(root, "delta_emissions_totals.csv"),
		},
		ProjectedH2Emissions: config.BaselineH2Emissions{
			Scenario:                        "ssp119",
			BaselineSource:                  "/data/ceds.csv",
			AnthropogenicProxy:              map[string]string{"Emissions|H2|Fossil": "CEDS"},
			BaselineH2EmissionsRegions:      filepath.Join(root, "baseline_regions.csv"),
			BaselineH2EmissionsCountries:    filepath.Join(root, "baseline_countries.csv"),
			FigureBaselineBySector:          filepath.Join(root, "figures", "baseline_by_sector.pdf"),
			FigureBaselineBySource:          filepath.Join(root, "figures", "baseline_by_source.pdf"),
			FigureBaselineBySourceAndSector: filepath.Join(root, "figures", "baseline_by_source_and_sector.pdf"),
		},
		ProjectedGridding: config.Gridding{
			ProxyMapping:       "/data/proxy_mapping.csv",
			SeasonalityMapping: "/data/seasonality_mapping.csv",
			SectorType:         "CEDS9",
			GridDataDirectory:  "/out/historical/grid-data",
			OutputDirectory:    filepath.Join(root, "gridded"),
		},
		MagiccRuns: config.MagiccRuns{
			NCfgsToRun:                       600,
			OutputFile:                       filepath.Join(root, "magicc_output.nc"),
			AR6ProbabilisticDistributionFile: "/data/ar6_distribution.json",
			MagiccExecutablePath:             "/opt/magicc/bin/magicc",
			MagiccWorkerRootDir:              "/tmp/magicc-workers",
			MagiccWorkerNumber:               4,
		},
		RCMIP: config.RCMIP{ConcentrationsPath: "/data/rcmip_concentrations.csv"},
		CMIP6Concentrations: config.CMIP6Concentrations{
			RootRawDataDir:           "/data/cmip6",
			ConcentrationScenarioIDs: []string{"ssp119", "ssp245"},
			ConcentrationVariables:   []string{"ch4", "h2"},
		},
		ConcentrationGridding: config.ConcentrationGridding{
			CMIP6SeasonalityAndLatitudinalGradientPath: "/out/historical/cmip6_seasonality.nc",
			InterimGriddedOutputDir:                    filepath.Join(root, "concentrations", "interim"),
			GriddedOutputDir:                           filepath.Join(root, "concentrations", "gridded"),
		},
	}
}
