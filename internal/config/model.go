// Package config defines the fully-resolved, immutable description of one
// scenario run and the hydration machinery that produces it from layered
// YAML fragments. A Config is frozen once hydrated; any change requires
// re-hydration.
package config

// Config is the key communication object between the workflow configuration
// and the notebooks. It is consumed read-only by the step graph generators
// and serialized to disk alongside run outputs for provenance.
type Config struct {
	// Name of the scenario, e.g. "ssp119-low".
	Name string `yaml:"name" validate:"required"`

	// SSPScenario is the SSP scenario from the RCMIP emissions dataset
	// underlying this run.
	SSPScenario string `yaml:"ssp_scenario" validate:"required"`

	OutputNotebookDir       string `yaml:"output_notebook_dir" validate:"required"`
	HistoricalNotebookDir   string `yaml:"historical_notebook_dir" validate:"required"`
	FinalisationNotebookDir string `yaml:"finalisation_notebook_dir" validate:"required"`
	FinalisationDataDir     string `yaml:"finalisation_data_dir" validate:"required"`
	FinalisationPlotDir     string `yaml:"finalisation_plot_dir" validate:"required"`

	GriddingPreparation   GriddingPreparation   `yaml:"gridding_preparation" validate:"required"`
	Emissions             Emissions             `yaml:"emissions" validate:"required"`
	HistoricalH2Emissions BaselineH2Emissions   `yaml:"historical_h2_emissions" validate:"required"`
	HistoricalH2Gridding  Gridding              `yaml:"historical_h2_gridding" validate:"required"`
	Input4MIPsArchive     Input4MIPsArchive     `yaml:"input4mips_archive" validate:"required"`
	DeltaEmissions        DeltaEmissions        `yaml:"delta_emissions" validate:"required"`
	ProjectedH2Emissions  BaselineH2Emissions   `yaml:"projected_h2_emissions" validate:"required"`
	ProjectedGridding     Gridding              `yaml:"projected_gridding" validate:"required"`
	MagiccRuns            MagiccRuns            `yaml:"magicc_runs" validate:"required"`
	RCMIP                 RCMIP                 `yaml:"rcmip" validate:"required"`
	CMIP6Concentrations   CMIP6Concentrations   `yaml:"cmip6_concentrations" validate:"required"`
	ConcentrationGridding ConcentrationGridding `yaml:"concentration_gridding" validate:"required"`

	// SpatialEmissions lists zero or more named spatial sub-regions; each
	// fans out into its own scaler-configuration and projection steps.
	SpatialEmissions []SpatialEmissionsRegion `yaml:"spatial_emissions,omitempty" validate:"omitempty,dive"`
}

// GriddingPreparation describes the one-time preparation of gridding proxy
// data before any gridding step can run.
type GriddingPreparation struct {
	// RawRScript is the proxy-preparation R script as checked in.
	RawRScript string `yaml:"raw_rscript" validate:"required"`
	// OutputRScript is where the run-specific copy of the script is written.
	OutputRScript string `yaml:"output_rscript" validate:"required"`
	// ZenodoDataArchive is the pre-downloaded proxy data archive.
	ZenodoDataArchive string `yaml:"zenodo_data_archive" validate:"required"`
	// OutputDir receives the prepared gridding proxies.
	OutputDir string `yaml:"output_dir" validate:"required"`
}

// Gridding configures gridding of a set of emissions.
type Gridding struct {
	// ProxyMapping is a CSV file containing the proxies used for gridding a
	// given gas and sector.
	ProxyMapping string `yaml:"proxy_mapping" validate:"required"`
	// SeasonalityMapping is a CSV file containing the source of the
	// seasonality information for each gas and sector.
	SeasonalityMapping string `yaml:"seasonality_mapping" validate:"required"`
	// SectorType names the sector scheme used for gridding.
	SectorType string `yaml:"sector_type" validate:"required,eq=CEDS9"`
	// GridDataDirectory holds pre-processed data for gridding.
	GridDataDirectory string `yaml:"grid_data_directory" validate:"required"`
	OutputDirectory   string `yaml:"output_directory" validate:"required"`
	// Fast grids a subset of years for speed. Should be off for releases.
	Fast bool `yaml:"fast"`
}

// Input4MIPsArchive configures a local archive of input4MIPs data and the
// completion-marker files the finalisation step depends on.
type Input4MIPsArchive struct {
	LocalArchive   string `yaml:"local_archive" validate:"required"`
	ResultsArchive string `yaml:"results_archive" validate:"required"`
	Version        string `yaml:"version" validate:"required"`

	CompleteFileEmissionsHistorical string `yaml:"complete_file_emissions_historical" validate:"required"`
	CompleteFileEmissionsScenario   string `yaml:"complete_file_emissions_scenario" validate:"required"`
	CompleteFileConcentrations      string `yaml:"complete_file_concentrations" validate:"required"`
}

// Rename updates one metadata dimension of a set of timeseries.
type Rename struct {
	// Dimension to affect.
	Dimension string `yaml:"dimension" validate:"required"`
	// Target is the existing value; "*" selects the entire column.
	Target string `yaml:"target" validate:"required"`
	To     string `yaml:"to" validate:"required"`
}

// TimeseriesOperation filters, renames and annotates one input timeseries
// file while assembling the input scenario.
type TimeseriesOperation struct {
	InputFile string         `yaml:"input_file" validate:"required"`
	Filters   map[string]any `yaml:"filters" validate:"required"`
	// Renames defaults to an empty list per operation; the decoder allocates
	// a fresh slice for each instance.
	Renames []Rename `yaml:"renames,omitempty" validate:"omitempty,dive"`
}

// TimeseriesExtension extends a set of timeseries using an annual rate of
// change between two years.
type TimeseriesExtension struct {
	Filters map[string]any `yaml:"filters" validate:"required"`
	// Rate is the annual percentage change; 0 is no change.
	Rate      float64 `yaml:"rate"`
	StartYear int     `yaml:"start_year" validate:"required"`
	EndYear   int     `yaml:"end_year" validate:"required"`
}

// HighProduction configures the optional high-production adjustment step.
// Its absence in the configuration silently omits the step.
type HighProduction struct {
	OutputFile string `yaml:"output_file" validate:"required"`
}

// Emissions represents the merged set of emissions for one scenario.
type Emissions struct {
	CleaningOperations []TimeseriesOperation `yaml:"cleaning_operations" validate:"required,dive"`
	Metadata           map[string]string     `yaml:"metadata" validate:"required"`

	InputScenario             string `yaml:"input_scenario" validate:"required"`
	CompleteScenario          string `yaml:"complete_scenario" validate:"required"`
	MagiccScenario            string `yaml:"magicc_scenario" validate:"required"`
	CompleteScenarioCountries string `yaml:"complete_scenario_countries" validate:"required"`

	FigureBySector             string `yaml:"figure_by_sector" validate:"required"`
	FigureBySectorOnlyModified string `yaml:"figure_by_sector_only_modified" validate:"required"`
	FigureVsRCMIP              string `yaml:"figure_vs_rcmip" validate:"required"`

	HighProduction *HighProduction `yaml:"high_production,omitempty"`
}

// EmissionsInputs are the input files for calculating the change in
// emissions caused by hydrogen uptake.
type EmissionsInputs struct {
	ShareByCarrier                 string `yaml:"share_by_carrier" validate:"required"`
	LeakageRates                   string `yaml:"leakage_rates" validate:"required"`
	EmissionsIntensitiesProduction string `yaml:"emissions_intensities_production" validate:"required"`
	EmissionsIntensitiesCombustion string `yaml:"emissions_intensities_combustion" validate:"required"`
}

// DeltaEmissions configures the calculation of the change in emissions.
type DeltaEmissions struct {
	Inputs EmissionsInputs `yaml:"inputs" validate:"required"`
	// Clean holds the cleaned-and-extended counterparts of Inputs.
	Clean EmissionsInputs `yaml:"clean" validate:"required"`

	EnergyByCarrier string                `yaml:"energy_by_carrier" validate:"required"`
	Extensions      []TimeseriesExtension `yaml:"extensions" validate:"required,dive"`

	DeltaEmissionsComplete string `yaml:"delta_emissions_complete" validate:"required"`
	DeltaEmissionsTotals   string `yaml:"delta_emissions_totals" validate:"required"`
}

// BaselineH2Emissions configures the calculation of baseline H2 emissions
// from existing industries, either historical or projected.
type BaselineH2Emissions struct {
	// Scenario is the SSP scenario from the RCMIP emissions dataset used for
	// scaling.
	Scenario string `yaml:"scenario" validate:"required"`
	// BaselineSource is the source file for baseline H2 emissions.
	BaselineSource string `yaml:"baseline_source" validate:"required"`
	// AnthropogenicProxy maps a mechanism of H2 emissions to the CEDS
	// variable providing its regional and sectoral distribution.
	AnthropogenicProxy map[string]string `yaml:"anthropogenic_proxy" validate:"required"`

	BaselineH2EmissionsRegions   string `yaml:"baseline_h2_emissions_regions" validate:"required"`
	BaselineH2EmissionsCountries string `yaml:"baseline_h2_emissions_countries" validate:"required"`

	FigureBaselineBySector          string `yaml:"figure_baseline_by_sector" validate:"required"`
	FigureBaselineBySource          string `yaml:"figure_baseline_by_source" validate:"required"`
	FigureBaselineBySourceAndSector string `yaml:"figure_baseline_by_source_and_sector" validate:"required"`
}

// MagiccRuns configures running MAGICC to produce updated concentration
// projections.
type MagiccRuns struct {
	// NCfgsToRun should be 600 for a production run.
	NCfgsToRun int    `yaml:"n_cfgs_to_run" validate:"required"`
	OutputFile string `yaml:"output_file" validate:"required"`

	AR6ProbabilisticDistributionFile string `yaml:"ar6_probabilistic_distribution_file" validate:"required"`

	MagiccExecutablePath string `yaml:"magicc_executable_path" validate:"required"`
	MagiccWorkerRootDir  string `yaml:"magicc_worker_root_dir" validate:"required"`
	MagiccWorkerNumber   int    `yaml:"magicc_worker_number" validate:"required"`
}

// RCMIP holds RCMIP dataset paths.
type RCMIP struct {
	ConcentrationsPath string `yaml:"concentrations_path" validate:"required"`
}

// CMIP6Concentrations configures which CMIP6 concentration data to fetch
// and process.
type CMIP6Concentrations struct {
	RootRawDataDir           string   `yaml:"root_raw_data_dir" validate:"required"`
	ConcentrationScenarioIDs []string `yaml:"concentration_scenario_ids" validate:"required"`
	ConcentrationVariables   []string `yaml:"concentration_variables" validate:"required"`
}

// ConcentrationGridding configures the gridding of projected concentrations.
type ConcentrationGridding struct {
	CMIP6SeasonalityAndLatitudinalGradientPath string `yaml:"cmip6_seasonality_and_latitudinal_gradient_path" validate:"required"`

	InterimGriddedOutputDir string `yaml:"interim_gridded_output_dir" validate:"required"`
	GriddedOutputDir        string `yaml:"gridded_output_dir" validate:"required"`
}

// ScalerTemplate is one template contributing to a spatial region's scaler
// configuration.
type ScalerTemplate struct {
	InputFile string `yaml:"input_file" validate:"required"`
}

// SpatialEmissionsRegion configures the spatial emissions projection for one
// named sub-region. Region names must be unique within a scenario; they
// disambiguate notebook outputs when several regions share one template.
type SpatialEmissionsRegion struct {
	Name            string           `yaml:"name" validate:"required"`
	ScalerTemplates []ScalerTemplate `yaml:"scaler_templates" validate:"required,dive"`

	DownscalingConfig  string `yaml:"downscaling_config" validate:"required"`
	CSVOutputDirectory string `yaml:"csv_output_directory" validate:"required"`
	NetCDFOutput       string `yaml:"netcdf_output" validate:"required"`
}
