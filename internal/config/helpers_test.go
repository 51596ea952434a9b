package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// commonFixture carries every shared default; scenario fragments override or
// add the per-run fields. Paths deliberately use the run placeholders and the
// scenario-level {name} placeholder to exercise hydration end to end.
const commonFixture = `
output_notebook_dir: "{output_root_dir}/{run_id}/{stub}/notebooks"
historical_notebook_dir: "{output_root_dir}/{run_id}/historical/notebooks"
finalisation_notebook_dir: "{output_root_dir}/{run_id}/finalisation/notebooks"
finalisation_data_dir: "{output_root_dir}/{run_id}/finalisation/data"
finalisation_plot_dir: "{output_root_dir}/{run_id}/finalisation/plots"
gridding_preparation:
  raw_rscript: "scripts/prepare_proxies.R"
  output_rscript: "{output_root_dir}/{run_id}/gridding/prepare_proxies.R"
  zenodo_data_archive: "{zenodo_data_archive}"
  output_dir: "{output_root_dir}/{run_id}/gridding/prepared"
emissions:
  cleaning_operations:
    - input_file: "data/raw/emissions.csv"
      filters:
        variable: "Emissions|H2"
      renames:
        - dimension: region
          target: "*"
          to: "World"
  metadata:
    source: "h2pipeline"
  input_scenario: "{output_root_dir}/{run_id}/{stub}/data/input_scenario.csv"
  complete_scenario: "{output_root_dir}/{run_id}/{stub}/data/complete_scenario.csv"
  magicc_scenario: "{output_root_dir}/{run_id}/{stub}/data/magicc_scenario.csv"
  complete_scenario_countries: "{output_root_dir}/{run_id}/{stub}/data/complete_scenario_countries.csv"
  figure_by_sector: "{output_root_dir}/{run_id}/{stub}/plots/by_sector.pdf"
  figure_by_sector_only_modified: "{output_root_dir}/{run_id}/{stub}/plots/by_sector_modified.pdf"
  figure_vs_rcmip: "{output_root_dir}/{run_id}/{stub}/plots/vs_rcmip.pdf"
historical_h2_emissions:
  scenario: "ssp245"
  baseline_source: "data/raw/baseline_historical.csv"
  anthropogenic_proxy:
    "Emissions|H2|Biomass burning": "CEDS|BC"
  baseline_h2_emissions_regions: "{output_root_dir}/{run_id}/historical/data/regions.csv"
  baseline_h2_emissions_countries: "{output_root_dir}/{run_id}/historical/data/countries.csv"
  figure_baseline_by_sector: "{output_root_dir}/{run_id}/historical/plots/by_sector.pdf"
  figure_baseline_by_source: "{output_root_dir}/{run_id}/historical/plots/by_source.pdf"
  figure_baseline_by_source_and_sector: "{output_root_dir}/{run_id}/historical/plots/by_source_and_sector.pdf"
historical_h2_gridding:
  proxy_mapping: "data/gridding/proxy_mapping.csv"
  seasonality_mapping: "data/gridding/seasonality_mapping.csv"
  sector_type: "CEDS9"
  grid_data_directory: "{output_root_dir}/{run_id}/gridding/prepared"
  output_directory: "{output_root_dir}/{run_id}/historical/gridded"
  fast: true
input4mips_archive:
  local_archive: "{local_data_archive}/input4mips"
  results_archive: "{output_root_dir}/{run_id}/results"
  version: "0.3.0"
  complete_file_emissions_historical: "{output_root_dir}/{run_id}/historical/complete_emissions"
  complete_file_emissions_scenario: "{output_root_dir}/{run_id}/{stub}/complete_emissions"
  complete_file_concentrations: "{output_root_dir}/{run_id}/{stub}/complete_concentrations"
delta_emissions:
  inputs:
    share_by_carrier: "data/raw/share_by_carrier.csv"
    leakage_rates: "data/raw/leakage_rates.csv"
    emissions_intensities_production: "data/raw/intensities_production.csv"
    emissions_intensities_combustion: "data/raw/intensities_combustion.csv"
  clean:
    share_by_carrier: "{output_root_dir}/{run_id}/{stub}/data/clean/share_by_carrier.csv"
    leakage_rates: "{output_root_dir}/{run_id}/{stub}/data/clean/leakage_rates.csv"
    emissions_intensities_production: "{output_root_dir}/{run_id}/{stub}/data/clean/intensities_production.csv"
    emissions_intensities_combustion: "{output_root_dir}/{run_id}/{stub}/data/clean/intensities_combustion.csv"
  energy_by_carrier: "{output_root_dir}/{run_id}/{stub}/data/energy_by_carrier.csv"
  extensions:
    - filters:
        variable: "Emissions|H2"
      rate: 1.5
      start_year: 2015
      end_year: 2100
  delta_emissions_complete: "{output_root_dir}/{run_id}/{stub}/data/delta_complete.csv"
  delta_emissions_totals: "{output_root_dir}/{run_id}/{stub}/data/delta_totals.csv"
projected_h2_emissions:
  scenario: "{ssp_scenario}"
  baseline_source: "data/raw/baseline_projected.csv"
  anthropogenic_proxy:
    "Emissions|H2|Industrial": "CEDS|CO"
  baseline_h2_emissions_regions: "{output_root_dir}/{run_id}/{stub}/data/projected_regions.csv"
  baseline_h2_emissions_countries: "{output_root_dir}/{run_id}/{stub}/data/projected_countries.csv"
  figure_baseline_by_sector: "{output_root_dir}/{run_id}/{stub}/plots/projected_by_sector.pdf"
  figure_baseline_by_source: "{output_root_dir}/{run_id}/{stub}/plots/projected_by_source.pdf"
  figure_baseline_by_source_and_sector: "{output_root_dir}/{run_id}/{stub}/plots/projected_by_source_and_sector.pdf"
projected_gridding:
  proxy_mapping: "data/gridding/proxy_mapping.csv"
  seasonality_mapping: "data/gridding/seasonality_mapping.csv"
  sector_type: "CEDS9"
  grid_data_directory: "{output_root_dir}/{run_id}/gridding/prepared"
  output_directory: "{output_root_dir}/{run_id}/{stub}/gridded"
  fast: true
magicc_runs:
  n_cfgs_to_run: 600
  output_file: "{output_root_dir}/{run_id}/{stub}/data/magicc_output.nc"
  ar6_probabilistic_distribution_file: "{ar6_probabilistic_distribution_file}"
  magicc_executable_path: "{magicc_executable_path}"
  magicc_worker_root_dir: "{magicc_worker_root_dir}"
  magicc_worker_number: 4
rcmip:
  concentrations_path: "{local_data_archive}/rcmip/concentrations.csv"
cmip6_concentrations:
  root_raw_data_dir: "{local_data_archive}/cmip6"
  concentration_scenario_ids:
    - "ssp119"
    - "ssp126"
  concentration_variables:
    - "mole_fraction_of_carbon_dioxide_in_air"
concentration_gridding:
  cmip6_seasonality_and_latitudinal_gradient_path: "{output_root_dir}/{run_id}/concentrations/seasonality.nc"
  interim_gridded_output_dir: "{output_root_dir}/{run_id}/{stub}/concentrations/interim"
  gridded_output_dir: "{output_root_dir}/{run_id}/{stub}/concentrations/gridded"
`

const scenarioFixture = `
name: "ssp119-low"
ssp_scenario: "ssp119"
`

const userFixture = `
magicc_executable_path: "/opt/magicc/bin/magicc"
magicc_worker_root_dir: "/tmp/magicc-workers"
magicc_worker_number: 4
ar6_probabilistic_distribution_file: "/data/ar6/distribution.json"
local_data_archive: "/data/archive"
zenodo_data_archive: "/data/zenodo"
`

// writeFixtures lays out a scenario/common/user configuration trio in a
// temporary directory and returns their paths.
func writeFixtures(t *testing.T, scenarioName, scenarioYAML string) (scenario, common, user string) {
	t.Helper()

	dir := t.TempDir()
	scenario = filepath.Join(dir, scenarioName)
	common = filepath.Join(dir, "common.yaml")
	user = filepath.Join(dir, "user.yaml")

	require.NoError(t, os.WriteFile(scenario, []byte(scenarioYAML), 0o600))
	require.NoError(t, os.WriteFile(common, []byte(commonFixture), 0o600))
	require.NoError(t, os.WriteFile(user, []byte(userFixture), 0o600))
	return scenario, common, user
}
