package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UserPlaceholders is the flat, strictly-required record of machine-local
// paths and values. It is distinct from the scenario fragments: these values
// never belong in version-controlled configuration because they differ per
// machine. Every field is required; a missing field is a hard error at load
// time.
type UserPlaceholders struct {
	MagiccExecutablePath             string `yaml:"magicc_executable_path" validate:"required"`
	MagiccWorkerRootDir              string `yaml:"magicc_worker_root_dir" validate:"required"`
	MagiccWorkerNumber               int    `yaml:"magicc_worker_number" validate:"required"`
	AR6ProbabilisticDistributionFile string `yaml:"ar6_probabilistic_distribution_file" validate:"required"`
	LocalDataArchive                 string `yaml:"local_data_archive" validate:"required"`
	ZenodoDataArchive                string `yaml:"zenodo_data_archive" validate:"required"`
}

// LoadUserPlaceholders reads and validates the user placeholder file.
func LoadUserPlaceholders(path string) (*UserPlaceholders, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading user placeholder file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var up UserPlaceholders
	if err := dec.Decode(&up); err != nil {
		return nil, fmt.Errorf("parsing user placeholder file %s: %w", path, err)
	}

	if err := checkStruct(&up); err != nil {
		return nil, fmt.Errorf("user placeholder file %s: %w", path, err)
	}

	return &up, nil
}

// Placeholders exposes the record as a substitution mapping. The keys match
// the YAML field names so configuration fragments reference them directly,
// e.g. "{magicc_executable_path}".
func (u *UserPlaceholders) Placeholders() map[string]string {
	return map[string]string{
		"magicc_executable_path":              u.MagiccExecutablePath,
		"magicc_worker_root_dir":              u.MagiccWorkerRootDir,
		"magicc_worker_number":                strconv.Itoa(u.MagiccWorkerNumber),
		"ar6_probabilistic_distribution_file": u.AR6ProbabilisticDistributionFile,
		"local_data_archive":                  u.LocalDataArchive,
		"zenodo_data_archive":                 u.ZenodoDataArchive,
	}
}
