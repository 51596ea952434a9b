package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/climres/h2pipeline/internal/fragment"
	"github.com/climres/h2pipeline/internal/placeholder"
)

// Bundle pairs a hydrated Config with its provenance. Bundles are immutable
// after creation; the Stub is the deduplication key for shared historical
// steps and must be unique across all bundles in a single run.
type Bundle struct {
	// RawConfigFile is the scenario fragment this bundle was hydrated from.
	RawConfigFile string

	// Config is the hydrated configuration.
	Config *Config

	// HydratedPath is where the hydrated config is persisted:
	// {output_root_dir}/{run_id}/{stub}/{original filename}.
	HydratedPath string

	OutputRootDir string
	RunID         string
	Stub          string
}

// Stub derives the short scenario identifier from a scenario filename.
func Stub(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Hydrate merges the common and scenario fragments (scenario winning),
// substitutes placeholders and validates the result into an immutable
// Config, returning it wrapped in a Bundle.
//
// Placeholder precedence, highest first: run parameters (output_root_dir,
// run_id, stub), user placeholders, then top-level scenario string fields.
// Hydrating identical inputs twice produces byte-identical serialized
// output, so re-runs never spuriously invalidate staleness checks.
func Hydrate(scenarioFile, commonFile, userFile, outputRootDir, runID string) (*Bundle, error) {
	outputRootDir, err := filepath.Abs(outputRootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output root dir: %w", err)
	}
	stub := Stub(scenarioFile)

	common, err := fragment.LoadFile(commonFile)
	if err != nil {
		return nil, err
	}
	scenario, err := fragment.LoadFile(scenarioFile)
	if err != nil {
		return nil, err
	}
	merged := fragment.Merge(common, scenario)

	user, err := LoadUserPlaceholders(userFile)
	if err != nil {
		return nil, err
	}

	// Build the substitution mapping, lowest precedence first so later
	// sources overwrite earlier ones.
	vars := fragment.StringLeaves(merged)
	for k, v := range user.Placeholders() {
		vars[k] = v
	}
	vars["output_root_dir"] = outputRootDir
	vars["run_id"] = runID
	vars["stub"] = stub

	serialized, err := fragment.Serialize(merged)
	if err != nil {
		return nil, fmt.Errorf("serializing merged fragment for %s: %w", scenarioFile, err)
	}

	resolved, err := placeholder.Apply(string(serialized), vars)
	if err != nil {
		return nil, fmt.Errorf("hydrating %s: %w", scenarioFile, err)
	}

	cfg, err := Parse([]byte(resolved))
	if err != nil {
		return nil, fmt.Errorf("hydrating %s: %w", scenarioFile, err)
	}

	hydratedPath := filepath.Join(outputRootDir, runID, stub, filepath.Base(scenarioFile))
	if err := os.MkdirAll(filepath.Dir(hydratedPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating hydrated config dir: %w", err)
	}

	return &Bundle{
		RawConfigFile: scenarioFile,
		Config:        cfg,
		HydratedPath:  hydratedPath,
		OutputRootDir: outputRootDir,
		RunID:         runID,
		Stub:          stub,
	}, nil
}

// Parse decodes fully-resolved YAML text into a validated Config. Unknown
// fields are rejected and every missing required field is reported.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := checkStruct(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Serialize renders a hydrated Config back to YAML. The output is
// deterministic: struct fields serialize in declaration order and map keys
// are sorted by the encoder.
func Serialize(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("serializing config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHydrated persists the bundle's hydrated config to its HydratedPath.
// The persisted file is both the provenance record for the run and the
// fallback file dependency for steps without their own configuration
// fingerprint. When the file already holds the same bytes it is left
// untouched, so its mtime does not mark dependent tasks stale on a rerun
// with unchanged configuration.
func (b *Bundle) WriteHydrated() error {
	data, err := Serialize(b.Config)
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(b.HydratedPath); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.WriteFile(b.HydratedPath, data, 0o644); err != nil {
		return fmt.Errorf("writing hydrated config %s: %w", b.HydratedPath, err)
	}
	return nil
}
