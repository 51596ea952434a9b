package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigDir and ConfigGlob select the scenario fragments to hydrate.
	ConfigDir  string
	ConfigGlob string

	CommonConfigFile     string
	UserPlaceholdersFile string

	OutputRootDir string
	// RunID defaults to a UTC timestamp when left empty.
	RunID string

	RawNotebooksDir string

	Workers int
	DryRun  bool
	// Clean removes the targets of cleanable tasks instead of running them.
	Clean bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigDir == "" {
		return nil, errors.New("ConfigDir is a required configuration field and cannot be empty")
	}
	if cfg.CommonConfigFile == "" {
		return nil, errors.New("CommonConfigFile is a required configuration field and cannot be empty")
	}
	if cfg.UserPlaceholdersFile == "" {
		return nil, errors.New("UserPlaceholdersFile is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("Workers must be at least 1, got %d", cfg.Workers)
	}

	if cfg.ConfigGlob == "" {
		cfg.ConfigGlob = "*.yaml"
	}
	if cfg.RunID == "" {
		cfg.RunID = time.Now().UTC().Format("20060102-150405")
	}

	return &cfg, nil
}
