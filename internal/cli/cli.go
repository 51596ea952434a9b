// Package cli parses command-line arguments into an application config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/climres/h2pipeline/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("h2pipeline", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
h2pipeline - hydrate scenario configuration and run the notebook workflow.

Usage:
  h2pipeline [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	configDirFlag := flagSet.String("configdir", "config", "Directory containing scenario configuration fragments.")
	configGlobFlag := flagSet.String("configglob", "*.yaml", "Glob selecting scenario files within the config directory.")
	commonConfigFlag := flagSet.String("common-config", "common.yaml", "Path to the shared base configuration fragment.")
	userPlaceholdersFlag := flagSet.String("user-placeholders", "user-placeholders.yaml", "Path to the machine-specific placeholder file.")
	outputRootFlag := flagSet.String("output-root-dir", "output-bundles", "Root directory for run outputs.")
	runIDFlag := flagSet.String("run-id", "", "Identifier for this run; outputs land under <output-root-dir>/<run-id>.")
	rawNotebooksFlag := flagSet.String("raw-notebooks-dir", "notebooks", "Directory containing the raw notebooks.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for the executor.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Plan the run and list tasks with their staleness without executing anything.")
	cleanFlag := flagSet.Bool("clean", false, "Remove the targets of all cleanable tasks instead of running.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument: %s", flagSet.Arg(0))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigDir:            *configDirFlag,
		ConfigGlob:           *configGlobFlag,
		CommonConfigFile:     *commonConfigFlag,
		UserPlaceholdersFile: *userPlaceholdersFlag,
		OutputRootDir:        *outputRootFlag,
		RunID:                *runIDFlag,
		RawNotebooksDir:      *rawNotebooksFlag,
		Workers:              *workersFlag,
		DryRun:               *dryRunFlag,
		Clean:                *cleanFlag,
		LogFormat:            logFormat,
		LogLevel:             logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
