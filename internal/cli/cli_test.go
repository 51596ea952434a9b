package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	require.False(t, exit)

	require.Equal(t, "config", cfg.ConfigDir)
	require.Equal(t, "*.yaml", cfg.ConfigGlob)
	require.Equal(t, "common.yaml", cfg.CommonConfigFile)
	require.Equal(t, 4, cfg.Workers)
	require.False(t, cfg.DryRun)
	require.NotEmpty(t, cfg.RunID, "run ID defaults to a timestamp")
}

func TestParse_Flags(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"--configdir", "scenarios",
		"--configglob", "ssp*.yaml",
		"--run-id", "release-1",
		"--workers", "8",
		"--dry-run",
		"--clean",
		"--log-level", "DEBUG",
		"--log-format", "json",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	require.Equal(t, "scenarios", cfg.ConfigDir)
	require.Equal(t, "ssp*.yaml", cfg.ConfigGlob)
	require.Equal(t, "release-1", cfg.RunID)
	require.Equal(t, 8, cfg.Workers)
	require.True(t, cfg.DryRun)
	require.True(t, cfg.Clean)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"--help"}, &out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "h2pipeline")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, _, err := Parse([]string{"--log-level", "loud"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestParse_UnexpectedArgument(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, _, err := Parse([]string{"stray"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, exitErr.Message, "stray")
}

func TestParse_InvalidWorkers(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, _, err := Parse([]string{"--workers", "0"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, exitErr.Message, "Workers")
}
