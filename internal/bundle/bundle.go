// Package bundle copies the workflow's own source and metadata into the run
// output directory, so a published bundle contains everything needed to
// reproduce it.
package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/climres/h2pipeline/internal/fsutil"
	"github.com/climres/h2pipeline/internal/task"
)

const (
	readmeName = "README.md"
	zenodoName = "zenodo.json"
)

// otherFiles are copied verbatim into the bundle next to the source.
var otherFiles = []string{"go.mod", "go.sum"}

// sourceDirs are copied recursively, skipping build artifacts.
var sourceDirs = []string{"cmd", "internal"}

// SourceTask returns the task that copies the repository source, README and
// Zenodo metadata into the run root. Its dependencies are the finalisation
// targets, which forces the copy to happen only after everything else
// succeeded. The copied README marks the bundle as complete, so it doubles
// as the task's target.
func SourceTask(repoRootDir, runRootDir, runID, version string, fileDependencies []string) task.Task {
	return task.Task{
		Name:         "copy_source_into_bundle",
		Doc:          fmt.Sprintf("copy source and metadata into the %s bundle", runID),
		Dependencies: fileDependencies,
		Targets:      []string{filepath.Join(runRootDir, readmeName)},
		Action: func(context.Context) error {
			return CopyInto(repoRootDir, runRootDir, runID, version)
		},
	}
}

// CopyInto performs the bundle copy. It is idempotent; re-running overwrites
// the previous copy.
func CopyInto(repoRootDir, runRootDir, runID, version string) error {
	if err := os.MkdirAll(runRootDir, 0o755); err != nil {
		return fmt.Errorf("creating run root %s: %w", runRootDir, err)
	}

	if err := copyZenodo(filepath.Join(repoRootDir, zenodoName), filepath.Join(runRootDir, zenodoName), version); err != nil {
		return err
	}

	for _, name := range otherFiles {
		src := filepath.Join(repoRootDir, name)
		if !fsutil.Exists(src) {
			continue
		}
		if err := fsutil.CopyFile(src, filepath.Join(runRootDir, name)); err != nil {
			return err
		}
	}

	for _, dir := range sourceDirs {
		src := filepath.Join(repoRootDir, dir)
		if !fsutil.Exists(src) {
			continue
		}
		if err := fsutil.CopyTree(src, filepath.Join(runRootDir, dir), "*_test.go"); err != nil {
			return err
		}
	}

	// Written last: its presence marks the bundle as complete.
	return copyReadme(filepath.Join(repoRootDir, readmeName), filepath.Join(runRootDir, readmeName), runID)
}

// copyReadme copies the README into the bundle, appending a note describing
// the run it belongs to.
func copyReadme(inPath, outPath, runID string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading README: %w", err)
	}

	footer := fmt.Sprintf(`

## Run info

This README was created as part of the %q run. The bundle should contain
everything required to reproduce the outputs from the copied source and the
hydrated configuration files alongside it.
`, runID)

	if err := os.WriteFile(outPath, append(raw, footer...), 0o644); err != nil {
		return fmt.Errorf("writing bundle README: %w", err)
	}
	return nil
}

// copyZenodo copies the Zenodo metadata file, updating the recorded version.
func copyZenodo(inPath, outPath, version string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading zenodo metadata: %w", err)
	}

	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return fmt.Errorf("parsing zenodo metadata: %w", err)
	}

	inner, ok := meta["metadata"].(map[string]any)
	if !ok {
		return fmt.Errorf("zenodo metadata in %s has no metadata object", inPath)
	}
	inner["version"] = version

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing zenodo metadata: %w", err)
	}
	return nil
}
