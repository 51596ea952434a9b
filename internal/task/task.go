// Package task converts notebook steps into runnable tasks with change
// detection. A task re-runs when any target is missing, when a file
// dependency is newer than the oldest target, or when its configuration
// fingerprint differs from the one recorded on the last successful run.
package task

import (
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Action executes a task's work. Actions must be safe to re-run.
type Action func(ctx context.Context) error

// FingerprintStore exposes the configuration fingerprints recorded by
// previous runs.
type FingerprintStore interface {
	// Fingerprint returns the recorded fingerprint for a task, and whether
	// one was recorded at all.
	Fingerprint(taskName string) (string, bool)
}

// Task is one unit of work in the run graph.
type Task struct {
	// Name uniquely identifies the task within a run.
	Name string
	// Doc is a human-readable description.
	Doc string

	Action Action

	// Dependencies are input paths; a dependency newer than the oldest
	// target makes the task stale.
	Dependencies []string

	// Targets are the paths the task creates. A task with no targets is
	// never up to date.
	Targets []string

	// Fingerprint is the digest of the configuration driving this task.
	// Empty means change detection falls back to Dependencies alone.
	Fingerprint string

	// CleanTargets opts the task into the cleanup pass, which removes its
	// targets instead of running anything.
	CleanTargets bool
}

// Fingerprint digests a configuration payload. The payload is serialized to
// YAML, which sorts map keys, so structurally equal payloads always produce
// the same digest regardless of construction order.
func Fingerprint(configuration any) (string, error) {
	data, err := yaml.Marshal(configuration)
	if err != nil {
		return "", fmt.Errorf("fingerprinting configuration: %w", err)
	}
	return fmt.Sprintf("%x", md5.Sum(data)), nil
}

// UpToDate reports whether the task can be skipped. A skipped task's outputs
// are trusted as-is, so the check is conservative: anything ambiguous counts
// as stale rather than up to date.
func (t Task) UpToDate(store FingerprintStore) bool {
	if len(t.Targets) == 0 {
		return false
	}

	oldest, ok := oldestTargetTime(t.Targets)
	if !ok {
		return false
	}

	if t.Fingerprint != "" {
		recorded, found := store.Fingerprint(t.Name)
		if !found || recorded != t.Fingerprint {
			return false
		}
	}

	for _, dep := range t.Dependencies {
		info, err := os.Stat(dep)
		if err != nil {
			// A missing dependency means an upstream task still has to
			// produce it; this task cannot be current.
			return false
		}
		if info.ModTime().After(oldest) {
			return false
		}
	}

	return true
}

func oldestTargetTime(targets []string) (time.Time, bool) {
	var oldest time.Time
	for i, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return time.Time{}, false
		}
		if i == 0 || info.ModTime().Before(oldest) {
			oldest = info.ModTime()
		}
	}
	return oldest, true
}

// Clean removes the task's targets from disk and returns the paths it
// removed. Tasks not opted into cleaning are left alone. Only the target
// files themselves are removed: for a checklist target the directory it
// summarizes stays in place, since output-bundle directories are expected to
// be cleaned wholesale.
func (t Task) Clean() ([]string, error) {
	if !t.CleanTargets {
		return nil, nil
	}

	var removed []string
	for _, target := range t.Targets {
		if err := os.Remove(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("cleaning target of %s: %w", t.Name, err)
		}
		removed = append(removed, target)
	}
	return removed, nil
}

// MissingTargets returns the targets that do not exist on disk. A task whose
// action succeeded but left targets missing has a broken target declaration.
func (t Task) MissingTargets() []string {
	var missing []string
	for _, target := range t.Targets {
		if _, err := os.Stat(target); err != nil {
			missing = append(missing, target)
		}
	}
	return missing
}

// CheckDistinctTargets verifies that no two tasks claim the same target. Two
// producers for one path means at least one of them has a wrong target list,
// and the run order between them would be arbitrary.
func CheckDistinctTargets(tasks []Task) error {
	producer := map[string]string{}
	for _, t := range tasks {
		for _, target := range t.Targets {
			if other, ok := producer[target]; ok {
				return fmt.Errorf("target %s produced by both %s and %s", target, other, t.Name)
			}
			producer[target] = t.Name
		}
	}
	return nil
}
