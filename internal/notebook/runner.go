package notebook

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/climres/h2pipeline/internal/ctxlog"
)

// ExecutionError wraps any failure of the external notebook executor with
// the notebook that failed.
type ExecutionError struct {
	Notebook string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed to execute: %v", e.Notebook, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Runner is the contract for the external notebook executor. On success, all
// of the step's declared targets are expected to exist; any failure is
// surfaced as an error, never swallowed.
type Runner interface {
	Run(ctx context.Context, rawNotebook, unexecutedNotebook, executedNotebook string, parameters map[string]string) error
}

// CommandRunner executes notebooks by shelling out: jupytext converts the
// raw script to an unexecuted .ipynb, papermill executes it with the given
// parameters.
type CommandRunner struct {
	// Jupytext is the jupytext executable, "jupytext" by default.
	Jupytext string
	// Papermill is the papermill executable, "papermill" by default.
	Papermill string
}

// NewCommandRunner returns a CommandRunner using the default executable
// names, resolved through PATH.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{Jupytext: "jupytext", Papermill: "papermill"}
}

// Run implements Runner.
func (r *CommandRunner) Run(ctx context.Context, rawNotebook, unexecutedNotebook, executedNotebook string, parameters map[string]string) error {
	logger := ctxlog.FromContext(ctx)

	for _, dir := range []string{filepath.Dir(unexecutedNotebook), filepath.Dir(executedNotebook)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &ExecutionError{Notebook: rawNotebook, Err: err}
		}
	}

	logger.Info("Templating notebook.", "raw", rawNotebook, "unexecuted", unexecutedNotebook)
	if err := r.command(ctx, r.Jupytext, "--to", "ipynb", "--output", unexecutedNotebook, rawNotebook); err != nil {
		return &ExecutionError{Notebook: rawNotebook, Err: err}
	}

	args := []string{unexecutedNotebook, executedNotebook}
	for _, k := range sortedKeys(parameters) {
		args = append(args, "-p", k, parameters[k])
	}

	logger.Info("Executing notebook.", "unexecuted", unexecutedNotebook, "executed", executedNotebook)
	if err := r.command(ctx, r.Papermill, args...); err != nil {
		return &ExecutionError{Notebook: unexecutedNotebook, Err: err}
	}

	return nil
}

func (r *CommandRunner) command(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
