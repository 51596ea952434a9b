// Package runner executes a task graph with a pool of concurrent workers.
// Nodes become ready when all their dependencies have completed; a failing
// node cancels the run and marks everything downstream as skipped.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/climres/h2pipeline/internal/ctxlog"
	"github.com/climres/h2pipeline/internal/dag"
	"github.com/climres/h2pipeline/internal/state"
)

// ErrSkipped marks nodes that never ran because something upstream failed.
// Skipped nodes are symptoms; the run error reports only root causes.
var ErrSkipped = errors.New("skipped due to upstream failure")

// Executor runs a graph's tasks.
type Executor struct {
	Graph *dag.Graph
	Store *state.Store

	numWorkers int
	wg         sync.WaitGroup
}

// New creates an executor over graph with the given worker count.
func New(graph *dag.Graph, store *state.Store, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{Graph: graph, Store: store, numWorkers: workers}
}

// Run executes the entire graph concurrently and returns an error if any
// node fails. Up-to-date tasks are skipped and count as successful. The
// state store is saved on the way out even when the run fails, so completed
// work is remembered.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *dag.Node, len(e.Graph.Nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootNodeCount := 0
	for _, node := range e.Graph.Nodes {
		if len(node.Deps) == 0 {
			readyChan <- node
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(e.Graph.Nodes))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	e.wg.Wait()
	close(readyChan)

	if err := e.Store.Save(); err != nil {
		logger.Error("Failed to save run state.", "error", err)
	}

	var failedNodes []string
	var rootCauseError error
	for _, node := range e.Graph.Nodes {
		if dag.NodeState(node.State.Load()) != dag.Failed {
			continue
		}
		logger.Error("Task failed.", "task", node.ID, "error", node.Error)
		if node.Error != nil && !errors.Is(node.Error, ErrSkipped) && !errors.Is(node.Error, context.Canceled) {
			failedNodes = append(failedNodes, node.ID)
			if rootCauseError == nil {
				rootCauseError = node.Error
			}
		}
	}

	if rootCauseError != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failedNodes, ", "), rootCauseError)
	}
	return nil
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *dag.Node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)

	for node := range readyChan {
		workerLogger := logger.With("workerID", workerID, "task", node.ID)

		if ctx.Err() != nil {
			e.markFailed(ctx, node, ctx.Err())
			continue
		}

		if node.Task.UpToDate(e.Store) {
			workerLogger.Info("Task up to date, skipping.")
			node.State.Store(int32(dag.Skipped))
			e.unlockDependents(node, readyChan)
			e.wg.Done()
			continue
		}

		workerLogger.Info("Running task.", "doc", node.Task.Doc)
		node.State.Store(int32(dag.Running))

		err := node.Task.Action(ctx)
		if err == nil {
			if missing := node.Task.MissingTargets(); len(missing) > 0 {
				err = fmt.Errorf("task %s succeeded but targets are missing: %s", node.ID, strings.Join(missing, ", "))
			}
		}

		if err != nil {
			workerLogger.Error("Task failed.", "error", err)
			node.State.Store(int32(dag.Failed))
			node.Error = err
			cancel()
			e.skipDependents(ctx, node)
			e.wg.Done()
			continue
		}

		e.Store.Record(node.ID, node.Task.Fingerprint)

		workerLogger.Info("Task succeeded.")
		node.State.Store(int32(dag.Done))
		e.unlockDependents(node, readyChan)
		e.wg.Done()
	}
}

func (e *Executor) unlockDependents(node *dag.Node, readyChan chan *dag.Node) {
	for _, dependent := range node.Dependents {
		if dependent.DepDone() {
			readyChan <- dependent
		}
	}
}

// markFailed records a failure exactly once for a node that never ran. Its
// dependents are skipped too; they will never become ready through the ready
// channel, so leaving them pending would wedge the WaitGroup.
func (e *Executor) markFailed(ctx context.Context, node *dag.Node, err error) {
	node.MarkSkipped(func() {
		node.State.Store(int32(dag.Failed))
		node.Error = err
		e.wg.Done()
	})
	e.skipDependents(ctx, node)
}

// skipDependents recursively marks all downstream nodes as failed so the
// run's accounting stays correct after a failure.
func (e *Executor) skipDependents(ctx context.Context, node *dag.Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range node.Dependents {
		dependent.MarkSkipped(func() {
			logger.Warn("Skipping task due to upstream failure.", "task", dependent.ID, "dependency", node.ID)
			dependent.State.Store(int32(dag.Failed))
			dependent.Error = fmt.Errorf("%w of '%s'", ErrSkipped, node.ID)
			e.wg.Done()
			e.skipDependents(ctx, dependent)
		})
	}
}
