// Package dag builds a validated dependency graph over tasks. Edges are
// derived from file paths: a task that depends on a path another task
// produces runs after its producer. Paths no task produces are external
// inputs and create no edge.
package dag

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/climres/h2pipeline/internal/ctxlog"
	"github.com/climres/h2pipeline/internal/task"
)

// NodeState tracks a node's lifecycle during execution.
type NodeState int32

const (
	Pending NodeState = iota
	Running
	Done
	Skipped
	Failed
)

// Node is a single vertex in the graph, wrapping one task.
type Node struct {
	ID   string
	Task task.Task

	Deps       map[string]*Node
	Dependents map[string]*Node

	// depCount is decremented as dependencies complete; the node becomes
	// ready at zero.
	depCount atomic.Int32

	State atomic.Int32
	Error error

	// skipOnce guards the one-time failure/skip transition so a node is
	// never marked done and skipped by racing workers.
	skipOnce sync.Once
}

// SetInitialCounters primes the dependency counter before execution.
func (n *Node) SetInitialCounters() {
	n.depCount.Store(int32(len(n.Deps)))
}

// DepDone records one completed dependency and reports whether the node is
// now ready to run.
func (n *Node) DepDone() bool {
	return n.depCount.Add(-1) == 0
}

// MarkSkipped runs fn exactly once across all workers; later calls are
// no-ops. Used for the one-way failed/skipped transition.
func (n *Node) MarkSkipped(fn func()) {
	n.skipOnce.Do(fn)
}

// Graph is a validated task dependency graph.
type Graph struct {
	Nodes map[string]*Node
}

// Build constructs a graph from tasks. It rejects duplicate task names,
// targets claimed by more than one task, and dependency cycles.
func Build(ctx context.Context, tasks []task.Task) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if err := task.CheckDistinctTargets(tasks); err != nil {
		return nil, err
	}

	graph := &Graph{Nodes: make(map[string]*Node, len(tasks))}
	producer := map[string]*Node{}

	for _, t := range tasks {
		if _, exists := graph.Nodes[t.Name]; exists {
			return nil, fmt.Errorf("duplicate task name: %s", t.Name)
		}
		n := &Node{
			ID:         t.Name,
			Task:       t,
			Deps:       make(map[string]*Node),
			Dependents: make(map[string]*Node),
		}
		graph.Nodes[t.Name] = n
		for _, target := range t.Targets {
			producer[target] = n
		}
	}

	edges := 0
	for _, n := range graph.Nodes {
		for _, dep := range n.Task.Dependencies {
			from, ok := producer[dep]
			if !ok {
				continue // external input, no producing task
			}
			if from == n {
				return nil, fmt.Errorf("task %s depends on its own target %s", n.ID, dep)
			}
			if _, dup := n.Deps[from.ID]; dup {
				continue
			}
			n.Deps[from.ID] = from
			from.Dependents[n.ID] = n
			edges++
		}
	}
	logger.Debug("Built task graph.", "tasks", len(graph.Nodes), "edges", edges)

	for _, n := range graph.Nodes {
		n.SetInitialCounters()
	}

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}

	return graph, nil
}

// detectCycles checks for circular dependencies using depth-first search
// with the classic visiting/visited coloring.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if visited[n.ID] {
			return nil
		}
		if visiting[n.ID] {
			return fmt.Errorf("cycle detected involving task '%s'", n.ID)
		}

		visiting[n.ID] = true
		for _, dependent := range n.Dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(visiting, n.ID)
		visited[n.ID] = true

		return nil
	}

	for _, n := range g.Nodes {
		if !visited[n.ID] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopoOrder returns the node IDs in a deterministic dependency-respecting
// order. It is used for dry-run listings, not by the executor.
func (g *Graph) TopoOrder() []string {
	indegree := make(map[string]int, len(g.Nodes))
	for id, n := range g.Nodes {
		indegree[id] = len(n.Deps)
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}

	var order []string
	for len(ready) > 0 {
		// Pick the lexicographically smallest ready node so the order is
		// stable across runs.
		minIdx := 0
		for i, id := range ready {
			if id < ready[minIdx] {
				minIdx = i
			}
		}
		id := ready[minIdx]
		ready = append(ready[:minIdx], ready[minIdx+1:]...)
		order = append(order, id)

		for depID := range g.Nodes[id].Dependents {
			indegree[depID]--
			if indegree[depID] == 0 {
				ready = append(ready, depID)
			}
		}
	}
	return order
}
