package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/climres/h2pipeline/internal/task"
)

func noop(context.Context) error { return nil }

func TestBuild_EdgesFromTargets(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{Name: "produce", Action: noop, Targets: []string{"/out/a.csv"}},
		{Name: "consume", Action: noop, Dependencies: []string{"/out/a.csv", "/data/external.csv"}, Targets: []string{"/out/b.csv"}},
	}

	g, err := Build(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)

	consume := g.Nodes["consume"]
	require.Len(t, consume.Deps, 1)
	require.Contains(t, consume.Deps, "produce")

	// External inputs with no producing task create no edge.
	produce := g.Nodes["produce"]
	require.Empty(t, produce.Deps)
	require.Contains(t, produce.Dependents, "consume")
}

func TestBuild_DuplicateName(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{Name: "same", Action: noop, Targets: []string{"/out/a"}},
		{Name: "same", Action: noop, Targets: []string{"/out/b"}},
	}

	_, err := Build(context.Background(), tasks)
	require.ErrorContains(t, err, "duplicate task name")
}

func TestBuild_OverlappingTargets(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{Name: "a", Action: noop, Targets: []string{"/out/shared"}},
		{Name: "b", Action: noop, Targets: []string{"/out/shared"}},
	}

	_, err := Build(context.Background(), tasks)
	require.ErrorContains(t, err, "/out/shared")
}

func TestBuild_SelfDependency(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{Name: "loop", Action: noop, Dependencies: []string{"/out/a"}, Targets: []string{"/out/a"}},
	}

	_, err := Build(context.Background(), tasks)
	require.ErrorContains(t, err, "its own target")
}

func TestBuild_Cycle(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{Name: "a", Action: noop, Dependencies: []string{"/out/b"}, Targets: []string{"/out/a"}},
		{Name: "b", Action: noop, Dependencies: []string{"/out/a"}, Targets: []string{"/out/b"}},
	}

	_, err := Build(context.Background(), tasks)
	require.ErrorContains(t, err, "cycle detected")
}

func TestTopoOrder(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{Name: "c", Action: noop, Dependencies: []string{"/out/b"}, Targets: []string{"/out/c"}},
		{Name: "b", Action: noop, Dependencies: []string{"/out/a"}, Targets: []string{"/out/b"}},
		{Name: "a", Action: noop, Targets: []string{"/out/a"}},
		{Name: "standalone", Action: noop, Targets: []string{"/out/s"}},
	}

	g, err := Build(context.Background(), tasks)
	require.NoError(t, err)

	order := g.TopoOrder()
	require.Equal(t, []string{"a", "b", "c", "standalone"}, order)

	// Deterministic across rebuilds.
	g2, err := Build(context.Background(), tasks)
	require.NoError(t, err)
	require.Equal(t, order, g2.TopoOrder())
}
