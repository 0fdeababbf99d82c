package taskgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tymbalodeon/course-request-form/internal/rules"
)

func TestFindTask(t *testing.T) {
	require := require.New(t)

	g := New()
	require.NoError(g.AddTask(&rules.Command{IID: "freeze"}))

	require.NotNil(g.FindTask("freeze"))
	require.Nil(g.FindTask("thaw"))
}

func TestFindDependencies(t *testing.T) {
	require := require.New(t)

	g := New()
	require.NoError(g.AddTask(&rules.Command{IID: "add"}))
	require.NoError(g.AddTask(&rules.Command{IID: "package"}))
	require.NoError(g.AddDependency("add", "package"))

	deps := g.FindDependencies("add")
	require.Len(deps, 1)
	require.Equal("package", deps[0].ID())

	require.Empty(g.FindDependencies("package"))
}

func TestAddDependencyTwice(t *testing.T) {
	require := require.New(t)

	g := New()
	require.NoError(g.AddTask(&rules.Command{IID: "a"}))
	require.NoError(g.AddTask(&rules.Command{IID: "b"}))
	require.NoError(g.AddDependency("a", "b"))
	require.NoError(g.AddDependency("a", "b"))

	require.Len(g.FindDependencies("a"), 1)
}

func TestRejectsCycles(t *testing.T) {
	require := require.New(t)

	g := New()
	require.NoError(g.AddTask(&rules.Command{IID: "a"}))
	require.NoError(g.AddTask(&rules.Command{IID: "b"}))
	require.NoError(g.AddDependency("a", "b"))

	require.Error(g.AddDependency("b", "a"))
}
