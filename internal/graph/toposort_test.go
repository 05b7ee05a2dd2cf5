package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, g *BuildGraph, path string) {
	t.Helper()
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: path}))
}

func mustDepend(t *testing.T, g *BuildGraph, from, to string) {
	t.Helper()
	require.NoError(t, g.AddDependency(from, Dependency{Kind: DepBuild, Path: to}, to))
}

func indexOf(targets []*Target, path string) int {
	for i, tgt := range targets {
		if tgt.InputPath == path {
			return i
		}
	}
	return -1
}

func TestSort_DependencyBeforeDependent(t *testing.T) {
	g := New()
	mustAdd(t, g, "/src/note.md")
	mustAdd(t, g, "/src/hello.cpp")
	mustDepend(t, g, "/src/note.md", "/src/hello.cpp")

	ordered, err := Sort(g)
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	require.Less(t, indexOf(ordered, "/src/hello.cpp"), indexOf(ordered, "/src/note.md"))
}

func TestSort_Chain_StrictOrder(t *testing.T) {
	g := New()
	// Inserted in reverse dependency order on purpose.
	mustAdd(t, g, "/src/a.md")
	mustAdd(t, g, "/src/b.md")
	mustAdd(t, g, "/src/c.md")
	mustDepend(t, g, "/src/a.md", "/src/b.md")
	mustDepend(t, g, "/src/b.md", "/src/c.md")

	ordered, err := Sort(g)
	require.NoError(t, err)
	require.Less(t, indexOf(ordered, "/src/c.md"), indexOf(ordered, "/src/b.md"))
	require.Less(t, indexOf(ordered, "/src/b.md"), indexOf(ordered, "/src/a.md"))
}

func TestSort_OutputLengthAlwaysEqualsNodeCount(t *testing.T) {
	g := New()
	mustAdd(t, g, "/src/a.md")
	mustAdd(t, g, "/src/b.md")
	mustAdd(t, g, "/src/c.md")
	mustDepend(t, g, "/src/a.md", "/src/c.md")

	ordered, err := Sort(g)
	require.NoError(t, err)
	require.Len(t, ordered, g.Len())
}

func TestSort_IncludeEdgesDoNotConstrainOrder(t *testing.T) {
	g := New()
	mustAdd(t, g, "/src/a.md")
	mustAdd(t, g, "/src/b.md")
	require.NoError(t, g.AddDependency("/src/a.md", Dependency{Kind: DepInclude, Path: "b.md"}, "/src/b.md"))

	ordered, err := Sort(g)
	require.NoError(t, err)
	// No ordering constraint, so insertion order survives.
	require.Equal(t, "/src/a.md", ordered[0].InputPath)
	require.Equal(t, "/src/b.md", ordered[1].InputPath)
}

func TestSort_TieBreakIsInsertionOrder(t *testing.T) {
	g := New()
	mustAdd(t, g, "/src/z.md")
	mustAdd(t, g, "/src/m.md")
	mustAdd(t, g, "/src/a.md")

	ordered, err := Sort(g)
	require.NoError(t, err)
	require.Equal(t, "/src/z.md", ordered[0].InputPath)
	require.Equal(t, "/src/m.md", ordered[1].InputPath)
	require.Equal(t, "/src/a.md", ordered[2].InputPath)
}

func TestSort_Cycle_FailsNamingAllUnplacedNodes(t *testing.T) {
	g := New()
	mustAdd(t, g, "/src/a.md")
	mustAdd(t, g, "/src/b.md")
	mustDepend(t, g, "/src/a.md", "/src/b.md")
	mustDepend(t, g, "/src/b.md", "/src/a.md")

	ordered, err := Sort(g)
	require.Nil(t, ordered)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	require.ElementsMatch(t, []string{"/src/a.md", "/src/b.md"}, cycle.Nodes)
}

func TestSort_CycleWithIndependentNode_NeverTruncatesSilently(t *testing.T) {
	g := New()
	mustAdd(t, g, "/src/free.md")
	mustAdd(t, g, "/src/a.md")
	mustAdd(t, g, "/src/b.md")
	mustDepend(t, g, "/src/a.md", "/src/b.md")
	mustDepend(t, g, "/src/b.md", "/src/a.md")

	ordered, err := Sort(g)
	require.Nil(t, ordered)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	// Only the cyclic remainder is reported; the free node was placeable.
	require.ElementsMatch(t, []string{"/src/a.md", "/src/b.md"}, cycle.Nodes)
}

func TestSort_EdgeToNonNodeIsIgnored(t *testing.T) {
	g := New()
	mustAdd(t, g, "/src/a.md")
	// A build dependency whose copy target was suppressed (output == input)
	// never becomes a node; it must not wedge the sort.
	mustDepend(t, g, "/src/a.md", "/src/external.bin")

	ordered, err := Sort(g)
	require.NoError(t, err)
	require.Len(t, ordered, 1)
}

func TestSort_EmptyGraph(t *testing.T) {
	ordered, err := Sort(New())
	require.NoError(t, err)
	require.Empty(t, ordered)
}
