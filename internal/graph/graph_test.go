package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd_DuplicateInputPath_Fails(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: "/src/a.md"}))

	err := g.Add(&Target{Kind: KindCopy, InputPath: "/src/a.md"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateTarget))

	// The original target survives the failed insert.
	require.Equal(t, KindMarkdown, g.Get("/src/a.md").Kind)
	require.Equal(t, 1, g.Len())
}

func TestTargets_PreservesInsertionOrder(t *testing.T) {
	g := New()
	for _, p := range []string{"/src/c.md", "/src/a.md", "/src/b.md"} {
		require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: p}))
	}

	targets := g.Targets()
	require.Len(t, targets, 3)
	require.Equal(t, "/src/c.md", targets[0].InputPath)
	require.Equal(t, "/src/a.md", targets[1].InputPath)
	require.Equal(t, "/src/b.md", targets[2].InputPath)
}

func TestAddDependency_SelfBuildEdge_Fails(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: "/src/a.md"}))

	err := g.AddDependency("/src/a.md", Dependency{Kind: DepBuild, Path: "a.md"}, "/src/a.md")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSelfDependency))
}

func TestAddDependency_IncludeOnSelf_IsAllowedForWatching(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: "/src/a.md"}))
	require.NoError(t, g.AddDependency("/src/a.md", Dependency{Kind: DepInclude, Path: "a.md"}, "/src/a.md"))
	require.Empty(t, g.BuildDeps("/src/a.md"))
}

func TestAddDependency_UnknownTarget_Fails(t *testing.T) {
	g := New()
	err := g.AddDependency("/src/missing.md", Dependency{Kind: DepInclude, Path: "x"}, "/src/x")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownTarget))
}

func TestWatchSet_UnionOfInputsAndDependencies(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: "/src/a.md"}))
	require.NoError(t, g.Add(&Target{Kind: KindCopy, InputPath: "/src/img.png"}))
	require.NoError(t, g.AddDependency("/src/a.md", Dependency{Kind: DepInclude, Path: "other.md"}, "/src/other.md"))
	require.NoError(t, g.AddDependency("/src/a.md", Dependency{Kind: DepBuild, Path: "hello.cpp"}, "/src/hello.cpp"))

	require.Equal(t, []string{"/src/a.md", "/src/hello.cpp", "/src/img.png", "/src/other.md"}, g.WatchSet())
}

func TestWatchSet_DeduplicatesRepeatedReferences(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: "/src/a.md"}))
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: "/src/b.md"}))
	require.NoError(t, g.AddDependency("/src/a.md", Dependency{Kind: DepInclude, Path: "shared.md"}, "/src/shared.md"))
	require.NoError(t, g.AddDependency("/src/b.md", Dependency{Kind: DepInclude, Path: "shared.md"}, "/src/shared.md"))

	require.Equal(t, []string{"/src/a.md", "/src/b.md", "/src/shared.md"}, g.WatchSet())
}

func TestBuildDeps_OnlyBuildKindRecorded(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(&Target{Kind: KindMarkdown, InputPath: "/src/a.md"}))
	require.NoError(t, g.AddDependency("/src/a.md", Dependency{Kind: DepInclude, Path: "inc.md"}, "/src/inc.md"))
	require.NoError(t, g.AddDependency("/src/a.md", Dependency{Kind: DepBuild, Path: "dep.cpp"}, "/src/dep.cpp"))

	require.Equal(t, []string{"/src/dep.cpp"}, g.BuildDeps("/src/a.md"))
}

func TestOptionValue_AsString(t *testing.T) {
	require.Equal(t, "intro", StringValue("intro").AsString())
	require.Equal(t, "true", BoolValue(true).AsString())
	require.Equal(t, "false", BoolValue(false).AsString())
	require.Equal(t, "42", IntValue(42).AsString())
}
