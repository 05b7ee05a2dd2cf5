package graph

import (
	"fmt"

	"git.home.luguber.info/inful/md2html/internal/util/sets"
)

// BuildGraph is the node/edge store for one planning run.
//
// Nodes are keyed by canonical input path and kept in insertion order; the
// order affects tie-breaks in repeated enumeration, never correctness. A
// graph is built fresh per invocation and is read-only once handed to the
// sorter; there is no deletion operation.
type BuildGraph struct {
	nodes map[string]*Target
	order []string

	// buildDeps maps a dependent's input path to the resolved paths of its
	// build-kind dependencies. Include dependencies never appear here.
	buildDeps map[string][]string

	watch sets.Set[string]
}

// New creates an empty build graph.
func New() *BuildGraph {
	return &BuildGraph{
		nodes:     make(map[string]*Target),
		buildDeps: make(map[string][]string),
		watch:     sets.New[string](),
	}
}

// Add inserts a target. Inserting a second target with the same input path is
// a construction error, never a silent merge.
func (g *BuildGraph) Add(t *Target) error {
	if t == nil {
		return fmt.Errorf("%w: nil target", ErrUnknownTarget)
	}
	if _, exists := g.nodes[t.InputPath]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTarget, t.InputPath)
	}
	g.nodes[t.InputPath] = t
	g.order = append(g.order, t.InputPath)
	g.watch.Add(t.InputPath)
	return nil
}

// Has reports whether a target with the given input path exists.
func (g *BuildGraph) Has(inputPath string) bool {
	_, ok := g.nodes[inputPath]
	return ok
}

// Get returns the target for inputPath, or nil.
func (g *BuildGraph) Get(inputPath string) *Target {
	return g.nodes[inputPath]
}

// Len returns the node count.
func (g *BuildGraph) Len() int { return len(g.order) }

// Targets returns all targets in insertion order.
func (g *BuildGraph) Targets() []*Target {
	out := make([]*Target, 0, len(g.order))
	for _, p := range g.order {
		out = append(out, g.nodes[p])
	}
	return out
}

// AddDependency appends a declared dependency record to the target identified
// by inputPath and updates the derived state: the resolved path joins the
// watch set, and build-kind dependencies additionally record an ordering
// edge. A build dependency on the declaring file itself is a hard error.
func (g *BuildGraph) AddDependency(inputPath string, dep Dependency, resolvedPath string) error {
	t, ok := g.nodes[inputPath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, inputPath)
	}
	if dep.Kind == DepBuild && resolvedPath == inputPath {
		return fmt.Errorf("%w: %s", ErrSelfDependency, inputPath)
	}
	t.Dependencies = append(t.Dependencies, dep)
	g.watch.Add(resolvedPath)
	if dep.Kind == DepBuild {
		g.buildDeps[inputPath] = append(g.buildDeps[inputPath], resolvedPath)
	}
	return nil
}

// BuildDeps returns the resolved build-dependency paths of inputPath.
func (g *BuildGraph) BuildDeps(inputPath string) []string {
	return g.buildDeps[inputPath]
}

// WatchSet returns the de-duplicated union of every target's input path and
// every dependency's resolved path, sorted for deterministic subscription.
func (g *BuildGraph) WatchSet() []string {
	return sets.Sorted(g.watch)
}
