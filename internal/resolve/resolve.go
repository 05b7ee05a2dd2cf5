// Package resolve expands a discovered build graph with the dependencies
// declared inside markdown documents. Expansion runs to a fixed point over an
// explicit worklist: newly synthesized markdown targets are queued and parsed
// in turn, never discovered by mutating a collection mid-iteration.
package resolve

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/md2html/internal/config"
	"git.home.luguber.info/inful/md2html/internal/directive"
	"git.home.luguber.info/inful/md2html/internal/discover"
	"git.home.luguber.info/inful/md2html/internal/graph"
	"git.home.luguber.info/inful/md2html/internal/logfields"
	"git.home.luguber.info/inful/md2html/internal/util/sets"
)

// Provider supplies frontmatter and dependency records for a document. A
// parse failure is downgraded to a warning by the resolver; it never aborts
// the plan.
type Provider interface {
	Parse(path string) (directive.Metadata, error)
}

// Resolver extends a build graph with declared-dependency edges.
type Resolver struct {
	cfg      config.Config
	g        *graph.BuildGraph
	provider Provider
}

// New creates a resolver over g using provider for directive parsing.
func New(cfg config.Config, g *graph.BuildGraph, provider Provider) *Resolver {
	return &Resolver{cfg: cfg, g: g, provider: provider}
}

// Expand parses every markdown target already in the graph, records its
// dependencies, and synthesizes targets for build dependencies (and
// transitively included markdown) that are not yet known.
func (r *Resolver) Expand() error {
	var queue []string
	for _, t := range r.g.Targets() {
		if t.Kind == graph.KindMarkdown {
			queue = append(queue, t.InputPath)
		}
	}

	parsed := sets.New[string]()
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if parsed.Has(path) {
			continue
		}
		parsed.Add(path)

		next, err := r.expandOne(path)
		if err != nil {
			return err
		}
		queue = append(queue, next...)
	}
	return nil
}

// expandOne processes one markdown target and returns any newly synthesized
// markdown paths that still need parsing.
func (r *Resolver) expandOne(path string) ([]string, error) {
	meta, err := r.provider.Parse(path)
	if err != nil {
		// Recoverable per-file failure: the target proceeds with empty
		// dependencies and frontmatter rather than failing the whole plan.
		slog.Warn("Directive parsing failed, continuing without dependencies",
			logfields.Path(path), logfields.Error(err))
		return nil, nil
	}

	target := r.g.Get(path)
	target.Frontmatter = meta.Frontmatter
	target.Template = meta.Template

	var newMarkdown []string
	for _, rec := range meta.Dependencies {
		resolved := resolveAgainst(path, rec.Path)
		dep := graph.Dependency{Path: rec.Path, Options: rec.Options}

		switch rec.Kind {
		case directive.KindInclude:
			dep.Kind = graph.DepInclude
			if err := r.g.AddDependency(path, dep, resolved); err != nil {
				return nil, err
			}
			// Transitively included documents are discovered and parsed so
			// their own dependencies join the watch set, but no build edge
			// is created for them.
			if isMarkdown(resolved) && !r.g.Has(resolved) && fileExists(resolved) {
				if err := r.addMarkdownTarget(resolved); err != nil {
					return nil, err
				}
				newMarkdown = append(newMarkdown, resolved)
			}
		case directive.KindSrc:
			dep.Kind = graph.DepBuild
			if !r.g.Has(resolved) {
				isNew, err := r.synthesize(resolved, rec.Options)
				if err != nil {
					return nil, err
				}
				if isNew && isMarkdown(resolved) {
					newMarkdown = append(newMarkdown, resolved)
				}
			}
			if err := r.g.AddDependency(path, dep, resolved); err != nil {
				return nil, err
			}
		default:
			slog.Warn("Unknown directive kind ignored",
				logfields.Path(path), slog.String("kind", string(rec.Kind)))
		}
	}
	return newMarkdown, nil
}

// synthesize creates a target for a build dependency that is not yet in the
// graph. Markdown becomes a markdown target; files with a known build command
// become execute targets when execution is enabled; everything else is a copy
// target (suppressed when it would copy onto itself).
func (r *Resolver) synthesize(path string, opts map[string]graph.OptionValue) (bool, error) {
	if isMarkdown(path) {
		return true, r.addMarkdownTarget(path)
	}

	outputPath, err := discover.ResolveOutputPath(r.cfg, path, false)
	if err != nil {
		return false, err
	}

	if r.executionWanted(opts) {
		if cmd := r.cfg.BuildCommandFor(filepath.Ext(path)); cmd != "" {
			return true, r.g.Add(&graph.Target{
				Kind:         graph.KindExecute,
				InputPath:    path,
				OutputPath:   outputPath + ".out",
				BuildCommand: cmd,
			})
		}
	}

	if filepath.Clean(outputPath) == filepath.Clean(path) {
		return false, nil
	}
	return true, r.g.Add(&graph.Target{
		Kind:       graph.KindCopy,
		InputPath:  path,
		OutputPath: outputPath,
	})
}

func (r *Resolver) addMarkdownTarget(path string) error {
	outputPath, err := discover.ResolveOutputPath(r.cfg, path, false)
	if err != nil {
		return err
	}
	return r.g.Add(&graph.Target{
		Kind:       graph.KindMarkdown,
		InputPath:  path,
		OutputPath: outputPath,
	})
}

// executionWanted honors the global -e flag and a per-directive
// execute=false override.
func (r *Resolver) executionWanted(opts map[string]graph.OptionValue) bool {
	if !r.cfg.Execute {
		return false
	}
	if v, ok := opts["execute"]; ok {
		if b, isBool := v.Bool(); isBool {
			return b
		}
	}
	return true
}

// resolveAgainst resolves a declared dependency path against the declaring
// file's directory. Declared paths stay verbatim on the record; this resolved
// form is used only as the graph edge key.
func resolveAgainst(declaring, declared string) string {
	if filepath.IsAbs(declared) {
		return filepath.Clean(declared)
	}
	return filepath.Join(filepath.Dir(declaring), declared)
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
