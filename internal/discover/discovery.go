// Package discover walks the input paths and classifies surviving files into
// build-graph targets. Discovery is synchronous and performs no filesystem
// writes; structural problems (missing inputs, directories without -r,
// duplicate targets) surface as errors; ignored entries and the output-root
// recursion guard skip silently.
package discover

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/md2html/internal/config"
	"git.home.luguber.info/inful/md2html/internal/graph"
	"git.home.luguber.info/inful/md2html/internal/logfields"
)

// Discovery populates a build graph with targets from CLI input paths.
type Discovery struct {
	cfg config.Config
	g   *graph.BuildGraph
}

// New creates a discovery bound to cfg and the graph it extends.
func New(cfg config.Config, g *graph.BuildGraph) *Discovery {
	return &Discovery{cfg: cfg, g: g}
}

// Discover processes each root path, recursing into directories when
// recursive mode is on. Roots are the positional CLI arguments, already
// absolute.
func (d *Discovery) Discover(roots []string) error {
	for _, root := range roots {
		if err := d.handle(root, true); err != nil {
			return err
		}
	}
	return nil
}

func (d *Discovery) handle(path string, explicitArg bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	if ShouldIgnore(path) && !d.cfg.SingleFileMode {
		return nil
	}

	if !info.IsDir() {
		return d.addFile(path)
	}

	if !d.cfg.Recursive {
		return fmt.Errorf("%w: %s", ErrRecursionDisabled, path)
	}
	if d.isOutputRootSelfReference(path) {
		// `md2html -o html ./*` lists html/ as a positional arg; scanning it
		// would recurse into freshly written output forever.
		if explicitArg && d.cfg.Verbose {
			slog.Warn("Skipping output directory given as input", logfields.Path(path))
		} else {
			slog.Debug("Skipping output directory self-reference", logfields.Path(path))
		}
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", path, err)
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if ShouldIgnore(child) {
			continue
		}
		if err := d.handle(child, false); err != nil {
			return err
		}
	}
	return nil
}

func (d *Discovery) addFile(path string) error {
	outputPath, err := ResolveOutputPath(d.cfg, path, true)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".md") {
		return d.g.Add(&graph.Target{
			Kind:       graph.KindMarkdown,
			InputPath:  path,
			OutputPath: outputPath,
		})
	}

	// Copying a file onto itself happens when input and output directories
	// coincide; suppress the target instead of clobbering the source.
	if filepath.Clean(outputPath) == filepath.Clean(path) {
		return nil
	}
	return d.g.Add(&graph.Target{
		Kind:       graph.KindCopy,
		InputPath:  path,
		OutputPath: outputPath,
	})
}

// isOutputRootSelfReference reports whether dir is the configured output root
// nested (strictly) under the base input path. `md2html html -o html` does
// not trigger this: there the base itself is html, not a strict ancestor.
func (d *Discovery) isOutputRootSelfReference(dir string) bool {
	if d.cfg.OutputPath == "" {
		return false
	}
	if filepath.Clean(dir) != filepath.Clean(d.cfg.OutputPath) {
		return false
	}
	rel, err := filepath.Rel(d.cfg.BaseInputPath, d.cfg.OutputPath)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}
