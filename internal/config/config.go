package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config is the immutable per-run configuration. It is derived once from CLI
// flags, an optional md2html.json file and the environment, then passed by
// value into each component's entry point; no process-wide state.
type Config struct {
	// InvokedFrom is the working directory at startup.
	InvokedFrom string

	// BaseInputPath anchors relative output-path computation.
	// `md2html src -o html` sets it to src (html/file1.html, ...);
	// `md2html src1 src2 -o html` sets it to the working directory
	// (html/src1/file1.html, ...); a single file argument sets it to that
	// file's directory.
	BaseInputPath string

	// SingleFileMode is true when exactly one regular file was named on the
	// command line. The ignore filter is bypassed for that file, and a
	// suffixed -o value is treated as the exact output file.
	SingleFileMode bool

	// OutputPath is the -o value: a file in single-file mode (when it has a
	// suffix) or a directory otherwise. Empty means in-place output.
	OutputPath string

	// Flatten drops the input directory structure: outputs land directly in
	// the output root under their base name. Structure is preserved by
	// default; the flag has no effect on in-place output.
	Flatten bool

	Recursive      bool
	Watch          bool
	Serve          bool
	Port           int
	Execute        bool
	ForceOverwrite bool
	Verbose        bool
	DryRun         bool
	TemplatesDir   string

	// BuildCommands maps file extensions to command templates for execute
	// targets ({src} and {dest} placeholders).
	BuildCommands map[string]string
}

// Default returns a config with defaults applied, anchored at the current
// working directory.
func Default() (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("resolving working directory: %w", err)
	}
	cfg := Config{
		InvokedFrom:    cwd,
		Port:           8000,
		ForceOverwrite: true,
		BuildCommands:  map[string]string{},
	}
	if p := os.Getenv("MD2HTML_PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			cfg.Port = port
		}
	}
	if t := os.Getenv("MD2HTML_TEMPLATES"); t != "" {
		cfg.TemplatesDir = t
	}
	return cfg, nil
}

// Finalize derives BaseInputPath and SingleFileMode from the positional
// inputs and enforces cross-flag rules (serve implies watch). It returns the
// inputs as absolute paths.
func (c *Config) Finalize(inputs []string) ([]string, error) {
	if c.Serve {
		c.Watch = true
	}

	abs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		a, err := filepath.Abs(in)
		if err != nil {
			return nil, fmt.Errorf("resolving input %s: %w", in, err)
		}
		abs = append(abs, a)
	}

	switch {
	case len(abs) == 1:
		info, err := os.Stat(abs[0])
		if err == nil && info.IsDir() {
			c.BaseInputPath = abs[0]
		} else {
			// A single (possibly missing) file argument: discovery reports
			// the missing-input error with full context later.
			c.BaseInputPath = filepath.Dir(abs[0])
			if err == nil {
				c.SingleFileMode = true
			}
		}
	default:
		c.BaseInputPath = c.InvokedFrom
	}

	if c.OutputPath != "" {
		a, err := filepath.Abs(c.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("resolving output path %s: %w", c.OutputPath, err)
		}
		c.OutputPath = a
	}
	if c.TemplatesDir != "" {
		a, err := filepath.Abs(c.TemplatesDir)
		if err != nil {
			return nil, fmt.Errorf("resolving templates dir %s: %w", c.TemplatesDir, err)
		}
		c.TemplatesDir = a
	}
	return abs, nil
}

// OutputIsFile reports whether the configured output names a file rather
// than a directory (single-file override rule: the -o value has a suffix).
func (c Config) OutputIsFile() bool {
	return c.OutputPath != "" && filepath.Ext(c.OutputPath) != ""
}

// ServeRoot returns the directory the dev server serves: the output
// directory (its parent when -o names a file), or the base input path for
// in-place output.
func (c Config) ServeRoot() string {
	if c.OutputPath == "" {
		return c.BaseInputPath
	}
	if c.OutputIsFile() {
		return filepath.Dir(c.OutputPath)
	}
	return c.OutputPath
}

// TemplateSearchPaths returns the directories searched for page templates,
// in priority order.
func (c Config) TemplateSearchPaths() []string {
	var paths []string
	if c.TemplatesDir != "" {
		paths = append(paths, c.TemplatesDir)
	}
	paths = append(paths, filepath.Join(c.InvokedFrom, "templates"))
	return paths
}

// FindTemplate locates a named template file, or returns empty when not found.
func (c Config) FindTemplate(name string) string {
	for _, dir := range c.TemplateSearchPaths() {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
