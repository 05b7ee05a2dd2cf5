package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/md2html/internal/builder"
	"git.home.luguber.info/inful/md2html/internal/config"
	"git.home.luguber.info/inful/md2html/internal/directive"
	"git.home.luguber.info/inful/md2html/internal/discover"
	"git.home.luguber.info/inful/md2html/internal/graph"
	"git.home.luguber.info/inful/md2html/internal/logfields"
	"git.home.luguber.info/inful/md2html/internal/metrics"
	"git.home.luguber.info/inful/md2html/internal/resolve"
	"git.home.luguber.info/inful/md2html/internal/serve"
	"git.home.luguber.info/inful/md2html/internal/version"
	"git.home.luguber.info/inful/md2html/internal/watch"
)

var CLI struct {
	Output      string           `short:"o" help:"Output file (single input) or directory (multiple inputs)"`
	Flatten     bool             `help:"Place outputs directly in the output directory, dropping subdirectory structure"`
	Recursive   bool             `short:"r" help:"Process directories recursively"`
	Watch       bool             `short:"w" help:"Watch files for changes and rebuild"`
	Serve       bool             `short:"s" help:"Start development server (implies --watch)"`
	Port        int              `short:"p" help:"Server port (default: 8000)"`
	Execute     bool             `short:"e" help:"Execute embedded code blocks"`
	NoOverwrite bool             `short:"n" help:"Don't overwrite existing files"`
	Verbose     bool             `short:"v" help:"Verbose output"`
	DryRun      bool             `short:"d" help:"Dry run mode (output build plan as JSON)"`
	Templates   string           `help:"Templates directory (default: ./templates)"`
	Config      string           `short:"c" help:"Configuration file (default: md2html.json when no inputs given)"`
	Version     kong.VersionFlag `help:"Print version and exit"`
	Inputs      []string         `arg:"" optional:"" help:"Input files or directories"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("md2html"),
		kong.Description("Markdown to HTML converter with a dependency-ordered build plan"),
		kong.Vars{"version": version.Version})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	config.LoadEnv()

	cfg, inputs, err := buildConfig()
	if err != nil {
		slog.Error("Configuration failed", logfields.Error(err))
		if errors.Is(err, errNoInputs) {
			_ = kctx.PrintUsage(false)
		}
		os.Exit(1)
	}

	if err := run(cfg, inputs); err != nil {
		slog.Error("md2html failed", logfields.Error(err))
		os.Exit(1)
	}
}

// errNoInputs means nothing names an input: no positional arguments, and no
// md2html.json to fall back on. main prints usage for it.
var errNoInputs = errors.New("no input files specified")

// buildConfig assembles the run configuration: defaults, then the config
// file (explicit -c, or md2html.json when no inputs were given), then CLI
// flags on top.
func buildConfig() (config.Config, []string, error) {
	cfg, err := config.Default()
	if err != nil {
		return config.Config{}, nil, err
	}

	inputs := CLI.Inputs
	configPath := CLI.Config
	if configPath == "" && len(inputs) == 0 {
		if _, err := os.Stat("md2html.json"); err == nil {
			configPath = "md2html.json"
		} else {
			return config.Config{}, nil, fmt.Errorf("%w and no md2html.json found", errNoInputs)
		}
	}
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			return config.Config{}, nil, err
		}
		fileInputs := fc.Apply(&cfg)
		if len(inputs) == 0 {
			inputs = fileInputs
		}
	}

	if CLI.Output != "" {
		cfg.OutputPath = CLI.Output
	}
	if CLI.Flatten {
		cfg.Flatten = true
	}
	if CLI.Recursive {
		cfg.Recursive = true
	}
	if CLI.Watch {
		cfg.Watch = true
	}
	if CLI.Serve {
		cfg.Serve = true
	}
	if CLI.Port != 0 {
		cfg.Port = CLI.Port
	}
	if CLI.Execute {
		cfg.Execute = true
	}
	if CLI.NoOverwrite {
		cfg.ForceOverwrite = false
	}
	if CLI.Verbose {
		cfg.Verbose = true
	}
	if CLI.DryRun {
		cfg.DryRun = true
	}
	if CLI.Templates != "" {
		cfg.TemplatesDir = CLI.Templates
	}

	if len(inputs) == 0 {
		return config.Config{}, nil, errNoInputs
	}

	absInputs, err := cfg.Finalize(inputs)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, absInputs, nil
}

// plan runs discovery, dependency resolution and the topological sort over a
// fresh graph. Every invocation builds its own graph; nothing is shared
// across watch-loop iterations.
func plan(cfg config.Config, inputs []string) (*graph.BuildGraph, []*graph.Target, error) {
	g := graph.New()
	if err := discover.New(cfg, g).Discover(inputs); err != nil {
		return nil, nil, err
	}
	if err := resolve.New(cfg, g, directive.Scanner{}).Expand(); err != nil {
		return nil, nil, err
	}
	ordered, err := graph.Sort(g)
	if err != nil {
		return nil, nil, err
	}
	return g, ordered, nil
}

func run(cfg config.Config, inputs []string) error {
	g, ordered, err := plan(cfg, inputs)
	if err != nil {
		return err
	}
	slog.Debug("Build plan ready", logfields.Count(g.Len()))

	if cfg.DryRun {
		data, err := graph.MarshalPlan(g.Targets())
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if cfg.Serve {
		var pr *metrics.PrometheusRecorder
		pr, registry = metrics.NewPrometheusRecorder(nil)
		rec = pr
	}
	rec.SetTargetsPlanned(g.Len())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b := builder.New(cfg, rec)
	res := b.Run(ctx, ordered)

	if !cfg.Watch {
		if res.Failed > 0 {
			slog.Warn("Build completed with failures", slog.Int("failed", res.Failed))
		}
		return nil
	}

	return watchLoop(ctx, cfg, inputs, b, rec, registry, g.WatchSet())
}

// watchLoop rebuilds on file changes and optionally runs the dev server.
// Watcher and server are independent tasks; they share only the read-only
// config and the filesystem.
func watchLoop(ctx context.Context, cfg config.Config, inputs []string, b *builder.Builder, rec metrics.Recorder, registry *prom.Registry, watchSet []string) error {
	watcher, err := watch.New(300 * time.Millisecond)
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.SetPaths(watchSet); err != nil {
		return err
	}

	var hub *serve.LiveReloadHub
	serverErr := make(chan error, 1)
	if cfg.Serve {
		hub = serve.NewLiveReloadHub(rec)
		srv := serve.New(cfg.ServeRoot(), cfg.Port, hub, registry)
		go func() { serverErr <- srv.Start(ctx) }()
	}

	onChange := func(changed []string) {
		slog.Info("Rebuilding after change", logfields.Count(len(changed)))
		g, ordered, err := plan(cfg, inputs)
		if err != nil {
			// Structural plan errors in watch mode are reported but keep the
			// watcher alive so the next edit can fix them.
			slog.Error("Replanning failed", logfields.Error(err))
			return
		}
		rec.SetTargetsPlanned(g.Len())
		b.Run(ctx, ordered)
		if err := watcher.SetPaths(g.WatchSet()); err != nil {
			slog.Warn("Failed to update watch set", logfields.Error(err))
		}
		if hub != nil {
			hub.Broadcast(uuid.NewString())
		}
	}

	slog.Info("Watching for changes", logfields.Count(len(watchSet)))
	watchDone := make(chan error, 1)
	go func() { watchDone <- watcher.Run(ctx, onChange) }()

	select {
	case err := <-serverErr:
		return err
	case err := <-watchDone:
		return err
	case <-ctx.Done():
		return nil
	}
}
