// Package builder executes an ordered build plan: markdown targets render to
// HTML, copy targets are copied byte-for-byte, and execute targets run their
// build command. The planner itself never writes to the filesystem; all
// output happens here.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/md2html/internal/config"
	"git.home.luguber.info/inful/md2html/internal/graph"
	"git.home.luguber.info/inful/md2html/internal/logfields"
	"git.home.luguber.info/inful/md2html/internal/metrics"
)

// Builder executes build plans.
type Builder struct {
	cfg config.Config
	rec metrics.Recorder
}

// New creates a builder. A nil recorder falls back to the noop recorder.
func New(cfg config.Config, rec metrics.Recorder) *Builder {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Builder{cfg: cfg, rec: rec}
}

// Result summarizes one build run.
type Result struct {
	Built   int
	Skipped int
	Failed  int
}

// Run executes every target in order. Per-item failures are logged and
// counted but never abort the run; sibling targets still build.
func (b *Builder) Run(ctx context.Context, targets []*graph.Target) Result {
	runID := uuid.NewString()
	start := time.Now()
	slog.Info("Starting build", logfields.RunID(runID), logfields.Count(len(targets)))

	var res Result
	for _, t := range targets {
		switch err := b.buildOne(ctx, t); {
		case err == errSkipped:
			res.Skipped++
			if b.cfg.Verbose {
				slog.Debug("Skipping existing output", logfields.Input(t.InputPath), logfields.Output(t.OutputPath))
			}
		case err != nil:
			res.Failed++
			slog.Warn("Build item failed",
				logfields.RunID(runID), logfields.Input(t.InputPath), logfields.Error(err))
		default:
			res.Built++
		}
	}

	elapsed := time.Since(start)
	b.rec.ObserveBuildDuration(elapsed)
	outcome := "success"
	if res.Failed > 0 {
		outcome = "warning"
	}
	b.rec.IncBuildOutcome(outcome)

	slog.Info("Build finished",
		logfields.RunID(runID),
		slog.Int("built", res.Built), slog.Int("skipped", res.Skipped), slog.Int("failed", res.Failed),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return res
}

// errSkipped signals an output left untouched under --no-overwrite.
var errSkipped = fmt.Errorf("output exists")

func (b *Builder) buildOne(ctx context.Context, t *graph.Target) error {
	if t.OutputPath == "" || t.Kind == graph.KindDependency {
		return nil
	}
	if !b.cfg.ForceOverwrite {
		if _, err := os.Stat(t.OutputPath); err == nil {
			return errSkipped
		}
	}
	if err := os.MkdirAll(filepath.Dir(t.OutputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	switch t.Kind {
	case graph.KindMarkdown:
		return b.renderMarkdown(t)
	case graph.KindCopy:
		return copyFile(t.InputPath, t.OutputPath)
	case graph.KindExecute:
		return b.runBuildCommand(ctx, t)
	default:
		return fmt.Errorf("unhandled target kind %q", t.Kind)
	}
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// runBuildCommand substitutes {src}/{dest} into the target's command template
// and runs it through the shell, as the command table relies on redirection.
func (b *Builder) runBuildCommand(ctx context.Context, t *graph.Target) error {
	cmd := strings.NewReplacer("{src}", t.InputPath, "{dest}", t.OutputPath).Replace(t.BuildCommand)
	slog.Debug("Running build command", logfields.Input(t.InputPath), slog.String("command", cmd))
	out, err := exec.CommandContext(ctx, "sh", "-c", cmd).CombinedOutput()
	if err != nil {
		return fmt.Errorf("build command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
