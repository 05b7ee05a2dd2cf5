package discover

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/md2html/internal/config"
)

// ResolveOutputPath computes the output path for an input file.
//
// The input must be a strict descendant of the configured base input path.
// Without an output root the result is the input path with only the
// extension rewritten (in-place mode); with an output root, the input's path
// relative to the base is re-anchored under it, or just its base name when
// output flattening is on.
//
// singleFileOverride enables the special case where single-file mode was
// requested with a suffixed -o value: the computed path is then exactly that
// file. Only discovery's explicitly named file gets the override; targets
// synthesized during dependency resolution land next to it instead.
//
// Only the .md extension (case-insensitive) is rewritten, to .html; every
// other extension is preserved, and such files become copy targets.
func ResolveOutputPath(cfg config.Config, inputPath string, singleFileOverride bool) (string, error) {
	outputRoot := cfg.OutputPath
	if cfg.SingleFileMode && cfg.OutputIsFile() {
		if singleFileOverride {
			return cfg.OutputPath, nil
		}
		outputRoot = filepath.Dir(cfg.OutputPath)
	}

	rel, err := filepath.Rel(cfg.BaseInputPath, inputPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s (base %s)", ErrPathOutsideBase, inputPath, cfg.BaseInputPath)
	}

	out := inputPath
	if outputRoot != "" {
		if cfg.Flatten {
			out = filepath.Join(outputRoot, filepath.Base(inputPath))
		} else {
			out = filepath.Join(outputRoot, rel)
		}
	}
	return rewriteMarkdownExt(out), nil
}

func rewriteMarkdownExt(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".md") {
		return strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	}
	return path
}
