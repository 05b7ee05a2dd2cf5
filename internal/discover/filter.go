package discover

import (
	"path/filepath"
	"strings"
)

// ShouldIgnore reports whether a filesystem entry is excluded from directory
// scans: anything whose name starts with "_" or ".". The rule is not
// configurable; single-file mode bypasses it for the explicitly named file,
// so `md2html _file.md` still builds `_file.html`.
func ShouldIgnore(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
