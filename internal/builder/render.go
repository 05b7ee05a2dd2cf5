package builder

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/md2html/internal/frontmatter"
	"git.home.luguber.info/inful/md2html/internal/graph"
	"git.home.luguber.info/inful/md2html/internal/util/sets"
)

// builtinPage is used when the document names no template (or it cannot be
// found in the template search paths).
const builtinPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Content}}
</body>
</html>
`

type pageData struct {
	Title       string
	Content     template.HTML
	Frontmatter map[string]any
}

func (b *Builder) renderMarkdown(t *graph.Target) error {
	content, err := os.ReadFile(t.InputPath)
	if err != nil {
		return err
	}
	_, body, _, err := frontmatter.Split(content)
	if err != nil {
		// Render the raw document instead of failing the item outright.
		body = content
	}

	body = b.spliceDirectives(t.InputPath, body, sets.New(t.InputPath))

	var buf bytes.Buffer
	if err := goldmark.New().Convert(body, &buf); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	page := builtinPage
	if t.Template != "" {
		if path := b.cfg.FindTemplate(t.Template); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading template %s: %w", path, err)
			}
			page = string(data)
		}
	}

	tmpl, err := template.New("page").Parse(page)
	if err != nil {
		return fmt.Errorf("parsing page template: %w", err)
	}

	out, err := os.Create(t.OutputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return tmpl.Execute(out, pageData{
		Title:       pageTitle(t),
		Content:     template.HTML(buf.String()),
		Frontmatter: t.Frontmatter,
	})
}

func pageTitle(t *graph.Target) string {
	if title, ok := t.Frontmatter["title"].(string); ok && title != "" {
		return title
	}
	base := filepath.Base(t.InputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var directiveLine = regexp.MustCompile(`^\s*@(include|src)\s*\(\s*([^,)]+)(?:\s*,\s*(.+))?\s*\)\s*$`)

// spliceDirectives replaces directive lines with the referenced content:
// @include splices the referenced markdown body (recursively, guarded against
// inclusion cycles), @src splices the referenced source as a fenced code
// block. Unresolvable references render as-is.
func (b *Builder) spliceDirectives(declaring string, body []byte, seen sets.Set[string]) []byte {
	lines := strings.Split(string(body), "\n")
	var out []string
	for _, line := range lines {
		m := directiveLine.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		ref := strings.Trim(strings.TrimSpace(m[2]), `"'`)
		resolved := ref
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(declaring), ref)
		}
		switch m[1] {
		case "include":
			if seen.Has(resolved) {
				out = append(out, line)
				continue
			}
			data, err := os.ReadFile(resolved)
			if err != nil {
				out = append(out, line)
				continue
			}
			seen.Add(resolved)
			_, inc, _, ferr := frontmatter.Split(data)
			if ferr != nil {
				inc = data
			}
			out = append(out, string(b.spliceDirectives(resolved, inc, seen)))
		case "src":
			data, err := os.ReadFile(resolved)
			if err != nil {
				out = append(out, line)
				continue
			}
			lang := strings.TrimPrefix(filepath.Ext(resolved), ".")
			out = append(out, "```"+lang, strings.TrimRight(string(data), "\n"), "```")
		}
	}
	return []byte(strings.Join(out, "\n"))
}
