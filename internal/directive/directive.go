// Package directive parses md2html's custom markdown syntax: YAML
// frontmatter and @include/@src dependency declarations. It is the
// declared-dependency feed consumed by the resolver; it never touches the
// build graph itself.
package directive

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/md2html/internal/frontmatter"
	"git.home.luguber.info/inful/md2html/internal/graph"
)

// RecordKind is the declared directive kind.
type RecordKind string

const (
	// KindInclude marks a watch-only reference (@include).
	KindInclude RecordKind = "include"
	// KindSrc marks a must-be-built-before reference (@src).
	KindSrc RecordKind = "src"
)

// Record is one parsed directive. Path is kept exactly as declared.
type Record struct {
	Kind    RecordKind
	Path    string
	Options map[string]graph.OptionValue
	Line    int
}

// Metadata is everything the parser extracts from one document.
type Metadata struct {
	Frontmatter  map[string]any
	Template     string
	Dependencies []Record
}

// Expected directive shapes:
//
//	@include(other.md)
//	@include(other.md, section=intro)
//	@src(hello.cpp, execute=true, lines=10)
var directivePattern = regexp.MustCompile(`@(include|src)\s*\(\s*([^,)]+)(?:\s*,\s*(.+))?\s*\)`)

// Scanner parses markdown files for frontmatter and dependency directives.
type Scanner struct{}

// Parse reads and parses one markdown document.
func (Scanner) Parse(path string) (Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("reading %s: %w", path, err)
	}

	fmRaw, body, _, err := frontmatter.Split(content)
	if err != nil {
		return Metadata{}, fmt.Errorf("frontmatter in %s: %w", path, err)
	}
	fields, err := frontmatter.Parse(fmRaw)
	if err != nil {
		return Metadata{}, fmt.Errorf("frontmatter in %s: %w", path, err)
	}

	meta := Metadata{Frontmatter: fields}
	if tpl, ok := fields["template"].(string); ok {
		meta.Template = tpl
	}

	// Frontmatter lines participate in directive scanning (a template may
	// declare dependencies there); fenced code blocks in the body do not.
	// Line numbers are reported relative to the whole file: frontmatter
	// starts on line 2 (after the opening delimiter), and the body after
	// however many lines the frontmatter block consumed.
	bodyFirstLine := 1 + bytes.Count(content[:len(content)-len(body)], []byte("\n"))
	meta.Dependencies = append(meta.Dependencies, scanLines(fmRaw, nil, 2)...)
	meta.Dependencies = append(meta.Dependencies, scanLines(body, codeSpans(body), bodyFirstLine)...)
	return meta, nil
}

// scanLines extracts directives from content, skipping any line whose byte
// range falls inside one of the excluded spans. firstLine is the file line
// number of content's first line.
func scanLines(content []byte, excluded []span, firstLine int) []Record {
	var records []Record
	offset := 0
	for lineNo, line := range strings.Split(string(content), "\n") {
		lineStart := offset
		offset += len(line) + 1
		if inSpan(excluded, lineStart) {
			continue
		}
		m := directivePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		records = append(records, Record{
			Kind:    RecordKind(m[1]),
			Path:    strings.Trim(strings.TrimSpace(m[2]), `"'`),
			Options: parseOptions(m[3]),
			Line:    firstLine + lineNo,
		})
	}
	return records
}

// parseOptions decodes comma-separated key=value pairs into typed values.
// Decoding happens exactly once here; downstream consumers never re-parse.
func parseOptions(raw string) map[string]graph.OptionValue {
	opts := map[string]graph.OptionValue{}
	if raw == "" {
		return opts
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		switch {
		case strings.EqualFold(value, "true"):
			opts[key] = graph.BoolValue(true)
		case strings.EqualFold(value, "false"):
			opts[key] = graph.BoolValue(false)
		default:
			if n, err := strconv.Atoi(value); err == nil {
				opts[key] = graph.IntValue(n)
			} else {
				opts[key] = graph.StringValue(value)
			}
		}
	}
	return opts
}
