package graph

import (
	"fmt"
	"strconv"
)

// Kind classifies what the build step for a target does.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindCopy     Kind = "copy"
	// Execute targets carry a build command (code files referenced via @src
	// when execution is enabled). Dependency is reserved for targets that
	// exist only to be watched.
	KindExecute    Kind = "execute"
	KindDependency Kind = "dependency"
)

// DepKind distinguishes watch-only references from ordering constraints.
type DepKind string

const (
	// DepInclude is watch-only: changes to the referenced file invalidate the
	// plan but impose no build order.
	DepInclude DepKind = "include"
	// DepBuild means the referenced file must be built before the declaring
	// target's own build step runs.
	DepBuild DepKind = "build"
)

// OptionValue is a directive option decoded once at the provider boundary.
// It is a small tagged union (string, bool, or int) so downstream consumers
// never re-parse option text.
type OptionValue struct {
	kind byte // 's', 'b' or 'i'
	s    string
	b    bool
	i    int
}

func StringValue(s string) OptionValue { return OptionValue{kind: 's', s: s} }
func BoolValue(b bool) OptionValue     { return OptionValue{kind: 'b', b: b} }
func IntValue(i int) OptionValue       { return OptionValue{kind: 'i', i: i} }

// AsString returns the string form used in the plan artifact ("key=value").
func (v OptionValue) AsString() string {
	switch v.kind {
	case 'b':
		return strconv.FormatBool(v.b)
	case 'i':
		return strconv.Itoa(v.i)
	default:
		return v.s
	}
}

// Bool reports the boolean payload; ok is false for non-bool values.
func (v OptionValue) Bool() (val, ok bool) { return v.b, v.kind == 'b' }

// Int reports the integer payload; ok is false for non-int values.
func (v OptionValue) Int() (int, bool) { return v.i, v.kind == 'i' }

// Dependency is one declared dependency record on a target. Path is kept
// exactly as declared in the document (usually relative); resolution against
// the declaring file's directory happens only when edges are keyed.
type Dependency struct {
	Kind    DepKind
	Path    string
	Options map[string]OptionValue
}

// Target is one buildable or copyable unit in the plan.
//
// InputPath is the canonical absolute path and the node's identity key; it is
// immutable once the target is created. OutputPath is empty only transiently
// before resolution.
type Target struct {
	Kind         Kind
	InputPath    string
	OutputPath   string
	Dependencies []Dependency
	// Frontmatter is present only for markdown targets.
	Frontmatter map[string]any
	// Template is the page template named in frontmatter, if any.
	Template string
	// BuildCommand is set for execute targets.
	BuildCommand string
}

func (t *Target) String() string {
	return fmt.Sprintf("%s (%s -> %s)", t.Kind, t.InputPath, t.OutputPath)
}
