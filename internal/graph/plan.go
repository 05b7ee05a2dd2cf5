package graph

import (
	"encoding/json"
	"sort"
)

// planNode mirrors one element of the build-plan artifact's nodes array.
type planNode struct {
	Input        string         `json:"input"`
	Output       *string        `json:"output"`
	Type         string         `json:"type"`
	Dependencies []planDep      `json:"dependencies"`
	Frontmatter  map[string]any `json:"frontmatter"`
}

type planDep struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// MarshalPlan serializes targets into the build-plan JSON artifact. Callers
// pass g.Targets() for insertion order or the sorter's output for
// topological order; the array reflects the slice order exactly.
func MarshalPlan(targets []*Target) ([]byte, error) {
	nodes := make([]planNode, 0, len(targets))
	for _, t := range targets {
		n := planNode{
			Input:        t.InputPath,
			Type:         string(t.Kind),
			Dependencies: make([]planDep, 0, len(t.Dependencies)),
			Frontmatter:  t.Frontmatter,
		}
		if t.OutputPath != "" {
			out := t.OutputPath
			n.Output = &out
		}
		if n.Frontmatter == nil {
			n.Frontmatter = map[string]any{}
		}
		for _, dep := range t.Dependencies {
			n.Dependencies = append(n.Dependencies, planDep{
				Name:    dep.Path,
				Options: formatOptions(dep.Options),
			})
		}
		nodes = append(nodes, n)
	}
	return json.MarshalIndent(struct {
		Nodes []planNode `json:"nodes"`
	}{Nodes: nodes}, "", "  ")
}

// formatOptions renders options as sorted "key=value" strings.
func formatOptions(opts map[string]OptionValue) []string {
	out := make([]string, 0, len(opts))
	for k, v := range opts {
		out = append(out, k+"="+v.AsString())
	}
	sort.Strings(out)
	return out
}
