package directive

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// span is a half-open byte range [start, stop) within a document body.
type span struct {
	start int
	stop  int
}

// codeSpans parses the markdown body and returns the byte ranges covered by
// code blocks, so that directive examples inside fenced or indented code are
// not treated as real dependencies.
func codeSpans(body []byte) []span {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var spans []span
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch n.Kind() {
		case gmast.KindFencedCodeBlock, gmast.KindCodeBlock:
			lines := n.Lines()
			if lines.Len() == 0 {
				return gmast.WalkContinue, nil
			}
			first := lines.At(0)
			last := lines.At(lines.Len() - 1)
			spans = append(spans, span{start: first.Start, stop: last.Stop})
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return spans
}

func inSpan(spans []span, offset int) bool {
	for _, s := range spans {
		if offset >= s.start && offset < s.stop {
			return true
		}
	}
	return false
}
