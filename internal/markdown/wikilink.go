package markdown

import (
	"regexp"
	"strings"

	"mdnav/internal/mdast"
)

var wikiLinkPattern = regexp.MustCompile(`\[\[([\s\S]*?)\]\]`)

// ExtendWikiLinks scans the text nodes under n for [[target]] constructs and
// appends a Link node for each one as an extra child of the text node's
// parent. The original text nodes are left untouched; a wiki-link is visible
// twice, once as raw text and once as a link. Code nodes are never scanned,
// so fenced blocks and inline code cannot produce links.
func ExtendWikiLinks(n mdast.Node) {
	var links []mdast.Node
	for _, child := range n.Children() {
		t, ok := child.(*mdast.Text)
		if !ok || t.Position == nil {
			continue
		}
		if !strings.Contains(t.Value, "[[") {
			continue
		}
		for _, w := range extractWikiLinks(t.Value) {
			links = append(links, w.link(t.Position.Start.Line))
		}
	}
	n.Append(links...)
	for _, child := range n.Children() {
		ExtendWikiLinks(child)
	}
}

// extractedWikiLink records a [[target]] occurrence within a text value.
// startColumn is the 1-indexed column of the target text on its line;
// lineOffset is the line within the (possibly multi-line) text value.
type extractedWikiLink struct {
	content     string
	startColumn int
	lineOffset  int
}

func extractWikiLinks(value string) []extractedWikiLink {
	var out []extractedWikiLink
	for i, line := range strings.Split(value, "\n") {
		for _, m := range wikiLinkPattern.FindAllStringSubmatchIndex(line, -1) {
			out = append(out, extractedWikiLink{
				content:     line[m[2]:m[3]],
				startColumn: m[2] + 1,
				lineOffset:  i,
			})
		}
	}
	return out
}

// link synthesizes the Link node for the occurrence. The span covers the
// whole [[target]] construct; a single empty text child sits at the start of
// the target so the rename machinery sees a zero-length label.
func (w extractedWikiLink) link(textStartLine int) *mdast.Link {
	line := textStartLine + w.lineOffset
	label := &mdast.Text{
		Base: mdast.Base{Position: &mdast.Span{
			Start: mdast.Point{Line: line, Column: w.startColumn},
			End:   mdast.Point{Line: line, Column: w.startColumn},
		}},
	}
	return &mdast.Link{
		Base: mdast.Base{
			Position: &mdast.Span{
				Start: mdast.Point{Line: line, Column: w.startColumn - 2},
				End:   mdast.Point{Line: line, Column: w.startColumn + len(w.content) + 2},
			},
			Nodes: []mdast.Node{label},
		},
		URL:  w.content,
		Wiki: true,
	}
}
