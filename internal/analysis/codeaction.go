package analysis

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/resolve"
	"mdnav/internal/store"
)

const (
	tocStartMarker = "<!--toc:start-->"
	tocEndMarker   = "<!--toc:end-->"
)

// CodeActions offers a table-of-contents insertion when the document has
// headings and no TOC markers yet. The TOC lists every heading as a
// slug-linked bullet, indented two spaces per depth, fenced by HTML comment
// markers so a later regeneration can find it.
func CodeActions(s *store.Store, uri string) []protocol.CodeAction {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	headings := mdast.Headings(tree)
	if len(headings) == 0 || headings[0].Position == nil {
		return nil
	}
	for n := range mdast.All(tree) {
		if html, isHTML := n.(*mdast.HTML); isHTML && strings.Contains(html.Value, tocStartMarker) {
			return nil
		}
	}

	var b strings.Builder
	b.WriteString(tocStartMarker + "\n")
	for _, h := range headings {
		text := mdast.HeadingText(h)
		if text == "" {
			continue
		}
		indent := strings.Repeat("  ", h.Depth-1)
		fmt.Fprintf(&b, "%s- [%s](#%s)\n", indent, text, encodeTarget(resolve.Slug(text)))
	}
	b.WriteString(tocEndMarker + "\n\n")

	// insert on the line below the first heading
	insertAt := protocol.Position{Line: uint32(headings[0].Position.Start.Line)}
	kind := protocol.CodeActionKindRefactor
	return []protocol.CodeAction{{
		Title: "Insert table of contents",
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				uri: {{
					Range:   protocol.Range{Start: insertAt, End: insertAt},
					NewText: b.String(),
				}},
			},
		},
	}}
}
