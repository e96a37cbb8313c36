package analysis

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/resolve"
	"mdnav/internal/store"
)

// Hover previews what the linkable construct under the cursor points at:
// the whole target document for file links, the target's section for
// heading links, and the definition line for reference and footnote usages.
func Hover(s *store.Store, uri string, pos protocol.Position) *protocol.Hover {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}

	var content string
	var span *mdast.Span
	switch n := mdast.LinkableAt(tree, pos.Line, pos.Character).(type) {
	case *mdast.Link:
		content = hoverLink(s, n)
		span = n.Position
	case *mdast.LinkReference:
		content = hoverDefinition(s, uri, tree, n.Identifier)
		span = n.Position
	case *mdast.FootnoteReference:
		content = hoverFootnote(s, uri, tree, n.Identifier)
		span = n.Position
	default:
		return nil
	}
	if content == "" {
		return nil
	}

	hover := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}
	if span != nil {
		r := spanRange(span)
		hover.Range = &r
	}
	return hover
}

func hoverLink(s *store.Store, link *mdast.Link) string {
	res := resolve.Resolve(link, s)
	switch res.Kind {
	case resolve.KindFile:
		text, _ := s.Text(res.URI)
		return text
	case resolve.KindInternalHeading, resolve.KindExternalHeading:
		return headingSection(s, res.URI, res.Heading)
	}
	return ""
}

// headingSection slices the lines from the heading down to the next heading
// of the same depth, or to the end of the document.
func headingSection(s *store.Store, uri string, h *mdast.Heading) string {
	if h.Position == nil {
		return ""
	}
	text, ok := s.Text(uri)
	if !ok {
		return ""
	}
	tree, ok := s.Tree(uri)
	if !ok {
		return ""
	}

	lines := strings.Split(text, "\n")
	start := h.Position.Start.Line - 1
	if start < 0 || start >= len(lines) {
		return ""
	}
	end := len(lines)
	if next := mdast.NextHeading(tree, h.Position.End.Line, h.Depth); next != nil && next.Position != nil {
		end = next.Position.Start.Line - 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func hoverDefinition(s *store.Store, uri string, tree mdast.Node, identifier string) string {
	def := mdast.DefinitionFor(tree, identifier)
	if def == nil || def.Position == nil {
		return ""
	}
	content, _ := s.TextRange(uri, storeRange(spanRange(def.Position)))
	return content
}

func hoverFootnote(s *store.Store, uri string, tree mdast.Node, identifier string) string {
	def := mdast.FootnoteDefinitionFor(tree, identifier)
	if def == nil || def.Position == nil {
		return ""
	}
	content, _ := s.TextRange(uri, storeRange(spanRange(def.Position)))
	return content
}
