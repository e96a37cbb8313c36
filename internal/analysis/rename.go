package analysis

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/resolve"
	"mdnav/internal/store"
)

// PrepareRename returns the exact identifier range a rename would edit, or
// nil when nothing renameable sits under the cursor. The range never covers
// surrounding syntax: brackets, colons and footnote carets stay put.
func PrepareRename(s *store.Store, uri string, pos protocol.Position) *protocol.Range {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	return identifierRange(mdast.RenameableAt(tree, pos.Line, pos.Character))
}

// identifierRange computes the editable range of a renameable node from its
// span and identifier length, since identifiers are not nodes of their own.
func identifierRange(node mdast.Node) *protocol.Range {
	switch n := node.(type) {
	case *mdast.Heading:
		if t := mdast.FirstText(n); t != nil && t.Position != nil {
			r := spanRange(t.Position)
			return &r
		}
	case *mdast.LinkReference:
		if n.Position == nil {
			return nil
		}
		line := n.Position.Start.Line - 1
		if n.Kind == mdast.ReferenceFull {
			// [text][identifier]: skip past the text and its brackets
			textLen := 0
			if t := mdast.FirstText(n); t != nil {
				textLen = len(t.Value)
			}
			start := n.Position.Start.Column + textLen + 2
			r := lineRange(line, start, start+len(n.Identifier))
			return &r
		}
		// [text][] and [text]: the text is the identifier
		start := n.Position.Start.Column
		r := lineRange(line, start, start+len(n.Identifier))
		return &r
	case *mdast.Definition:
		if n.Position == nil {
			return nil
		}
		start := n.Position.Start.Column
		r := lineRange(n.Position.Start.Line-1, start, start+len(n.Identifier))
		return &r
	case *mdast.FootnoteReference:
		return footnoteIdentifierRange(n.Position, n.Identifier)
	case *mdast.FootnoteDefinition:
		return footnoteIdentifierRange(n.Position, n.Identifier)
	}
	return nil
}

// footnoteIdentifierRange skips the "[^" marker at the span start.
func footnoteIdentifierRange(span *mdast.Span, identifier string) *protocol.Range {
	if span == nil {
		return nil
	}
	start := span.Start.Column + 1
	r := lineRange(span.Start.Line-1, start, start+len(identifier))
	return &r
}

// Rename renames the construct under the cursor, editing the definition
// site and every usage together. Heading renames rewrite referring links
// across the whole workspace; identifier renames stay within the document.
func Rename(s *store.Store, uri string, pos protocol.Position, newName string) map[protocol.DocumentUri][]protocol.TextEdit {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	switch n := mdast.RenameableAt(tree, pos.Line, pos.Character).(type) {
	case *mdast.Heading:
		return renameHeading(s, uri, n, newName)
	case *mdast.LinkReference:
		return renameIdentifier(tree, uri, n.Identifier, newName)
	case *mdast.Definition:
		return renameIdentifier(tree, uri, n.Identifier, newName)
	case *mdast.FootnoteReference:
		return renameFootnote(tree, uri, n.Identifier, newName)
	case *mdast.FootnoteDefinition:
		return renameFootnote(tree, uri, n.Identifier, newName)
	}
	return nil
}

func renameHeading(s *store.Store, uri string, h *mdast.Heading, newName string) map[protocol.DocumentUri][]protocol.TextEdit {
	text := mdast.FirstText(h)
	if text == nil || text.Position == nil {
		return nil
	}
	changes := map[protocol.DocumentUri][]protocol.TextEdit{
		uri: {{Range: spanRange(text.Position), NewText: newName}},
	}
	for _, ref := range headingReferences(s, h) {
		if ref.link.Position == nil {
			continue
		}
		edit := protocol.TextEdit{
			Range:   spanRange(ref.link.Position),
			NewText: rewriteHeadingLink(ref.link, newName),
		}
		changes[ref.uri] = append(changes[ref.uri], edit)
	}
	return changes
}

// rewriteHeadingLink rebuilds a link's source text with the fragment
// replaced. Wiki links keep the raw heading text; standard links carry the
// slug.
func rewriteHeadingLink(link *mdast.Link, newName string) string {
	file, _, _ := strings.Cut(link.URL, "#")
	if link.Wiki {
		return "[[" + file + "#" + newName + "]]"
	}
	label := ""
	if t := mdast.FirstText(link); t != nil {
		label = t.Value
	}
	return "[" + label + "](" + file + "#" + resolve.Slug(newName) + ")"
}

func renameIdentifier(tree mdast.Node, uri string, identifier, newName string) map[protocol.DocumentUri][]protocol.TextEdit {
	var edits []protocol.TextEdit
	if def := mdast.DefinitionFor(tree, identifier); def != nil {
		if r := identifierRange(def); r != nil {
			edits = append(edits, protocol.TextEdit{Range: *r, NewText: newName})
		}
	}
	for _, ref := range mdast.LinkReferencesFor(tree, identifier) {
		if r := identifierRange(ref); r != nil {
			edits = append(edits, protocol.TextEdit{Range: *r, NewText: newName})
		}
	}
	if len(edits) == 0 {
		return nil
	}
	return map[protocol.DocumentUri][]protocol.TextEdit{uri: edits}
}

func renameFootnote(tree mdast.Node, uri string, identifier, newName string) map[protocol.DocumentUri][]protocol.TextEdit {
	var edits []protocol.TextEdit
	if def := mdast.FootnoteDefinitionFor(tree, identifier); def != nil {
		if r := identifierRange(def); r != nil {
			edits = append(edits, protocol.TextEdit{Range: *r, NewText: newName})
		}
	}
	for _, ref := range mdast.FootnoteReferencesFor(tree, identifier) {
		if r := identifierRange(ref); r != nil {
			edits = append(edits, protocol.TextEdit{Range: *r, NewText: newName})
		}
	}
	if len(edits) == 0 {
		return nil
	}
	return map[protocol.DocumentUri][]protocol.TextEdit{uri: edits}
}
