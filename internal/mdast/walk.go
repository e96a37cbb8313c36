package mdast

import "iter"

// All yields every node under root in pre-order: a node before its
// children, children left to right. The root itself is included.
func All(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(root, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, child := range n.Children() {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}

// FindFirst returns the first node in pre-order satisfying pred, or nil.
func FindFirst(root Node, pred func(Node) bool) Node {
	for n := range All(root) {
		if pred(n) {
			return n
		}
	}
	return nil
}

// FindAll collects every node satisfying pred, preserving pre-order.
func FindAll(root Node, pred func(Node) bool) []Node {
	var found []Node
	for n := range All(root) {
		if pred(n) {
			found = append(found, n)
		}
	}
	return found
}

// contains reports whether the span covers the given 0-indexed position.
// Coordinates are converted to 1-indexed before comparing against the span.
// When checkUpper is false the end-column bound is not applied: lookups for
// definition targets deliberately favor the start of a wide token. This
// asymmetry is pinned by tests; do not tighten it without revisiting them.
func contains(s *Span, line, character uint32, checkUpper bool) bool {
	if s == nil {
		return false
	}
	l := int(line) + 1
	c := int(character) + 1
	if l < s.Start.Line || l > s.End.Line {
		return false
	}
	if c < s.Start.Column {
		return false
	}
	if checkUpper && c > s.End.Column {
		return false
	}
	return true
}

// LinkableAt returns the node under the cursor that can be followed
// somewhere else: a heading, link, link reference or footnote reference.
// Both span bounds are checked.
func LinkableAt(root Node, line, character uint32) Node {
	return FindFirst(root, func(n Node) bool {
		switch n.(type) {
		case *Heading, *Link, *LinkReference, *FootnoteReference:
			return contains(n.Span(), line, character, true)
		}
		return false
	})
}

// DefinitionTargetAt returns the node under the cursor that other nodes may
// refer to: a heading, link definition or footnote definition. Only the
// lower column bound is checked.
func DefinitionTargetAt(root Node, line, character uint32) Node {
	return FindFirst(root, func(n Node) bool {
		switch n.(type) {
		case *Heading, *Definition, *FootnoteDefinition:
			return contains(n.Span(), line, character, false)
		}
		return false
	})
}

// RenameableAt returns the node under the cursor whose identifier can be
// renamed. Only the lower column bound is checked.
func RenameableAt(root Node, line, character uint32) Node {
	return FindFirst(root, func(n Node) bool {
		switch n.(type) {
		case *Heading, *LinkReference, *Definition, *FootnoteReference, *FootnoteDefinition:
			return contains(n.Span(), line, character, false)
		}
		return false
	})
}

// Headings collects every heading in the tree in document order.
func Headings(root Node) []*Heading {
	var headings []*Heading
	for n := range All(root) {
		if h, ok := n.(*Heading); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Links collects every link in the tree, synthesized wiki-links included.
func Links(root Node) []*Link {
	var links []*Link
	for n := range All(root) {
		if l, ok := n.(*Link); ok {
			links = append(links, l)
		}
	}
	return links
}

// Definitions collects every link reference definition.
func Definitions(root Node) []*Definition {
	var defs []*Definition
	for n := range All(root) {
		if d, ok := n.(*Definition); ok {
			defs = append(defs, d)
		}
	}
	return defs
}

// FootnoteDefinitions collects every footnote definition.
func FootnoteDefinitions(root Node) []*FootnoteDefinition {
	var defs []*FootnoteDefinition
	for n := range All(root) {
		if d, ok := n.(*FootnoteDefinition); ok {
			defs = append(defs, d)
		}
	}
	return defs
}

// DefinitionFor returns the definition with the given identifier, or nil.
func DefinitionFor(root Node, identifier string) *Definition {
	for n := range All(root) {
		if d, ok := n.(*Definition); ok && d.Identifier == identifier {
			return d
		}
	}
	return nil
}

// FootnoteDefinitionFor returns the footnote definition with the given
// identifier, or nil.
func FootnoteDefinitionFor(root Node, identifier string) *FootnoteDefinition {
	for n := range All(root) {
		if d, ok := n.(*FootnoteDefinition); ok && d.Identifier == identifier {
			return d
		}
	}
	return nil
}

// LinkReferencesFor collects the link references using the identifier.
func LinkReferencesFor(root Node, identifier string) []*LinkReference {
	var refs []*LinkReference
	for n := range All(root) {
		if r, ok := n.(*LinkReference); ok && r.Identifier == identifier {
			refs = append(refs, r)
		}
	}
	return refs
}

// FootnoteReferencesFor collects the footnote references using the
// identifier.
func FootnoteReferencesFor(root Node, identifier string) []*FootnoteReference {
	var refs []*FootnoteReference
	for n := range All(root) {
		if r, ok := n.(*FootnoteReference); ok && r.Identifier == identifier {
			refs = append(refs, r)
		}
	}
	return refs
}

// FirstText returns the first direct Text child of n, or nil.
func FirstText(n Node) *Text {
	for _, child := range n.Children() {
		if t, ok := child.(*Text); ok {
			return t
		}
	}
	return nil
}

// HeadingText returns the raw value of the heading's first text child.
// Headings without a text child yield "".
func HeadingText(h *Heading) string {
	if t := FirstText(h); t != nil {
		return t.Value
	}
	return ""
}

// NextHeading returns the first heading of the given depth whose span
// starts strictly after the given line, or nil. Used to delimit the section
// a heading introduces.
func NextHeading(root Node, afterLine, depth int) *Heading {
	for n := range All(root) {
		h, ok := n.(*Heading)
		if !ok || h.Position == nil {
			continue
		}
		if h.Depth == depth && h.Position.Start.Line > afterLine {
			return h
		}
	}
	return nil
}
