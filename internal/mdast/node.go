// Package mdast defines the Markdown syntax tree the analysis queries
// operate on, together with generic pre-order traversal and positional
// lookup utilities.
//
// Spans are 1-indexed line/column pairs; end columns point one past the
// last character of the construct. A node without a span was synthesized
// after parsing.
package mdast

// Point is a 1-indexed position in a source buffer.
type Point struct {
	Line   int
	Column int
}

// Span is the source range covered by a node.
type Span struct {
	Start Point
	End   Point
}

// Node is the closed set of tree node variants. All concrete types live in
// this package; consumers dispatch with a type switch.
type Node interface {
	Span() *Span
	Children() []Node
	// Append adds children to the node. Trees are immutable after parsing
	// except for the wiki-link pre-pass, which appends synthesized links.
	Append(children ...Node)
}

// Base carries the span and child list shared by every node variant.
type Base struct {
	Position *Span
	Nodes    []Node
}

func (b *Base) Span() *Span             { return b.Position }
func (b *Base) Children() []Node        { return b.Nodes }
func (b *Base) Append(children ...Node) { b.Nodes = append(b.Nodes, children...) }

// Document is the tree root.
type Document struct {
	Base
}

// Container is any block or inline construct that only groups children
// (paragraph, list, list item, blockquote, emphasis, table, ...).
type Container struct {
	Base
}

// Heading is an ATX or setext heading of depth 1..6.
type Heading struct {
	Base
	Depth int
}

// Text is a literal text run. Adjacent runs are coalesced by the parser so
// the value matches the raw source slice, newlines included.
type Text struct {
	Base
	Value string
}

// Link is an inline link [text](url), an autolink, or a synthesized
// wiki-link. Wiki-links carry Wiki=true so resolution and rename can apply
// their distinct target conventions.
type Link struct {
	Base
	URL   string
	Title string
	Wiki  bool
}

// ReferenceKind distinguishes the three reference-link forms.
type ReferenceKind int

const (
	// ReferenceFull is [text][identifier].
	ReferenceFull ReferenceKind = iota
	// ReferenceCollapsed is [text][].
	ReferenceCollapsed
	// ReferenceShortcut is [text].
	ReferenceShortcut
)

// LinkReference is the usage half of a two-part reference link. The
// identifier is stored lowercased, matching definition identifiers.
type LinkReference struct {
	Base
	Identifier string
	Kind       ReferenceKind
}

// Definition is a link reference definition line: [identifier]: url "title".
type Definition struct {
	Base
	Identifier string
	URL        string
	Title      string
}

// FootnoteReference is the [^identifier] marker.
type FootnoteReference struct {
	Base
	Identifier string
}

// FootnoteDefinition is the [^identifier]: ... block.
type FootnoteDefinition struct {
	Base
	Identifier string
}

// HTML is a raw HTML block or inline run.
type HTML struct {
	Base
	Value string
}

// Code is a fenced or indented code block. Its content is kept out of Text
// nodes so text scans (wiki-links) never fire inside code.
type Code struct {
	Base
	Value string
}
