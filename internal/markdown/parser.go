// Package markdown parses Markdown source into the analysis tree.
//
// goldmark (GFM dialect plus footnotes) provides the primary parse. Its AST
// carries byte segments rather than line/column spans, resolves reference
// links into plain links, and keeps link reference definitions out of the
// tree entirely, so a converter rebuilds the tree in terms of mdast nodes:
// segments are mapped through a line-offset table, reference-link constructs
// and definition lines are recovered from the raw source next to the
// goldmark nodes, and footnote identifiers are joined back to their markers.
package markdown

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"mdnav/internal/mdast"
)

// definitionLine matches a link reference definition: [label]: url "title".
// Footnote definitions ([^label]: ...) are excluded by the label pattern.
var definitionLine = regexp.MustCompile(`^\s*\[([^\^\]][^\]]*)\]:\s*(\S+)(?:\s+"([^"]*)")?\s*$`)

// Parse builds the analysis tree for source. The returned tree does not yet
// contain wiki-links; run ExtendWikiLinks over it afterwards.
func Parse(source []byte) *mdast.Document {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	c := &converter{
		source:     source,
		lineStarts: computeLineStarts(source),
		footnotes:  collectFootnoteLabels(root),
	}

	doc := &mdast.Document{}
	doc.Append(c.convertBlocks(root)...)
	c.appendDefinitions(doc, ctx)
	return doc
}

type converter struct {
	source     []byte
	lineStarts []int
	// footnotes maps goldmark's footnote index to the raw source label, so
	// inline footnote markers can be located in the source text.
	footnotes map[int]string
	// cursor is the offset up to which inline constructs of the current
	// block have been consumed. Inline nodes that carry no segment of their
	// own (links, autolinks, footnote markers) are located by scanning the
	// source forward from here.
	cursor int
}

func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineIndex returns the 0-indexed line containing the byte offset.
func (c *converter) lineIndex(offset int) int {
	return sort.Search(len(c.lineStarts), func(i int) bool {
		return c.lineStarts[i] > offset
	}) - 1
}

func (c *converter) pointAt(offset int) mdast.Point {
	line := c.lineIndex(offset)
	return mdast.Point{Line: line + 1, Column: offset - c.lineStarts[line] + 1}
}

func (c *converter) spanBetween(start, stop int) *mdast.Span {
	return &mdast.Span{Start: c.pointAt(start), End: c.pointAt(stop)}
}

// blockSpan derives a span from a block node's line segments, or nil when
// the node owns no lines (container blocks).
func (c *converter) blockSpan(n gast.Node) *mdast.Span {
	if n.Type() != gast.TypeBlock {
		return nil
	}
	lines := n.Lines()
	if lines.Len() == 0 {
		return nil
	}
	return c.spanBetween(lines.At(0).Start, lines.At(lines.Len()-1).Stop)
}

func (c *converter) convertBlocks(parent gast.Node) []mdast.Node {
	var out []mdast.Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.convertBlock(child)...)
	}
	return out
}

func (c *converter) convertBlock(n gast.Node) []mdast.Node {
	switch n := n.(type) {
	case *gast.Heading:
		return []mdast.Node{c.convertHeading(n)}
	case *gast.FencedCodeBlock:
		return []mdast.Node{c.convertCode(n)}
	case *gast.CodeBlock:
		return []mdast.Node{c.convertCode(n)}
	case *gast.HTMLBlock:
		return []mdast.Node{c.convertHTMLBlock(n)}
	case *gast.ThematicBreak:
		return nil
	case *extast.FootnoteList:
		// Footnote definitions are hoisted to the document level; the list
		// wrapper itself has no analysis meaning.
		return c.convertBlocks(n)
	case *extast.Footnote:
		return []mdast.Node{c.convertFootnote(n)}
	default:
		if n.Type() != gast.TypeBlock {
			return nil
		}
		container := &mdast.Container{}
		if n.HasChildren() && n.FirstChild().Type() == gast.TypeInline {
			container.Position = c.blockSpan(n)
			container.Nodes = c.convertInlines(n)
		} else {
			container.Nodes = c.convertBlocks(n)
			container.Position = c.blockSpan(n)
			if container.Position == nil {
				container.Position = unionSpan(container.Nodes)
			}
		}
		return []mdast.Node{container}
	}
}

// convertHeading widens the span from goldmark's content segment to the
// whole heading construct, ATX markers included.
func (c *converter) convertHeading(n *gast.Heading) *mdast.Heading {
	var span *mdast.Span
	if lines := n.Lines(); lines.Len() > 0 {
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		start := c.lineStarts[c.lineIndex(first.Start)]
		for start < first.Start && (c.source[start] == ' ' || c.source[start] == '\t') {
			start++
		}
		span = c.spanBetween(start, last.Stop)
	}
	return &mdast.Heading{
		Base:  mdast.Base{Position: span, Nodes: c.convertInlines(n)},
		Depth: n.Level,
	}
}

func (c *converter) convertCode(n gast.Node) *mdast.Code {
	lines := n.Lines()
	var value bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		value.Write(seg.Value(c.source))
	}
	return &mdast.Code{
		Base:  mdast.Base{Position: c.blockSpan(n)},
		Value: value.String(),
	}
}

func (c *converter) convertHTMLBlock(n *gast.HTMLBlock) *mdast.HTML {
	lines := n.Lines()
	var value bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		value.Write(seg.Value(c.source))
	}
	span := c.blockSpan(n)
	if n.HasClosure() {
		value.Write(n.ClosureLine.Value(c.source))
		if lines.Len() > 0 {
			span = c.spanBetween(lines.At(0).Start, n.ClosureLine.Stop)
		}
	}
	return &mdast.HTML{
		Base:  mdast.Base{Position: span},
		Value: value.String(),
	}
}

func (c *converter) convertFootnote(n *extast.Footnote) *mdast.FootnoteDefinition {
	children := c.convertBlocks(n)
	span := unionSpan(children)
	if span != nil {
		// The definition starts at the "[^label]:" marker at the beginning
		// of the line, before the first content block.
		span.Start.Column = 1
	}
	return &mdast.FootnoteDefinition{
		Base:       mdast.Base{Position: span, Nodes: children},
		Identifier: strings.ToLower(string(n.Ref)),
	}
}

// convertInlines converts the inline children of a block node, positioning
// the scan cursor at the block's first source line.
func (c *converter) convertInlines(block gast.Node) []mdast.Node {
	if lines := block.Lines(); lines.Len() > 0 {
		c.cursor = lines.At(0).Start
	}
	return c.convertInlineChildren(block)
}

func (c *converter) convertInlineChildren(parent gast.Node) []mdast.Node {
	var out []mdast.Node
	child := parent.FirstChild()
	for child != nil {
		// goldmark fragments literal text at every inline trigger character
		// (notably '['), so consecutive text siblings are coalesced into a
		// single node covering the raw source slice. Wiki-link extraction
		// depends on seeing "[[target]]" in one value.
		if t, ok := child.(*gast.Text); ok {
			start := t.Segment.Start
			stop := t.Segment.Stop
			next := child.NextSibling()
			for next != nil {
				nt, ok := next.(*gast.Text)
				if !ok {
					break
				}
				stop = nt.Segment.Stop
				next = next.NextSibling()
			}
			if stop > start {
				out = append(out, &mdast.Text{
					Base:  mdast.Base{Position: c.spanBetween(start, stop)},
					Value: string(c.source[start:stop]),
				})
				c.cursor = stop
			}
			child = next
			continue
		}
		if converted := c.convertInline(child); converted != nil {
			out = append(out, converted)
		}
		child = child.NextSibling()
	}
	return out
}

func (c *converter) convertInline(n gast.Node) mdast.Node {
	switch n := n.(type) {
	case *gast.Link:
		return c.convertLink(n)
	case *gast.AutoLink:
		return c.convertAutoLink(n)
	case *gast.CodeSpan:
		return c.convertCodeSpan(n)
	case *gast.RawHTML:
		return c.convertRawHTML(n)
	case *extast.FootnoteLink:
		return c.convertFootnoteLink(n)
	case *gast.String:
		return &mdast.Text{Value: string(n.Value)}
	case *gast.Image, *gast.Emphasis, *extast.Strikethrough:
		children := c.convertInlineChildren(n)
		return &mdast.Container{Base: mdast.Base{Position: unionSpan(children), Nodes: children}}
	default:
		if n.Type() == gast.TypeInline && n.HasChildren() {
			children := c.convertInlineChildren(n)
			return &mdast.Container{Base: mdast.Base{Position: unionSpan(children), Nodes: children}}
		}
		return nil
	}
}

// convertLink rebuilds a goldmark link as either an inline Link or a
// LinkReference. goldmark resolves both forms to the same node type, so the
// surrounding source text decides: "](" continues an inline link, "][" a
// full reference, a bare "]" a shortcut reference.
func (c *converter) convertLink(n *gast.Link) mdast.Node {
	first, last, hasExtent := segmentExtent(n)
	children := c.convertInlineChildren(n)

	open := -1
	if hasExtent && first > 0 && c.source[first-1] == '[' {
		open = first - 1
	} else if idx := bytes.IndexByte(c.source[c.cursor:], '['); idx >= 0 {
		open = c.cursor + idx
		if !hasExtent {
			last = open + 1
		}
	}
	if open < 0 {
		return &mdast.Link{
			Base: mdast.Base{Nodes: children},
			URL:  string(n.Destination), Title: string(n.Title),
		}
	}

	closeBracket := last
	for closeBracket < len(c.source) && c.source[closeBracket] != ']' {
		closeBracket++
	}
	if closeBracket >= len(c.source) {
		return &mdast.Link{
			Base: mdast.Base{Nodes: children},
			URL:  string(n.Destination), Title: string(n.Title),
		}
	}
	after := closeBracket + 1

	var next byte
	if after < len(c.source) {
		next = c.source[after]
	}
	switch next {
	case '(':
		depth := 1
		end := after + 1
		for end < len(c.source) && depth > 0 {
			switch c.source[end] {
			case '(':
				depth++
			case ')':
				depth--
			}
			end++
		}
		c.cursor = end
		return &mdast.Link{
			Base: mdast.Base{Position: c.spanBetween(open, end), Nodes: children},
			URL:  string(n.Destination), Title: string(n.Title),
		}
	case '[':
		end := after + 1
		for end < len(c.source) && c.source[end] != ']' {
			end++
		}
		label := string(c.source[after+1 : end])
		if end < len(c.source) {
			end++
		}
		kind := mdast.ReferenceFull
		identifier := strings.ToLower(label)
		if label == "" {
			kind = mdast.ReferenceCollapsed
			identifier = strings.ToLower(string(c.source[open+1 : closeBracket]))
		}
		c.cursor = end
		return &mdast.LinkReference{
			Base:       mdast.Base{Position: c.spanBetween(open, end), Nodes: children},
			Identifier: identifier,
			Kind:       kind,
		}
	default:
		c.cursor = after
		return &mdast.LinkReference{
			Base:       mdast.Base{Position: c.spanBetween(open, after), Nodes: children},
			Identifier: strings.ToLower(string(c.source[open+1 : closeBracket])),
			Kind:       mdast.ReferenceShortcut,
		}
	}
}

func (c *converter) convertAutoLink(n *gast.AutoLink) mdast.Node {
	url := string(n.URL(c.source))
	link := &mdast.Link{URL: url}
	if idx := bytes.Index(c.source[c.cursor:], []byte(url)); idx >= 0 {
		start := c.cursor + idx
		link.Position = c.spanBetween(start, start+len(url))
		c.cursor = start + len(url)
	}
	return link
}

func (c *converter) convertCodeSpan(n *gast.CodeSpan) mdast.Node {
	first, last, ok := segmentExtent(n)
	code := &mdast.Code{}
	if ok {
		code.Value = string(c.source[first:last])
		code.Position = c.spanBetween(first, last)
		c.cursor = last
	}
	return code
}

func (c *converter) convertRawHTML(n *gast.RawHTML) mdast.Node {
	if n.Segments.Len() == 0 {
		return nil
	}
	first := n.Segments.At(0)
	last := n.Segments.At(n.Segments.Len() - 1)
	var value bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		value.Write(seg.Value(c.source))
	}
	c.cursor = last.Stop
	return &mdast.HTML{
		Base:  mdast.Base{Position: c.spanBetween(first.Start, last.Stop)},
		Value: value.String(),
	}
}

func (c *converter) convertFootnoteLink(n *extast.FootnoteLink) mdast.Node {
	label := c.footnotes[n.Index]
	ref := &mdast.FootnoteReference{Identifier: strings.ToLower(label)}
	marker := []byte("[^" + label + "]")
	if idx := bytes.Index(c.source[c.cursor:], marker); idx >= 0 {
		start := c.cursor + idx
		ref.Position = c.spanBetween(start, start+len(marker))
		c.cursor = start + len(marker)
	}
	return ref
}

// appendDefinitions synthesizes Definition nodes for link reference
// definition lines. goldmark records them in the parse context without
// positions, so the source lines are matched directly and cross-checked
// against the context to avoid inventing definitions the parser rejected
// (for example inside code blocks).
func (c *converter) appendDefinitions(doc *mdast.Document, ctx parser.Context) {
	known := make(map[string]bool)
	for _, ref := range ctx.References() {
		known[strings.ToLower(string(ref.Label()))] = true
	}
	if len(known) == 0 {
		return
	}
	for i, lineStart := range c.lineStarts {
		lineEnd := len(c.source)
		if i+1 < len(c.lineStarts) {
			lineEnd = c.lineStarts[i+1] - 1
		}
		line := c.source[lineStart:lineEnd]
		m := definitionLine.FindSubmatchIndex(line)
		if m == nil {
			continue
		}
		identifier := strings.ToLower(string(line[m[2]:m[3]]))
		if !known[identifier] {
			continue
		}
		start := lineStart + m[2] - 1 // the '[' before the label
		end := lineStart + m[5]
		title := ""
		if m[6] >= 0 {
			title = string(line[m[6]:m[7]])
			end = lineStart + m[7] + 1 // include the closing quote
		}
		doc.Append(&mdast.Definition{
			Base:       mdast.Base{Position: c.spanBetween(start, end)},
			Identifier: identifier,
			URL:        string(line[m[4]:m[5]]),
			Title:      title,
		})
	}
}

// segmentExtent returns the byte extent covered by the node's descendant
// segments, if it has any.
func segmentExtent(n gast.Node) (start, stop int, ok bool) {
	start, stop = -1, -1
	var visit func(gast.Node)
	visit = func(n gast.Node) {
		if t, isText := n.(*gast.Text); isText {
			if start < 0 || t.Segment.Start < start {
				start = t.Segment.Start
			}
			if t.Segment.Stop > stop {
				stop = t.Segment.Stop
			}
			return
		}
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			visit(child)
		}
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		visit(child)
	}
	return start, stop, start >= 0
}

func unionSpan(nodes []mdast.Node) *mdast.Span {
	var span *mdast.Span
	for _, n := range nodes {
		s := n.Span()
		if s == nil {
			continue
		}
		if span == nil {
			copied := *s
			span = &copied
			continue
		}
		if pointBefore(s.Start, span.Start) {
			span.Start = s.Start
		}
		if pointBefore(span.End, s.End) {
			span.End = s.End
		}
	}
	return span
}

func pointBefore(a, b mdast.Point) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// collectFootnoteLabels maps goldmark's footnote indexes to their raw
// labels so footnote markers can be matched back to source text.
func collectFootnoteLabels(root gast.Node) map[int]string {
	labels := make(map[int]string)
	_ = gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if f, ok := n.(*extast.Footnote); ok {
			labels[f.Index] = string(f.Ref)
		}
		return gast.WalkContinue, nil
	})
	return labels
}
