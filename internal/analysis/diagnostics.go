package analysis

import (
	"regexp"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/resolve"
	"mdnav/internal/store"
)

const diagnosticSource = "mdnav"

// Diagnostic codes, stable across releases so clients can filter on them.
const (
	codeFileNotFound int32 = iota + 1
	codeHeadingNotFound
	codeExternalHeadingNotFound
	codeReferenceNotFound
	codeFootnoteNotFound
	codeInvalidSyntax
)

var (
	// referenceUsage matches [text][identifier] and [text][].
	referenceUsage = regexp.MustCompile(`\[([^\[\]]+)\]\[([^\[\]]*)\]`)
	// footnoteUsage matches [^identifier]; a trailing colon marks the
	// definition form, which is not a usage.
	footnoteUsage = regexp.MustCompile(`\[\^([^\]\s]+)\](:?)`)
	// inlineLinkShape matches anything shaped like [text](target).
	inlineLinkShape = regexp.MustCompile(`\[[^\[\]]*\]\([^()]*\)`)
)

// Diagnostics checks every link-like construct in the document and reports
// the ones that lead nowhere. Two passes run: a tree pass resolving parsed
// links against the store, and a raw text pass catching reference and
// footnote usages the parser dropped because their definition is missing,
// plus link-shaped text the parser rejected outright.
func Diagnostics(s *store.Store, uri string) []protocol.Diagnostic {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	text, _ := s.Text(uri)

	d := &diagnosticPass{seen: make(map[diagnosticKey]bool)}

	for _, link := range mdast.Links(tree) {
		if link.Position == nil {
			continue
		}
		rng := spanRange(link.Position)
		switch resolve.Resolve(link, s).Kind {
		case resolve.KindUnresolved:
			if strings.HasPrefix(link.URL, "#") {
				d.add(rng, codeHeadingNotFound, "no heading matches "+link.URL)
			} else {
				d.add(rng, codeFileNotFound, "file not found: "+link.URL)
			}
		case resolve.KindFile:
			// resolution fell back to the file, so a requested fragment
			// points at a heading that does not exist
			if _, fragment, ok := strings.Cut(link.URL, "#"); ok {
				d.add(rng, codeExternalHeadingNotFound, "heading not found in target file: "+fragment)
			}
		}
	}

	for i, line := range strings.Split(text, "\n") {
		for _, m := range referenceUsage.FindAllStringSubmatchIndex(line, -1) {
			identifier := strings.ToLower(line[m[4]:m[5]])
			if identifier == "" {
				identifier = strings.ToLower(line[m[2]:m[3]])
			}
			if mdast.DefinitionFor(tree, identifier) == nil {
				d.add(lineRange(i, m[0], m[1]), codeReferenceNotFound, "link reference not defined: "+identifier)
			}
		}
		for _, m := range footnoteUsage.FindAllStringSubmatchIndex(line, -1) {
			if m[4] != m[5] { // definition form
				continue
			}
			identifier := strings.ToLower(line[m[2]:m[3]])
			if mdast.FootnoteDefinitionFor(tree, identifier) == nil {
				d.add(lineRange(i, m[0], m[1]), codeFootnoteNotFound, "footnote not defined: "+identifier)
			}
		}
		for _, m := range inlineLinkShape.FindAllStringIndex(line, -1) {
			if m[0] > 0 && (line[m[0]-1] == '!' || line[m[0]-1] == '[') {
				continue // images and wiki-link tails are not plain links
			}
			if !linkParsedAt(tree, i+1, m[0]+1) {
				d.add(lineRange(i, m[0], m[1]), codeInvalidSyntax, "link syntax not recognized")
			}
		}
	}

	return d.diagnostics
}

// linkParsedAt reports whether a parsed link starts at the 1-indexed
// line/column position.
func linkParsedAt(tree mdast.Node, line, column int) bool {
	for _, link := range mdast.Links(tree) {
		p := link.Position
		if p != nil && p.Start.Line == line && p.Start.Column == column {
			return true
		}
	}
	return false
}

type diagnosticKey struct {
	rng     protocol.Range
	message string
}

// diagnosticPass accumulates diagnostics, dropping duplicates from
// overlapping passes. Order is deterministic: tree pass first, then text
// pass top to bottom.
type diagnosticPass struct {
	seen        map[diagnosticKey]bool
	diagnostics []protocol.Diagnostic
}

func (d *diagnosticPass) add(rng protocol.Range, code int32, message string) {
	key := diagnosticKey{rng: rng, message: message}
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	severity := protocol.DiagnosticSeverityWarning
	source := diagnosticSource
	d.diagnostics = append(d.diagnostics, protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   &source,
		Message:  message,
	})
}
