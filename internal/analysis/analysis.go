// Package analysis implements the positional queries behind the language
// server endpoints: definition, hover, references, rename, completion,
// diagnostics, symbols and code actions. Every query runs against the
// document store's parsed trees; nothing here touches the filesystem.
package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/store"
)

// spanRange converts a 1-indexed tree span to a 0-indexed protocol range.
func spanRange(s *mdast.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(s.Start.Line - 1), Character: uint32(s.Start.Column - 1)},
		End:   protocol.Position{Line: uint32(s.End.Line - 1), Character: uint32(s.End.Column - 1)},
	}
}

func storeRange(r protocol.Range) store.Range {
	return store.Range{
		Start: store.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   store.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

// lineRange returns a single-line range from startChar (inclusive) to
// endChar (exclusive), 0-indexed.
func lineRange(line int, startChar, endChar int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(line), Character: uint32(startChar)},
		End:   protocol.Position{Line: uint32(line), Character: uint32(endChar)},
	}
}

var zeroRange = protocol.Range{}
