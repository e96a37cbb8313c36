package analysis

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/store"
)

// headingSymbolName renders a heading as "## text" so its depth survives
// the flat symbol list.
func headingSymbolName(h *mdast.Heading) string {
	return strings.Repeat("#", h.Depth) + " " + mdast.HeadingText(h)
}

// DocumentSymbols lists the document's headings as a flat symbol list.
func DocumentSymbols(s *store.Store, uri string) []protocol.DocumentSymbol {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	var symbols []protocol.DocumentSymbol
	for _, h := range mdast.Headings(tree) {
		if h.Position == nil || mdast.HeadingText(h) == "" {
			continue
		}
		rng := spanRange(h.Position)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           headingSymbolName(h),
			Kind:           protocol.SymbolKindString,
			Range:          rng,
			SelectionRange: rng,
		})
	}
	return symbols
}

// WorkspaceSymbols lists every heading in every stored document.
func WorkspaceSymbols(s *store.Store) []protocol.SymbolInformation {
	var symbols []protocol.SymbolInformation
	for _, doc := range s.Documents() {
		tree, ok := s.Tree(doc.URI)
		if !ok {
			continue
		}
		for _, h := range mdast.Headings(tree) {
			if h.Position == nil || mdast.HeadingText(h) == "" {
				continue
			}
			symbols = append(symbols, protocol.SymbolInformation{
				Name: headingSymbolName(h),
				Kind: protocol.SymbolKindString,
				Location: protocol.Location{
					URI:   doc.URI,
					Range: spanRange(h.Position),
				},
			})
		}
	}
	return symbols
}
