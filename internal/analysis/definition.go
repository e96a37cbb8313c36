package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/resolve"
	"mdnav/internal/store"
)

// Definition resolves the linkable construct under the cursor to the
// location it points at: the target document (position zero), the target
// heading, or the in-document definition a reference uses. Returns nil when
// nothing under the cursor leads anywhere.
func Definition(s *store.Store, uri string, pos protocol.Position) *protocol.Location {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	switch n := mdast.LinkableAt(tree, pos.Line, pos.Character).(type) {
	case *mdast.Link:
		return linkTarget(s, n)
	case *mdast.LinkReference:
		if def := mdast.DefinitionFor(tree, n.Identifier); def != nil && def.Position != nil {
			return &protocol.Location{URI: uri, Range: spanRange(def.Position)}
		}
	case *mdast.FootnoteReference:
		if def := mdast.FootnoteDefinitionFor(tree, n.Identifier); def != nil && def.Position != nil {
			return &protocol.Location{URI: uri, Range: spanRange(def.Position)}
		}
	}
	return nil
}

func linkTarget(s *store.Store, link *mdast.Link) *protocol.Location {
	res := resolve.Resolve(link, s)
	switch res.Kind {
	case resolve.KindFile:
		return &protocol.Location{URI: res.URI, Range: zeroRange}
	case resolve.KindInternalHeading, resolve.KindExternalHeading:
		if res.Heading.Position != nil {
			return &protocol.Location{URI: res.URI, Range: spanRange(res.Heading.Position)}
		}
	}
	return nil
}
