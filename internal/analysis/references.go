package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/resolve"
	"mdnav/internal/store"
)

// References lists every usage of the definition target under the cursor.
// Heading references are gathered workspace-wide by resolving every stored
// link and keeping the ones that land on this exact heading; definition and
// footnote references are per-document by identifier.
func References(s *store.Store, uri string, pos protocol.Position) []protocol.Location {
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	switch n := mdast.DefinitionTargetAt(tree, pos.Line, pos.Character).(type) {
	case *mdast.Heading:
		var locations []protocol.Location
		for _, ref := range headingReferences(s, n) {
			if ref.link.Position != nil {
				locations = append(locations, protocol.Location{
					URI:   ref.uri,
					Range: spanRange(ref.link.Position),
				})
			}
		}
		return locations
	case *mdast.Definition:
		return referenceLocations(uri, mdast.LinkReferencesFor(tree, n.Identifier))
	case *mdast.FootnoteDefinition:
		var locations []protocol.Location
		for _, ref := range mdast.FootnoteReferencesFor(tree, n.Identifier) {
			if ref.Position != nil {
				locations = append(locations, protocol.Location{URI: uri, Range: spanRange(ref.Position)})
			}
		}
		return locations
	}
	return nil
}

func referenceLocations(uri string, refs []*mdast.LinkReference) []protocol.Location {
	var locations []protocol.Location
	for _, ref := range refs {
		if ref.Position != nil {
			locations = append(locations, protocol.Location{URI: uri, Range: spanRange(ref.Position)})
		}
	}
	return locations
}

type headingReference struct {
	uri  string
	link *mdast.Link
}

// headingReferences finds every link in the workspace resolving to target.
// Matching is by heading identity, not text: two same-named headings in
// different files never alias each other.
func headingReferences(s *store.Store, target *mdast.Heading) []headingReference {
	var refs []headingReference
	for _, doc := range s.Documents() {
		tree, ok := s.Tree(doc.URI)
		if !ok {
			continue
		}
		for _, link := range mdast.Links(tree) {
			res := resolve.Resolve(link, s)
			if res.Kind != resolve.KindInternalHeading && res.Kind != resolve.KindExternalHeading {
				continue
			}
			if res.Heading == target {
				refs = append(refs, headingReference{uri: doc.URI, link: link})
			}
		}
	}
	return refs
}
