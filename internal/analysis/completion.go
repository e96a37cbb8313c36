package analysis

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/mdast"
	"mdnav/internal/resolve"
	"mdnav/internal/store"
)

// TriggerCharacters are the completion triggers the server registers.
// Which list is offered depends on the trigger and on the character typed
// just before it, so "[[" yields wiki targets while a lone "[" yields
// reference identifiers.
var TriggerCharacters = []string{"[", "^", "("}

// encodeTarget percent-encodes the characters that would break a standard
// link destination.
var encodeTarget = strings.NewReplacer(" ", "%20", `"`, "%22").Replace

// Completion computes completion items for a trigger character typed at
// pos. A nil trigger (manual invocation) completes nothing.
func Completion(s *store.Store, uri string, pos protocol.Position, trigger *string) []protocol.CompletionItem {
	if trigger == nil {
		return nil
	}
	tree, ok := s.Tree(uri)
	if !ok {
		return nil
	}
	behind, _ := s.PeekBehind(uri, store.Position{Line: pos.Line, Character: pos.Character})
	switch *trigger {
	case "[":
		if behind == '[' {
			return wikiTargets(s, uri)
		}
		return referenceIdentifiers(tree)
	case "^":
		if behind == '[' {
			return footnoteIdentifiers(tree)
		}
	case "(":
		if behind == ']' {
			return standardTargets(s, uri)
		}
	}
	return nil
}

// wikiTargets offers every document (extension stripped) and every heading
// in the workspace as a wiki-link target.
func wikiTargets(s *store.Store, requester string) []protocol.CompletionItem {
	fileKind := protocol.CompletionItemKindFile
	refKind := protocol.CompletionItemKindReference
	var items []protocol.CompletionItem
	for _, doc := range s.Documents() {
		if doc.Path == "" {
			continue
		}
		base := strings.TrimSuffix(doc.Path, ".md")
		if doc.URI != requester {
			items = append(items, protocol.CompletionItem{Label: base, Kind: &fileKind})
		}
		tree, ok := s.Tree(doc.URI)
		if !ok {
			continue
		}
		for _, h := range mdast.Headings(tree) {
			text := mdast.HeadingText(h)
			if text == "" {
				continue
			}
			label := base + "#" + text
			if doc.URI == requester {
				label = "#" + text
			}
			items = append(items, protocol.CompletionItem{Label: label, Kind: &refKind})
		}
	}
	return items
}

// standardTargets offers inline-link destinations: relative paths and
// slugified heading fragments, percent-encoded.
func standardTargets(s *store.Store, requester string) []protocol.CompletionItem {
	fileKind := protocol.CompletionItemKindFile
	refKind := protocol.CompletionItemKindReference
	var items []protocol.CompletionItem
	for _, doc := range s.Documents() {
		if doc.Path == "" {
			continue
		}
		base := encodeTarget(doc.Path)
		if doc.URI != requester {
			items = append(items, protocol.CompletionItem{Label: base, Kind: &fileKind})
		}
		tree, ok := s.Tree(doc.URI)
		if !ok {
			continue
		}
		for _, h := range mdast.Headings(tree) {
			text := mdast.HeadingText(h)
			if text == "" {
				continue
			}
			fragment := encodeTarget(resolve.Slug(text))
			label := base + "#" + fragment
			if doc.URI == requester {
				label = "#" + fragment
			}
			items = append(items, protocol.CompletionItem{Label: label, Kind: &refKind})
		}
	}
	return items
}

// referenceIdentifiers offers the document's link reference definitions,
// with the destination as detail.
func referenceIdentifiers(tree mdast.Node) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindText
	var items []protocol.CompletionItem
	for _, def := range mdast.Definitions(tree) {
		url := def.URL
		items = append(items, protocol.CompletionItem{
			Label:  def.Identifier,
			Kind:   &kind,
			Detail: &url,
		})
	}
	return items
}

func footnoteIdentifiers(tree mdast.Node) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindText
	var items []protocol.CompletionItem
	for _, def := range mdast.FootnoteDefinitions(tree) {
		items = append(items, protocol.CompletionItem{Label: def.Identifier, Kind: &kind})
	}
	return items
}
