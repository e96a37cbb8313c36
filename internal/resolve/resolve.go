// Package resolve classifies link targets against the document store.
package resolve

import (
	"net/url"
	"strings"

	"mdnav/internal/mdast"
	"mdnav/internal/store"
)

// Kind is the outcome class of a link resolution.
type Kind int

const (
	// KindUnresolved means no stored document or heading matches.
	KindUnresolved Kind = iota
	// KindFile is a link to a whole document.
	KindFile
	// KindInternalHeading is a bare-fragment link (#heading) to a heading,
	// possibly in another document.
	KindInternalHeading
	// KindExternalHeading is a file#heading link to a heading in the named
	// document.
	KindExternalHeading
	// KindHTTP is a web link; resolution does not inspect it further.
	KindHTTP
)

// Resolution is the typed result of resolving a link. URI and Heading are
// set for the file and heading kinds respectively; every link resolves to
// exactly one kind.
type Resolution struct {
	Kind    Kind
	URI     string
	Heading *mdast.Heading
}

// Resolve maps a link's target to a document or heading in the store.
//
// Targets starting with "http" are web links. A bare "#fragment" searches
// every stored document for a matching heading. A "file#fragment" target
// looks for the heading in the named file, degrading to a plain file link
// when the file exists but the heading does not. A plain "file" target
// matches a stored document by workspace-relative path. Wiki targets get a
// ".md" extension appended when missing; standard targets are used verbatim
// after percent-decoding.
func Resolve(link *mdast.Link, s *store.Store) Resolution {
	if strings.HasPrefix(link.URL, "http") {
		return Resolution{Kind: KindHTTP}
	}

	file, fragment, hasFragment := strings.Cut(link.URL, "#")
	switch {
	case !hasFragment:
		return resolveFile(s, ensureMarkdownExt(decode(link.URL)))

	case file == "":
		for _, doc := range s.Documents() {
			tree, ok := s.Tree(doc.URI)
			if !ok {
				continue
			}
			if h := HeadingForFragment(tree, fragment); h != nil {
				return Resolution{Kind: KindInternalHeading, URI: doc.URI, Heading: h}
			}
		}
		return Resolution{Kind: KindUnresolved}

	default:
		if link.Wiki {
			file = ensureMarkdownExt(file)
		} else {
			file = decode(file)
		}
		for _, doc := range s.Documents() {
			if doc.Path != file {
				continue
			}
			if tree, ok := s.Tree(doc.URI); ok {
				if h := HeadingForFragment(tree, fragment); h != nil {
					return Resolution{Kind: KindExternalHeading, URI: doc.URI, Heading: h}
				}
			}
			return Resolution{Kind: KindFile, URI: doc.URI}
		}
		return Resolution{Kind: KindUnresolved}
	}
}

func resolveFile(s *store.Store, file string) Resolution {
	for _, doc := range s.Documents() {
		if doc.Path == file {
			return Resolution{Kind: KindFile, URI: doc.URI}
		}
	}
	return Resolution{Kind: KindUnresolved}
}

// HeadingForFragment returns the first heading whose raw text or slug
// equals the (percent-decoded) fragment, or nil.
func HeadingForFragment(root mdast.Node, fragment string) *mdast.Heading {
	want := decode(fragment)
	for _, h := range mdast.Headings(root) {
		text := mdast.HeadingText(h)
		if text == "" {
			continue
		}
		if text == want || Slug(text) == want {
			return h
		}
	}
	return nil
}

// Slug lowercases heading text and replaces spaces with hyphens. It is the
// exact inverse-free transform links are expected to use; no other
// characters are touched.
func Slug(text string) string {
	return strings.ReplaceAll(strings.ToLower(text), " ", "-")
}

func decode(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

func ensureMarkdownExt(target string) string {
	if strings.HasSuffix(target, ".md") {
		return target
	}
	return target + ".md"
}
