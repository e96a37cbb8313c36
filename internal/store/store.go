// Package store keeps the open and indexed Markdown documents, each with
// its raw text and parsed tree. Documents are replaced wholesale on every
// edit; trees are never mutated in place after the wiki-link pass, so
// readers can hold them without locking.
package store

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"mdnav/internal/markdown"
	"mdnav/internal/mdast"
)

// Position is a 0-indexed line/character position, as used on the wire.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open 0-indexed text range.
type Range struct {
	Start Position
	End   Position
}

// DocumentInfo identifies a stored document. Path is the slash-separated
// path relative to the workspace root, or "" when no root applies.
type DocumentInfo struct {
	URI  string
	Path string
}

type document struct {
	text string
	tree *mdast.Document
}

// Store is the in-memory document table. A single writer (the language
// server's request loop) updates it; concurrent readers are safe.
type Store struct {
	mu   sync.RWMutex
	root string
	docs map[string]*document
}

func New() *Store {
	return &Store{docs: make(map[string]*document)}
}

// SetRoot records the workspace root used to compute relative paths.
func (s *Store) SetRoot(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}

func (s *Store) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// SetBuffer replaces the document's text and reparses it. Parsing happens
// outside the lock; the swap is atomic.
func (s *Store) SetBuffer(uri string, text string) {
	tree := markdown.Parse([]byte(text))
	markdown.ExtendWikiLinks(tree)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{text: text, tree: tree}
}

// Remove drops the document. Closing a buffer does not call this: closed
// documents stay indexed so cross-file references keep resolving.
func (s *Store) Remove(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Tree returns the parsed tree for uri.
func (s *Store) Tree(uri string) (*mdast.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil, false
	}
	return doc.tree, true
}

// Text returns the full text for uri.
func (s *Store) Text(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", false
	}
	return doc.text, true
}

// TextRange extracts the text covered by r, by line. Lines too short for
// the requested columns are dropped rather than clamped.
func (s *Store) TextRange(uri string, r Range) (string, bool) {
	text, ok := s.Text(uri)
	if !ok {
		return "", false
	}
	lines := strings.Split(text, "\n")
	var kept []string
	for i, line := range lines {
		num := uint32(i)
		switch {
		case num < r.Start.Line || num > r.End.Line:
			continue
		case num == r.Start.Line:
			if int(r.Start.Character) > len(line) {
				continue
			}
			kept = append(kept, line[r.Start.Character:])
		case num == r.End.Line:
			if int(r.End.Character) > len(line) {
				continue
			}
			kept = append(kept, line[:r.End.Character])
		default:
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), true
}

// Documents lists every stored document sorted by URI.
func (s *Store) Documents() []DocumentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]DocumentInfo, 0, len(s.docs))
	for uri := range s.docs {
		infos = append(infos, DocumentInfo{URI: uri, Path: s.relPath(uri)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].URI < infos[j].URI })
	return infos
}

// relPath computes the workspace-relative slash path, or "" when the root
// is unset or the document lives outside it. Callers hold s.mu.
func (s *Store) relPath(uri string) string {
	if s.root == "" {
		return ""
	}
	path, err := URIToPath(uri)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}

// PeekBehind returns the character just before the one preceding pos on its
// line. Completion uses it to inspect what was typed before the trigger
// character.
func (s *Store) PeekBehind(uri string, pos Position) (byte, bool) {
	text, ok := s.Text(uri)
	if !ok || pos.Character < 2 {
		return 0, false
	}
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return 0, false
	}
	line := lines[pos.Line]
	idx := int(pos.Character) - 2
	if idx >= len(line) {
		return 0, false
	}
	return line[idx], true
}

// IndexWorkspace walks root and loads every Markdown file found.
func (s *Store) IndexWorkspace(root string) error {
	s.SetRoot(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		s.SetBuffer(PathToURI(path), string(content))
		return nil
	})
}

// PathToURI converts an absolute filesystem path to a file URI.
func PathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// URIToPath converts a file URI back to a filesystem path.
func URIToPath(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing uri %q: %w", uri, err)
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", parsed.Scheme)
	}
	return parsed.Path, nil
}
