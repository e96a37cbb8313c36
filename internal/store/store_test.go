package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdnav/internal/mdast"
)

func TestSetBufferParses(t *testing.T) {
	s := New()
	s.SetBuffer("file:///ws/a.md", "# Hello\n\nSee [[b]].\n")

	tree, ok := s.Tree("file:///ws/a.md")
	require.True(t, ok)
	assert.Len(t, mdast.Headings(tree), 1)
	assert.Len(t, mdast.Links(tree), 1)

	text, ok := s.Text("file:///ws/a.md")
	require.True(t, ok)
	assert.Contains(t, text, "[[b]]")
}

func TestSetBufferReplaces(t *testing.T) {
	s := New()
	s.SetBuffer("file:///ws/a.md", "# One\n")
	s.SetBuffer("file:///ws/a.md", "# Two\n\n## Three\n")

	tree, ok := s.Tree("file:///ws/a.md")
	require.True(t, ok)
	headings := mdast.Headings(tree)
	require.Len(t, headings, 2)
	assert.Equal(t, "Two", mdast.HeadingText(headings[0]))
}

func TestDocumentsSortedWithRelativePaths(t *testing.T) {
	s := New()
	s.SetRoot("/ws")
	s.SetBuffer("file:///ws/notes/b.md", "b\n")
	s.SetBuffer("file:///ws/a.md", "a\n")
	s.SetBuffer("file:///elsewhere/c.md", "c\n")

	docs := s.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "file:///elsewhere/c.md", docs[0].URI)
	assert.Empty(t, docs[0].Path)
	assert.Equal(t, "a.md", docs[1].Path)
	assert.Equal(t, "notes/b.md", docs[2].Path)
}

func TestTextRange(t *testing.T) {
	s := New()
	s.SetBuffer("file:///ws/a.md", "alpha\nbravo\ncharlie\n")

	got, ok := s.TextRange("file:///ws/a.md", Range{
		Start: Position{Line: 0, Character: 2},
		End:   Position{Line: 2, Character: 4},
	})
	require.True(t, ok)
	assert.Equal(t, "pha\nbravo\nchar", got)
}

func TestTextRangeSameLineTakesRestOfLine(t *testing.T) {
	s := New()
	s.SetBuffer("file:///ws/a.md", "alpha bravo\n")

	got, ok := s.TextRange("file:///ws/a.md", Range{
		Start: Position{Line: 0, Character: 6},
		End:   Position{Line: 0, Character: 8},
	})
	require.True(t, ok)
	assert.Equal(t, "bravo", got)
}

func TestPeekBehind(t *testing.T) {
	s := New()
	s.SetBuffer("file:///ws/a.md", "ab[\n")

	// cursor just after the '[' trigger at character 3
	ch, ok := s.PeekBehind("file:///ws/a.md", Position{Line: 0, Character: 3})
	require.True(t, ok)
	assert.Equal(t, byte('b'), ch)

	_, ok = s.PeekBehind("file:///ws/a.md", Position{Line: 0, Character: 1})
	assert.False(t, ok)
}

func TestIndexWorkspace(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("# A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.md"), []byte("# B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skip.txt"), []byte("no\n"), 0o644))

	s := New()
	require.NoError(t, s.IndexWorkspace(root))

	docs := s.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Path)
	assert.Equal(t, "sub/b.md", docs[1].Path)
}

func TestURIRoundTrip(t *testing.T) {
	uri := PathToURI("/ws/notes/a.md")
	assert.Equal(t, "file:///ws/notes/a.md", uri)

	path, err := URIToPath(uri)
	require.NoError(t, err)
	assert.Equal(t, "/ws/notes/a.md", path)

	_, err = URIToPath("https://example.com/x")
	assert.Error(t, err)
}
