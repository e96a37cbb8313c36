package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdnav/internal/mdast"
)

func TestExtendWikiLinks(t *testing.T) {
	doc := Parse([]byte("See [[target]] here\n"))
	ExtendWikiLinks(doc)

	links := mdast.Links(doc)
	require.Len(t, links, 1)
	link := links[0]
	assert.True(t, link.Wiki)
	assert.Equal(t, "target", link.URL)
	require.NotNil(t, link.Position)
	assert.Equal(t, mdast.Point{Line: 1, Column: 5}, link.Position.Start)
	assert.Equal(t, mdast.Point{Line: 1, Column: 15}, link.Position.End)

	// the synthesized label is an empty text node at the target start
	label := mdast.FirstText(link)
	require.NotNil(t, label)
	assert.Empty(t, label.Value)
	require.NotNil(t, label.Position)
	assert.Equal(t, mdast.Point{Line: 1, Column: 7}, label.Position.Start)
}

func TestExtendWikiLinksMultiplePerLine(t *testing.T) {
	doc := Parse([]byte("[[a]] and [[b#Section one]]\n"))
	ExtendWikiLinks(doc)

	links := mdast.Links(doc)
	require.Len(t, links, 2)
	assert.Equal(t, "a", links[0].URL)
	assert.Equal(t, "b#Section one", links[1].URL)
}

func TestExtendWikiLinksKeepsRawText(t *testing.T) {
	doc := Parse([]byte("See [[target]] here\n"))
	ExtendWikiLinks(doc)

	var texts []string
	for n := range mdast.All(doc) {
		if t, ok := n.(*mdast.Text); ok && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	assert.Contains(t, texts, "See [[target]] here")
}

func TestExtendWikiLinksFindableAtPosition(t *testing.T) {
	doc := Parse([]byte("See [[target]] here\n"))
	ExtendWikiLinks(doc)

	node := mdast.LinkableAt(doc, 0, 8)
	link, ok := node.(*mdast.Link)
	require.True(t, ok)
	assert.True(t, link.Wiki)
}

func TestExtractWikiLinksMultilineValue(t *testing.T) {
	found := extractWikiLinks("first [[a]]\nsecond [[b]] tail")
	require.Len(t, found, 2)
	assert.Equal(t, "a", found[0].content)
	assert.Equal(t, 0, found[0].lineOffset)
	assert.Equal(t, 9, found[0].startColumn)
	assert.Equal(t, "b", found[1].content)
	assert.Equal(t, 1, found[1].lineOffset)
	assert.Equal(t, 10, found[1].startColumn)
}
