package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdnav/internal/mdast"
)

func TestParseHeadings(t *testing.T) {
	doc := Parse([]byte("# Title\n\nbody\n\n## Section two\n"))

	headings := mdast.Headings(doc)
	require.Len(t, headings, 2)

	assert.Equal(t, 1, headings[0].Depth)
	assert.Equal(t, "Title", mdast.HeadingText(headings[0]))
	require.NotNil(t, headings[0].Position)
	assert.Equal(t, mdast.Point{Line: 1, Column: 1}, headings[0].Position.Start)
	assert.Equal(t, mdast.Point{Line: 1, Column: 8}, headings[0].Position.End)

	assert.Equal(t, 2, headings[1].Depth)
	assert.Equal(t, "Section two", mdast.HeadingText(headings[1]))
	require.NotNil(t, headings[1].Position)
	assert.Equal(t, mdast.Point{Line: 5, Column: 1}, headings[1].Position.Start)
}

func TestParseInlineLink(t *testing.T) {
	doc := Parse([]byte("see [docs](other.md#usage) now\n"))

	links := mdast.Links(doc)
	require.Len(t, links, 1)
	link := links[0]
	assert.Equal(t, "other.md#usage", link.URL)
	assert.False(t, link.Wiki)
	require.NotNil(t, link.Position)
	assert.Equal(t, mdast.Point{Line: 1, Column: 5}, link.Position.Start)
	assert.Equal(t, mdast.Point{Line: 1, Column: 27}, link.Position.End)

	text := mdast.FirstText(link)
	require.NotNil(t, text)
	assert.Equal(t, "docs", text.Value)
}

func TestParseReferenceLinkAndDefinition(t *testing.T) {
	doc := Parse([]byte("[text][id]\n\n[id]: https://example.com \"Example\"\n"))

	refs := mdast.LinkReferencesFor(doc, "id")
	require.Len(t, refs, 1)
	assert.Equal(t, mdast.ReferenceFull, refs[0].Kind)
	require.NotNil(t, refs[0].Position)
	assert.Equal(t, mdast.Point{Line: 1, Column: 1}, refs[0].Position.Start)
	assert.Equal(t, mdast.Point{Line: 1, Column: 11}, refs[0].Position.End)

	def := mdast.DefinitionFor(doc, "id")
	require.NotNil(t, def)
	assert.Equal(t, "https://example.com", def.URL)
	assert.Equal(t, "Example", def.Title)
	require.NotNil(t, def.Position)
	assert.Equal(t, mdast.Point{Line: 3, Column: 1}, def.Position.Start)
	assert.Equal(t, mdast.Point{Line: 3, Column: 36}, def.Position.End)
}

func TestParseReferenceLinkForms(t *testing.T) {
	doc := Parse([]byte("See [foo] and [bar][foo] and [foo][].\n\n[foo]: http://x.test\n"))

	refs := mdast.LinkReferencesFor(doc, "foo")
	require.Len(t, refs, 3)
	assert.Equal(t, mdast.ReferenceShortcut, refs[0].Kind)
	assert.Equal(t, mdast.ReferenceFull, refs[1].Kind)
	assert.Equal(t, mdast.ReferenceCollapsed, refs[2].Kind)
}

func TestParseFootnotes(t *testing.T) {
	doc := Parse([]byte("Intro[^note] text.\n\n[^note]: The detail.\n"))

	refs := mdast.FootnoteReferencesFor(doc, "note")
	require.Len(t, refs, 1)
	require.NotNil(t, refs[0].Position)
	assert.Equal(t, mdast.Point{Line: 1, Column: 6}, refs[0].Position.Start)
	assert.Equal(t, mdast.Point{Line: 1, Column: 13}, refs[0].Position.End)

	def := mdast.FootnoteDefinitionFor(doc, "note")
	require.NotNil(t, def)
	require.NotNil(t, def.Position)
	assert.Equal(t, mdast.Point{Line: 3, Column: 1}, def.Position.Start)
}

func TestParseAutoLink(t *testing.T) {
	doc := Parse([]byte("Visit https://example.com today.\n"))

	links := mdast.Links(doc)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", links[0].URL)
	require.NotNil(t, links[0].Position)
	assert.Equal(t, mdast.Point{Line: 1, Column: 7}, links[0].Position.Start)
	assert.Equal(t, mdast.Point{Line: 1, Column: 26}, links[0].Position.End)
}

func TestParseCodeBlocksProduceNoLinksOrDefinitions(t *testing.T) {
	doc := Parse([]byte("```\n[[not-a-link]]\n[x]: y\n```\n"))
	ExtendWikiLinks(doc)

	assert.Empty(t, mdast.Links(doc))
	assert.Nil(t, mdast.DefinitionFor(doc, "x"))
}

func TestParsePositionalLookups(t *testing.T) {
	doc := Parse([]byte("# Top\n\nsee [docs](other.md)\n"))

	// cursor inside the link text, 0-indexed coordinates
	node := mdast.LinkableAt(doc, 2, 6)
	link, ok := node.(*mdast.Link)
	require.True(t, ok)
	assert.Equal(t, "other.md", link.URL)

	// cursor on the heading
	target := mdast.DefinitionTargetAt(doc, 0, 3)
	_, ok = target.(*mdast.Heading)
	assert.True(t, ok)

	// past the link's end column the linkable lookup gives up
	assert.Nil(t, mdast.LinkableAt(doc, 2, 25))
}
