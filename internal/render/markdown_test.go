package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRender(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte("## Section One\n\nsome *text*\n\n### Nested\n")

	res, err := md.Render(src)
	require.NoError(t, err)

	assert.Contains(t, string(res.HTML), "<h2")
	assert.Contains(t, string(res.HTML), "<em>text</em>")

	require.Len(t, res.Headings, 2)
	assert.Equal(t, 2, res.Headings[0].Level)
	assert.Equal(t, "Section One", res.Headings[0].Text)
	assert.NotEmpty(t, res.Headings[0].ID)
	assert.Equal(t, 3, res.Headings[1].Level)
}

func TestMarkdownInternalLinks(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte(`see [a](other-post.md), [b](./nested/note.markdown), [c](/by-slug/),
[ext](https://example.com/page.md), [anchor](#section), [mail](mailto:x@example.com)
`)

	res, err := md.Render(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"other-post", "nested/note", "by-slug"}, res.InternalLinks)
}

func TestInternalLinkRef(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"other.md", "other"},
		{"./other.md", "other"},
		{"other.md#frag", "other"},
		{"other.md?x=1", "other"},
		{"/slug/", "slug"},
		{"https://example.com/a.md", ""},
		{"#anchor", ""},
		{"mailto:a@b.c", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, internalLinkRef(tc.in), "input %q", tc.in)
	}
}
