package content_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidemark/internal/domain/content"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("composes all fields", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{
			"title":       "Hello World",
			"description": "greeting",
			"tags":        []any{"intro", "misc"},
			"authors":     "alice",
			"stream":      "notes",
			"date":        "2024-06-01 08:30",
			"card_image":  "cards/hello.png",
			"extra":       map[string]any{"featured": true},
		}
		c, body, err := content.New(fm, "posts/hello.md", "# Hello World\nbody text")
		require.NoError(t, err)

		assert.Equal(t, "Hello World", c.Title)
		assert.Equal(t, "greeting", c.Description)
		assert.Equal(t, "notes-hello-world", c.Slug)
		assert.Equal(t, []string{"intro", "misc"}, c.Tags)
		assert.Equal(t, []string{"alice"}, c.Authors)
		assert.Equal(t, "notes", c.Stream)
		assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), c.Date)
		assert.Equal(t, "cards/hello.png", c.CardImage)
		assert.NotNil(t, c.Extra)
		assert.Equal(t, "body text", body)
		assert.Empty(t, c.HTML, "HTML is rendered by the caller")
	})

	t.Run("bad date aborts the record", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"date": "June 1st"}
		c, _, err := content.New(fm, "posts/hello.md", "body")
		require.Error(t, err)
		assert.Nil(t, c)

		var de *content.DateError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "June 1st", de.Value)
	})

	t.Run("defaults for empty front matter", func(t *testing.T) {
		t.Parallel()
		c, _, err := content.New(content.FrontMatter{}, "posts/untitled.md", "")
		require.NoError(t, err)
		assert.Equal(t, "untitled", c.Slug)
		assert.Equal(t, "index", c.Stream)
		assert.True(t, c.Date.IsZero())
		assert.Empty(t, c.Tags)
		assert.Empty(t, c.Authors)
	})
}

func TestCheckDuplicateSlugs(t *testing.T) {
	t.Parallel()

	t.Run("empty set", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, content.CheckDuplicateSlugs(nil))
	})

	t.Run("all distinct", func(t *testing.T) {
		t.Parallel()
		contents := []*content.Content{
			{Slug: "slug-1"},
			{Slug: "slug-2"},
			{Slug: "slug-3"},
		}
		assert.NoError(t, content.CheckDuplicateSlugs(contents))
	})

	t.Run("reports the first duplicate", func(t *testing.T) {
		t.Parallel()
		contents := []*content.Content{
			{Slug: "a"},
			{Slug: "duplicate-slug"},
			{Slug: "b"},
			{Slug: "duplicate-slug"},
		}
		err := content.CheckDuplicateSlugs(contents)
		require.Error(t, err)

		var de *content.DuplicateSlugError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "duplicate-slug", de.Slug)
	})
}

func TestLibraryBackLinks(t *testing.T) {
	t.Parallel()

	a := &content.Content{Slug: "a", LinksTo: []string{"b", "c", "missing"}}
	b := &content.Content{Slug: "b", LinksTo: []string{"c"}}
	c := &content.Content{Slug: "c"}

	lib := content.NewLibrary([]*content.Content{a, b, c})
	lib.PopulateBackLinks()

	assert.Empty(t, a.BackLinks)
	assert.Equal(t, []string{"a"}, b.BackLinks)
	assert.Equal(t, []string{"a", "b"}, c.BackLinks)

	resolved := lib.ResolveBackLinks(c)
	require.Len(t, resolved, 2)
	assert.Same(t, a, resolved[0])
	assert.Same(t, b, resolved[1])

	got, ok := lib.Get("b")
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = lib.Get("missing")
	assert.False(t, ok)
}
