package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tidemark/internal/domain/content"
)

func TestResolveTitle(t *testing.T) {
	t.Parallel()

	t.Run("from front matter", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"title": "Test Title"}
		title, body := content.ResolveTitle(fm, "# Markdown Title")
		assert.Equal(t, "Test Title", title)
		assert.Contains(t, body, "Markdown Title")
	})

	t.Run("from heading line", func(t *testing.T) {
		t.Parallel()
		title, body := content.ResolveTitle(content.FrontMatter{}, "# Markdown Title")
		assert.Equal(t, "Markdown Title", title)
		assert.NotContains(t, body, "Markdown Title")
	})

	t.Run("from plain first line", func(t *testing.T) {
		t.Parallel()
		title, body := content.ResolveTitle(content.FrontMatter{}, "title here")
		assert.Equal(t, "title here", title)
		assert.NotContains(t, body, "title here")
	})

	t.Run("keeps lines after the title", func(t *testing.T) {
		t.Parallel()
		title, body := content.ResolveTitle(content.FrontMatter{}, "\n# First Title\nSecond Title\n")
		assert.Equal(t, "First Title", title)
		assert.NotContains(t, body, "First Title")
		assert.Contains(t, body, "Second Title")
	})

	t.Run("empty markdown", func(t *testing.T) {
		t.Parallel()
		title, body := content.ResolveTitle(content.FrontMatter{}, "")
		assert.Equal(t, "", title)
		assert.Equal(t, "", body)
	})
}

func TestResolveDescription(t *testing.T) {
	t.Parallel()

	fm := content.FrontMatter{"description": "Test Description"}
	assert.Equal(t, "Test Description", content.ResolveDescription(fm))
	assert.Equal(t, "", content.ResolveDescription(content.FrontMatter{}))
}

func TestResolveStream(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "index", content.ResolveStream(content.FrontMatter{}))
	assert.Equal(t, "notes", content.ResolveStream(content.FrontMatter{"stream": "notes"}))
	assert.Equal(t, "notes", content.ResolveStream(content.FrontMatter{"stream": `"notes"`}))
}

func TestResolveSlug(t *testing.T) {
	t.Parallel()

	t.Run("from front matter slug", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"slug": "test-slug"}
		assert.Equal(t, "test-slug", content.ResolveSlug(fm, "2024-01-01-myfile.md"))
	})

	t.Run("from title", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"title": "Test Title"}
		assert.Equal(t, "test-title", content.ResolveSlug(fm, "2024-01-01-myfile.md"))
	})

	t.Run("title is slugified", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"title": "Test Title with Special Characters!@#"}
		assert.Equal(t, "test-title-with-special-characters", content.ResolveSlug(fm, "myfile.md"))
	})

	t.Run("from filename with date stripped", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "myfile", content.ResolveSlug(content.FrontMatter{}, "2024-01-01-myfile.md"))
	})

	t.Run("from filename without date", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "myfile", content.ResolveSlug(content.FrontMatter{}, "myfile.md"))
	})

	t.Run("stream prefix", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"title": "Hello World", "stream": "notes"}
		assert.Equal(t, "notes-hello-world", content.ResolveSlug(fm, "myfile.md"))
	})

	t.Run("default stream has no prefix", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"title": "Hello World", "stream": "index"}
		assert.Equal(t, "hello-world", content.ResolveSlug(fm, "myfile.md"))
	})
}

func TestResolveTags(t *testing.T) {
	t.Parallel()

	t.Run("array", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"tags": []any{"tag1", "tag2"}}
		assert.Equal(t, []string{"tag1", "tag2"}, content.ResolveTags(fm))
	})

	t.Run("comma separated string", func(t *testing.T) {
		t.Parallel()
		fm := content.FrontMatter{"tags": "tag1, tag2"}
		assert.Equal(t, []string{"tag1", "tag2"}, content.ResolveTags(fm))
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, content.ResolveTags(content.FrontMatter{}))
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, content.ResolveTags(content.FrontMatter{"tags": 42}))
	})
}

func TestResolveAuthors(t *testing.T) {
	t.Parallel()

	fm := content.FrontMatter{"authors": []any{"alice", "bob"}}
	assert.Equal(t, []string{"alice", "bob"}, content.ResolveAuthors(fm))

	fm = content.FrontMatter{"authors": "alice, bob"}
	assert.Equal(t, []string{"alice", "bob"}, content.ResolveAuthors(fm))

	assert.Empty(t, content.ResolveAuthors(content.FrontMatter{}))
}
