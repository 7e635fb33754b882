package build_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidemark/internal/build"
	"tidemark/internal/domain/config"
	"tidemark/internal/domain/content"
)

func writeTestFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func testConfig(t *testing.T, root string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Site.SiteURL = "https://example.com"
	cfg.Build.SourceDir = filepath.Join(root, "source")
	cfg.Build.PublicDir = filepath.Join(root, "public")
	cfg.Build.ThemeDir = filepath.Join(root, "themes")
	cfg.Build.Now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tplDir := filepath.Join(cfg.Build.ThemeDir, cfg.Site.Theme, "templates")
	writeTestFile(t, filepath.Join(tplDir, "stream.tmpl"),
		`<h1>{{.Stream}}</h1><ul>{{range .Items}}<li><a href="{{postURL .}}">{{.Title}}</a></li>{{end}}</ul>`)
	writeTestFile(t, filepath.Join(tplDir, "post.tmpl"),
		`<article>{{.HTML}}</article>`+
			`<nav class="toc">{{range .TOC}}<a href="#{{.ID}}">{{.Text}}</a>{{end}}</nav>`+
			`<nav>{{range .BackLinks}}<a href="{{postURL .}}">{{.Title}}</a>{{end}}</nav>`)
	writeTestFile(t, filepath.Join(tplDir, "group.tmpl"),
		`<h1>{{.Key}}</h1><ul>{{range .Items}}<li>{{.Slug}}</li>{{end}}</ul>`)
	writeTestFile(t, filepath.Join(tplDir, "overview.tmpl"),
		`<ul>{{range .Groups}}<li>{{.Key}} ({{.Count}})</li>{{end}}</ul>`)
	writeTestFile(t, filepath.Join(tplDir, "404.tmpl"), `<h1>not found</h1>`)
	return cfg
}

func TestBuilderRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(t, root)
	src := cfg.Build.SourceDir

	writeTestFile(t, filepath.Join(src, "2024-01-01-first.md"),
		"---\ntitle: First\ntags: go, web\nauthors: alice\n---\nlinks to [second](second.md)\n")
	writeTestFile(t, filepath.Join(src, "second.md"),
		"---\ntitle: Second\ndate: 2024-02-02\ntags:\n  - go\n---\nbody\n\n## Details\n")
	writeTestFile(t, filepath.Join(src, "note.md"),
		"---\ntitle: A Note\nstream: notes\n---\nnote body\n")

	b := &build.Builder{
		Cfg:       cfg,
		IndexPath: filepath.Join(root, "index.db"),
	}
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Documents)

	pub := cfg.Build.PublicDir
	mustExist := []string{
		"index.html",       // 默认 stream 首页
		"notes/index.html", // notes stream 首页
		"first/index.html",
		"second/index.html",
		"notes-a-note/index.html",
		"tag/go/index.html",
		"tag/web/index.html",
		"tag/index.html",
		"author/alice/index.html",
		"author/index.html",
		"archive/2024/index.html",
		"archive/index.html",
		"404.html",
	}
	for _, rel := range mustExist {
		_, err := os.Stat(filepath.Join(pub, rel))
		assert.NoError(t, err, "expected output file %s", rel)
	}

	// first 链接到 second，second 的页面上应该有反向链接
	secondHTML, err := os.ReadFile(filepath.Join(pub, "second", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(secondHTML), "First")
	// 正文标题进了目录
	assert.Contains(t, string(secondHTML), `href="#details"`)

	tagGo, err := os.ReadFile(filepath.Join(pub, "tag", "go", "index.html"))
	require.NoError(t, err)
	// 桶内日期降序：second (02-02) 在 first (01-01) 前面
	gotGo := string(tagGo)
	assert.Less(t, strings.Index(gotGo, "second"), strings.Index(gotGo, "first"))
}

func TestBuilderRunDuplicateSlug(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(t, root)
	src := cfg.Build.SourceDir

	writeTestFile(t, filepath.Join(src, "a.md"), "---\nslug: same\n---\na\n")
	writeTestFile(t, filepath.Join(src, "b.md"), "---\nslug: same\n---\nb\n")

	b := &build.Builder{
		Cfg:       cfg,
		IndexPath: filepath.Join(root, "index.db"),
	}
	_, err := b.Run(context.Background())
	require.Error(t, err)

	var dup *content.DuplicateSlugError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "same", dup.Slug)
}

func TestBuilderRunBadDate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(t, root)
	writeTestFile(t, filepath.Join(cfg.Build.SourceDir, "bad.md"),
		"---\ndate: yesterday\n---\nbody\n")

	b := &build.Builder{
		Cfg:       cfg,
		IndexPath: filepath.Join(root, "index.db"),
	}
	_, err := b.Run(context.Background())
	require.Error(t, err)

	var de *content.DateError
	assert.ErrorAs(t, err, &de)
}
