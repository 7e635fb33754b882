package build

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tidemark/internal/domain/config"
	"tidemark/internal/domain/content"
	"tidemark/internal/index"
	"tidemark/internal/ingest"
	"tidemark/internal/render"
)

type Builder struct {
	Cfg       config.Config
	IndexPath string
}

type Result struct {
	Documents int
	Warnings  []ingest.Warning
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	contents, warns, err := ingest.Ingest(ctx, b.Cfg.Build.SourceDir, ingest.Options{
		IncludeDraft: b.Cfg.Build.IncludeDraft,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	// slug 必须全站唯一，冲突时让作者改名，不做自动去重
	if err := content.CheckDuplicateSlugs(contents); err != nil {
		return nil, err
	}

	lib := content.NewLibrary(contents)
	lib.PopulateBackLinks()

	groups := buildGroupings(lib)

	st, err := index.Open(index.OpenOptions{Path: b.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(contents); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	themeDir := b.Cfg.Build.ThemeDir
	themeName := b.Cfg.Site.Theme
	tpl, err := render.NewTemplateRenderer(themeDir, themeName)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", themeDir, err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	if err := b.buildAll(ctx, lib, groups, tpl, outDir); err != nil {
		return nil, err
	}

	return &Result{
		Documents: lib.Len(),
		Warnings:  warns,
	}, nil
}

type groupings struct {
	tags    *content.GroupedContent
	archive *content.GroupedContent
	authors *content.GroupedContent
	streams *content.GroupedContent
}

// buildGroupings 一次扫描填满四种分组。
func buildGroupings(lib *content.Library) groupings {
	tags := content.NewGroupedContentBuilder(content.KindTag)
	archive := content.NewGroupedContentBuilder(content.KindArchive)
	authors := content.NewGroupedContentBuilder(content.KindAuthor)
	streams := content.NewGroupedContentBuilder(content.KindStream)

	for _, c := range lib.All() {
		for _, tag := range c.Tags {
			if tag != "" {
				tags.Add(tag, c)
			}
		}
		for _, author := range c.Authors {
			if author != "" {
				authors.Add(author, c)
			}
		}
		if !c.Date.IsZero() {
			archive.Add(c.Date.Format("2006"), c)
		}
		if c.Stream != "" {
			streams.Add(c.Stream, c)
		}
	}
	return groupings{
		tags:    tags.Build(),
		archive: archive.Build(),
		authors: authors.Build(),
		streams: streams.Build(),
	}
}

func (b *Builder) buildAll(
	ctx context.Context,
	lib *content.Library,
	groups groupings,
	tpl render.Renderer,
	outDir string,
) error {
	if err := b.buildStreams(ctx, groups.streams, tpl, outDir); err != nil {
		return fmt.Errorf("build streams: %w", err)
	}

	if err := b.buildPosts(ctx, lib, tpl, outDir); err != nil {
		return fmt.Errorf("build posts: %w", err)
	}

	if err := b.buildGroupPages(ctx, groups.tags, "tag", tpl, outDir); err != nil {
		return fmt.Errorf("build tags: %w", err)
	}
	if err := b.buildGroupPages(ctx, groups.archive, "archive", tpl, outDir); err != nil {
		return fmt.Errorf("build archive: %w", err)
	}
	if err := b.buildGroupPages(ctx, groups.authors, "author", tpl, outDir); err != nil {
		return fmt.Errorf("build authors: %w", err)
	}

	if err := b.buildNotFound(ctx, tpl, outDir); err != nil {
		return fmt.Errorf("build 404: %w", err)
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return fmt.Errorf("copy static assets: %w", err)
	}
	return nil
}

// buildStreams 每个 stream 一张首页；默认 stream "index" 就是站点首页。
func (b *Builder) buildStreams(
	ctx context.Context,
	streams *content.GroupedContent,
	tpl render.Renderer,
	outDir string,
) error {
	for _, g := range streams.Iterate() {
		page := render.StreamPage{
			Site:      b.Cfg.Site,
			Stream:    g.Key,
			Items:     g.Contents,
			Generated: b.Cfg.Build.Now,
			PageTitle: b.Cfg.Site.Title,
		}
		htmlBytes, err := tpl.RenderStream(ctx, page)
		if err != nil {
			return fmt.Errorf("render stream(%s): %w", g.Key, err)
		}

		outPath := "index.html"
		if g.Key != "index" {
			outPath = filepath.Join(safePathSegment(g.Key), "index.html")
		}
		if err := writeFile(outDir, outPath, htmlBytes); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildPosts(
	ctx context.Context,
	lib *content.Library,
	tpl render.Renderer,
	outDir string,
) error {
	for _, c := range lib.All() {
		pp := render.PostPage{
			Site:      b.Cfg.Site,
			Content:   c,
			HTML:      template.HTML(c.HTML),
			TOC:       c.Headings,
			BackLinks: lib.ResolveBackLinks(c),
			PageTitle: c.Title,
		}
		htmlBytes, err := tpl.RenderPost(ctx, pp)
		if err != nil {
			return fmt.Errorf("render post(%s): %w", c.Slug, err)
		}

		outPath := filepath.Join(safePathSegment(c.Slug), "index.html")
		if err := writeFile(outDir, outPath, htmlBytes); err != nil {
			return err
		}
	}
	return nil
}

// buildGroupPages 输出 /<prefix>/<key>/index.html 和 /<prefix>/index.html 总览。
func (b *Builder) buildGroupPages(
	ctx context.Context,
	grouped *content.GroupedContent,
	prefix string,
	tpl render.Renderer,
	outDir string,
) error {
	groups := grouped.Iterate()

	stats := make([]render.GroupStat, 0, len(groups))
	for _, g := range groups {
		stats = append(stats, render.GroupStat{
			Key:   g.Key,
			Count: len(g.Contents),
		})

		gp := render.GroupPage{
			Site:      b.Cfg.Site,
			Kind:      grouped.Kind(),
			Key:       g.Key,
			Items:     g.Contents,
			Count:     len(g.Contents),
			Generated: b.Cfg.Build.Now,
			PageTitle: fmt.Sprintf("%s: %s", titleCase(prefix), g.Key),
		}
		htmlBytes, err := tpl.RenderGroup(ctx, gp)
		if err != nil {
			return fmt.Errorf("render %s(%s): %w", prefix, g.Key, err)
		}
		outPath := filepath.Join(prefix, safePathSegment(g.Key), "index.html")
		if err := writeFile(outDir, outPath, htmlBytes); err != nil {
			return err
		}
	}

	op := render.OverviewPage{
		Site:      b.Cfg.Site,
		Kind:      grouped.Kind(),
		Groups:    stats,
		Total:     len(stats),
		PageTitle: titleCase(prefix) + "s",
	}
	htmlBytes, err := tpl.RenderOverview(ctx, op)
	if err != nil {
		return fmt.Errorf("render %s overview: %w", prefix, err)
	}
	return writeFile(outDir, filepath.Join(prefix, "index.html"), htmlBytes)
}

func (b *Builder) buildNotFound(
	ctx context.Context,
	tpl render.Renderer,
	outDir string,
) error {
	page := render.NotFoundPage{
		Site:      b.Cfg.Site,
		Path:      "",
		PageTitle: "404",
	}
	htmlBytes, err := tpl.RenderNotFound(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, "404.html", htmlBytes)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func safePathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	repl := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}
	return strings.Map(repl, s)
}

func (b *Builder) copyStaticAssets(outDir string) error {
	src := filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme, "static")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, rel)

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, in, 0o644)
	})
}
