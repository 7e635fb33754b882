package ingest

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"

	"tidemark/internal/domain/content"
	"tidemark/internal/render"
)

type Warning struct {
	Path string
	Msg  string
}

type Result struct {
	Content *content.Content
	Warns   []Warning
	Skip    bool
	Err     error
}

type Options struct {
	IncludeDraft bool
}

// Ingest 扫描源目录，逐文件解析 front matter、提取元数据并渲染正文。
// 任何一个文件的日期写错（*content.DateError）都会让整次 Ingest 失败。
// ctx 取消后不再派发新文件，已派发的处理完即返回 ctx 的错误。
// slug 查重由调用方负责，这里不过滤。
func Ingest(ctx context.Context, sourceDir string, opt Options) ([]*content.Content, []Warning, error) {
	files, err := DiscoverSource(sourceDir)
	if err != nil {
		return nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan SourceFile)
	results := make(chan Result)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			md := render.NewMarkdownRenderer()
			for sf := range jobs {
				results <- ingestOne(md, sf, opt)
			}
		}()
	}

	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()
		for _, f := range files {
			select {
			case <-ctx.Done():
				// 不再派发，让 worker 排空退出
				return
			case jobs <- f:
			}
		}
	}()

	var out []*content.Content
	var warns []Warning
	var fatal error
	for r := range results {
		if r.Err != nil {
			if fatal == nil {
				fatal = r.Err
			}
			continue
		}
		if len(r.Warns) > 0 {
			warns = append(warns, r.Warns...)
		}
		if r.Skip {
			continue
		}
		out = append(out, r.Content)
	}
	if fatal == nil {
		fatal = ctx.Err()
	}
	if fatal != nil {
		return nil, warns, fatal
	}
	return out, warns, nil
}

func ingestOne(md *render.MarkdownRenderer, sf SourceFile, opt Options) Result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Err: err}
	}

	fm, body, fmErr := ParseFrontMatter(raw)
	if fmErr != nil {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()}},
			Skip:  true,
		}
	}
	if draft, _ := fm["draft"].(bool); draft && !opt.IncludeDraft {
		return Result{Skip: true}
	}

	c, rest, err := content.New(fm, sf.Path, string(body))
	if err != nil {
		// 日期写错是作者的错误，整次构建都要停下来
		return Result{Err: err}
	}

	var warns []Warning
	if strings.TrimSpace(c.Slug) == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "empty slug"})
		return Result{Warns: warns, Skip: true}
	}
	if strings.TrimSpace(c.Title) == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}

	res, err := md.Render([]byte(rest))
	if err != nil {
		return Result{Err: err}
	}
	c.HTML = string(res.HTML)
	c.Headings = res.Headings
	c.LinksTo = res.InternalLinks

	return Result{Content: c, Warns: warns}
}
