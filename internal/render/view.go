package render

import (
	"html/template"
	"time"

	"tidemark/internal/domain/config"
	"tidemark/internal/domain/content"
)

type PostPage struct {
	Site      config.SiteConfig
	Content   *content.Content
	HTML      template.HTML
	TOC       []content.Heading
	BackLinks []*content.Content
	PageTitle string
}

// StreamPage 是某个 stream 的首页（默认 stream "index" 即站点首页）。
type StreamPage struct {
	Site      config.SiteConfig
	Stream    string
	Items     []*content.Content
	Generated time.Time
	PageTitle string
}

// GroupPage 是单个分组 key 的列表页，比如 /tag/go/ 或 /archive/2024/。
type GroupPage struct {
	Site      config.SiteConfig
	Kind      content.Kind
	Key       string
	Items     []*content.Content
	Count     int
	Generated time.Time
	PageTitle string
}

type GroupStat struct {
	Key   string
	Count int
}

// OverviewPage 是某个 kind 的总览页（标签云、作者列表、归档年表）。
type OverviewPage struct {
	Site      config.SiteConfig
	Kind      content.Kind
	Groups    []GroupStat
	Total     int
	PageTitle string
}

type NotFoundPage struct {
	Site      config.SiteConfig
	Path      string
	PageTitle string
}
