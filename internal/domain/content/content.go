package content

import (
	"fmt"
	"time"
)

// FrontMatter 是已经解析好的元数据键值对，序列化格式由 ingest 负责。
type FrontMatter map[string]any

// Heading 是正文里的一个标题，渲染时拼成目录。
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Content 是一篇文档的最终形态：所有字段都经过回退链解析。
// 除 BackLinks 由第二遍扫描填充外，构建完成后不再修改。
type Content struct {
	Title       string
	Description string
	Slug        string
	HTML        string
	Headings    []Heading
	Tags        []string
	Date        time.Time // 零值表示无日期
	Extra       any
	LinksTo     []string
	BackLinks   []string // 反向引用的 slug，经 Library 解析成记录
	CardImage   string
	BannerImage string
	Authors     []string
	Stream      string
}

// New 从 front matter、源文件路径和 markdown 正文解析出一条 Content。
// 返回剩余正文（去掉标题行），HTML 留给调用方渲染后回填。
// 只有 front matter 里的日期写错时才返回错误（*DateError）。
func New(fm FrontMatter, path string, markdown string) (*Content, string, error) {
	date, err := ResolveDate(fm, path)
	if err != nil {
		return nil, "", err
	}
	title, body := ResolveTitle(fm, markdown)
	c := &Content{
		Title:       title,
		Description: ResolveDescription(fm),
		Slug:        ResolveSlug(fm, path),
		Tags:        ResolveTags(fm),
		Date:        date,
		Extra:       fm["extra"],
		CardImage:   asString(fm["card_image"]),
		BannerImage: asString(fm["banner_image"]),
		Authors:     ResolveAuthors(fm),
		Stream:      ResolveStream(fm),
	}
	return c, body, nil
}

type DuplicateSlugError struct {
	Slug string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug: %s", e.Slug)
}

// CheckDuplicateSlugs 按给定顺序扫描，遇到第一个重复 slug 立刻报错。
func CheckDuplicateSlugs(contents []*Content) error {
	seen := make(map[string]struct{}, len(contents))
	for _, c := range contents {
		if _, ok := seen[c.Slug]; ok {
			return &DuplicateSlugError{Slug: c.Slug}
		}
		seen[c.Slug] = struct{}{}
	}
	return nil
}

// Library 持有全部文档，按 slug 寻址。
// BackLinks 只存 slug，渲染时再通过 Library 解析，避免记录之间互相拷贝。
type Library struct {
	order  []*Content
	bySlug map[string]*Content
}

func NewLibrary(contents []*Content) *Library {
	l := &Library{
		order:  contents,
		bySlug: make(map[string]*Content, len(contents)),
	}
	for _, c := range contents {
		l.bySlug[c.Slug] = c
	}
	return l
}

func (l *Library) Get(slug string) (*Content, bool) {
	c, ok := l.bySlug[slug]
	return c, ok
}

func (l *Library) All() []*Content {
	return l.order
}

func (l *Library) Len() int {
	return len(l.order)
}

// PopulateBackLinks 第二遍扫描：LinksTo 里能解析到的目标，记一条反向引用。
func (l *Library) PopulateBackLinks() {
	for _, c := range l.order {
		for _, target := range c.LinksTo {
			t, ok := l.bySlug[target]
			if !ok || t == c {
				continue
			}
			t.BackLinks = append(t.BackLinks, c.Slug)
		}
	}
}

// ResolveBackLinks 在渲染阶段把 slug 还原成记录。
func (l *Library) ResolveBackLinks(c *Content) []*Content {
	if len(c.BackLinks) == 0 {
		return nil
	}
	out := make([]*Content, 0, len(c.BackLinks))
	for _, slug := range c.BackLinks {
		if b, ok := l.bySlug[slug]; ok {
			out = append(out, b)
		}
	}
	return out
}
