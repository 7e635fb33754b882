package content

import "sort"

type Kind string

const (
	KindTag     Kind = "tag"
	KindArchive Kind = "archive"
	KindAuthor  Kind = "author"
	KindStream  Kind = "stream"
)

// Group 是 Iterate 输出的一个分组：key 加上排好序的文档列表。
type Group struct {
	Key      string
	Contents []*Content
}

// GroupedContentBuilder 在扫描阶段往各分组里塞文档，单写者。
// 构建完成后调用 Build 拿到只读快照，builder 不应再使用。
type GroupedContentBuilder struct {
	kind Kind
	m    map[string][]*Content
}

func NewGroupedContentBuilder(kind Kind) *GroupedContentBuilder {
	return &GroupedContentBuilder{
		kind: kind,
		m:    make(map[string][]*Content),
	}
}

func (b *GroupedContentBuilder) Add(key string, c *Content) {
	b.m[key] = append(b.m[key], c)
}

func (b *GroupedContentBuilder) Build() *GroupedContent {
	m := make(map[string][]*Content, len(b.m))
	for k, v := range b.m {
		bucket := make([]*Content, len(v))
		copy(bucket, v)
		m[k] = bucket
	}
	return &GroupedContent{kind: b.kind, m: m}
}

// GroupedContent 是按 key 分桶的只读索引，排序在每次 Iterate 时重新计算。
type GroupedContent struct {
	kind Kind
	m    map[string][]*Content
}

func (g *GroupedContent) Kind() Kind {
	return g.kind
}

func (g *GroupedContent) Len() int {
	return len(g.m)
}

// Iterate 输出排好序的分组序列。
// 桶内一律按日期降序，无日期的文档排在最后。
// 桶之间的顺序取决于 kind：
//   - Tag：按文档数降序，数量相同按 key 升序
//   - Archive：按 key 降序（新的归档在前）
//   - Author / Stream：按 key 升序
func (g *GroupedContent) Iterate() []Group {
	out := make([]Group, 0, len(g.m))
	for key, contents := range g.m {
		bucket := make([]*Content, len(contents))
		copy(bucket, contents)
		sortByDateDesc(bucket)
		out = append(out, Group{Key: key, Contents: bucket})
	}

	switch g.kind {
	case KindTag:
		sort.SliceStable(out, func(i, j int) bool {
			if len(out[i].Contents) != len(out[j].Contents) {
				return len(out[i].Contents) > len(out[j].Contents)
			}
			return out[i].Key < out[j].Key
		})
	case KindArchive:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Key > out[j].Key
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Key < out[j].Key
		})
	}
	return out
}

// sortByDateDesc 稳定排序：日期新的在前，零值日期彼此相等且垫底。
func sortByDateDesc(contents []*Content) {
	sort.SliceStable(contents, func(i, j int) bool {
		a, b := contents[i], contents[j]
		if a.Date.IsZero() {
			return false
		}
		if b.Date.IsZero() {
			return true
		}
		return a.Date.After(b.Date)
	})
}
