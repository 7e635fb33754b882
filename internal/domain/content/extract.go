package content

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ResolveTitle 先看 front matter 的 title；没有就取正文第一个非空行，
// 去掉行首的 '#'。返回标题和去掉标题行之后的正文。
func ResolveTitle(fm FrontMatter, markdown string) (string, string) {
	title, ok := fm["title"].(string)
	if !ok {
		for _, line := range strings.Split(markdown, "\n") {
			if line == "" {
				continue
			}
			title = strings.TrimSpace(strings.TrimLeft(line, "#"))
			break
		}
	}

	lines := strings.Split(markdown, "\n")
	i := 0
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") &&
			strings.TrimSpace(strings.TrimLeft(lines[i], "#")) == title {
			continue
		}
		if trimmed == title {
			continue
		}
		break
	}
	return title, strings.Join(lines[i:], "\n")
}

// ResolveDescription 原样透传 front matter 的 description，没有则为空。
func ResolveDescription(fm FrontMatter) string {
	if v, ok := fm["description"]; ok {
		return asString(v)
	}
	return ""
}

// ResolveStream 没写 stream 的文档归入默认的 "index"。
func ResolveStream(fm FrontMatter) string {
	if v, ok := fm["stream"]; ok {
		return strings.Trim(asString(v), `"`)
	}
	return "index"
}

// ResolveSlug 的优先级：front matter 的 slug > title > 文件名。
// 文件名里的 "YYYY-MM-DD-" 前缀会被去掉。
// stream 不是默认值时，slug 加上 "{stream}-" 前缀。
func ResolveSlug(fm FrontMatter, path string) string {
	stream := ResolveStream(fm)

	var slug string
	if v, ok := fm["slug"]; ok {
		slug = Slugify(asString(v))
	} else if v, ok := fm["title"]; ok {
		slug = Slugify(asString(v))
	} else {
		base := filepath.Base(path)
		slug = strings.TrimSuffix(base, filepath.Ext(base))
		if d := DateFromPath(path); !d.IsZero() {
			slug = strings.Replace(slug, d.Format(time.DateOnly)+"-", "", 1)
		}
	}

	if stream != "index" {
		slug = stream + "-" + slug
	}
	return slug
}

func ResolveTags(fm FrontMatter) []string {
	return stringList(fm["tags"])
}

func ResolveAuthors(fm FrontMatter) []string {
	return stringList(fm["authors"])
}

// stringList 接受数组或逗号分隔的字符串，其他类型一律当作空。
func stringList(v any) []string {
	switch vv := v.(type) {
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, strings.Trim(asString(item), `"`))
		}
		return out
	case []string:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, strings.Trim(item, `"`))
		}
		return out
	case string:
		parts := strings.Split(vv, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	default:
		return nil
	}
}

func asString(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	default:
		return fmt.Sprint(vv)
	}
}
