package ingest

import (
	"bytes"

	"github.com/adrg/frontmatter"

	"tidemark/internal/domain/content"
)

// ParseFrontMatter 把文档开头的元数据块解析成键值对，返回剩余正文。
// 没有元数据块时返回空 map 和原始正文，不算错误。
func ParseFrontMatter(raw []byte) (content.FrontMatter, []byte, error) {
	var fm map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return nil, raw, err
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, body, nil
}
