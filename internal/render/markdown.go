package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"tidemark/internal/domain/content"
)

type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &MarkdownRenderer{md: md}
}

type MarkdownResult struct {
	HTML     []byte
	Headings []content.Heading
	// 指向站内其他文档的链接（已归一成 slug 形式）
	InternalLinks []string
}

func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext()
	reader := text.NewReader(src)
	doc := r.md.Parser().Parse(reader, parser.WithContext(ctx))

	var heads []content.Heading
	var links []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			var idStr string
			if id, ok := node.AttributeString("id"); ok {
				switch v := id.(type) {
				case string:
					idStr = v
				case []byte:
					idStr = string(v)
				}
			}
			var textBuf bytes.Buffer
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if seg, ok := c.(*ast.Text); ok {
					textBuf.Write(seg.Segment.Value(src))
				}
			}
			heads = append(heads, content.Heading{
				Level: node.Level,
				ID:    idStr,
				Text:  textBuf.String(),
			})
		case *ast.Link:
			if ref := internalLinkRef(string(node.Destination)); ref != "" {
				links = append(links, ref)
			}
		}
		return ast.WalkContinue, nil
	})

	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{
		HTML:          buf.Bytes(),
		Headings:      heads,
		InternalLinks: links,
	}, nil
}

// internalLinkRef 把站内相对链接归一成 slug 标识，站外链接返回空。
func internalLinkRef(dest string) string {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return ""
	}
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return ""
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	dest = strings.TrimPrefix(dest, "./")
	dest = strings.Trim(dest, "/")
	lower := strings.ToLower(dest)
	if strings.HasSuffix(lower, ".md") {
		dest = dest[:len(dest)-len(".md")]
	} else if strings.HasSuffix(lower, ".markdown") {
		dest = dest[:len(dest)-len(".markdown")]
	}
	return dest
}
