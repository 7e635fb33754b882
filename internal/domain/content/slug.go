package content

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 把任意文本转成 URL 安全的 slug：
// NFD 分解、转小写，然后把每一段非 [a-z0-9] 字符压成一个连字符。
// 注意分解出来的组合符号也在替换范围内，所以 "Téxt" 变成 "te-xt"。
func Slugify(text string) string {
	s := strings.ToLower(norm.NFD.String(text))
	s = nonSlugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
