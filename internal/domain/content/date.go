package content

import (
	"fmt"
	"regexp"
	"time"
)

var pathDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// DateError 表示 front matter 里的日期写错了。
// 这是作者的配置错误，调用方应当中止整个构建。
type DateError struct {
	Path  string
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q in %s: %v", e.Value, e.Path, e.Err)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// ResolveDate 优先用 front matter 的 date 字段，没有则扫描文件路径。
// front matter 的日期解析失败返回 *DateError；路径里没有日期不算错误。
func ResolveDate(fm FrontMatter, path string) (time.Time, error) {
	if raw, ok := fm["date"].(string); ok {
		t, err := parseDate(raw)
		if err != nil {
			return time.Time{}, &DateError{Path: path, Value: raw, Err: err}
		}
		return t, nil
	}
	return DateFromPath(path), nil
}

// parseDate 依次尝试三种格式："2024-01-01 15:40:56"、"2024-01-01 15:40"、"2024-01-01"。
func parseDate(input string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, input); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// DateFromPath 在路径里找第一段 "YYYY-MM-DD"，按当天零点返回。
// 找不到或者不是合法日期时返回零值。
func DateFromPath(path string) time.Time {
	m := pathDateRe.FindString(path)
	if m == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.DateOnly, m)
	if err != nil {
		return time.Time{}
	}
	return t
}
