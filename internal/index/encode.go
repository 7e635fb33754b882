package index

import (
	"bytes"
	"encoding/binary"
	"time"
)

// key = invTime(8) + 0x00 + slug
// 时间取反后新文档的 key 更小，游标正向遍历就是日期降序。
// 无日期的文档用 nano=0，取反后是最大 key，排在所有有日期的后面。
func makeTimeSlugKey(date time.Time, slug string) []byte {
	var nano int64
	if !date.IsZero() {
		nano = date.UnixNano()
	}
	invTime := ^uint64(nano)

	buf := make([]byte, 0, 8+1+len(slug))
	tmp8 := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp8, invTime)
	buf = append(buf, tmp8...)
	buf = append(buf, 0x00)
	buf = append(buf, []byte(slug)...)
	return buf
}

func slugFromTimeSlugKey(k []byte) string {
	if len(k) < 8+2 {
		return ""
	}
	i := bytes.IndexByte(k[8:], 0x00)
	if i < 0 {
		return ""
	}
	pos := 8 + i
	if pos+1 >= len(k) {
		return ""
	}
	return string(k[pos+1:])
}
