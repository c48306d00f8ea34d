package util

import (
	"strconv"
	"strings"
)

// ParseID 解析路径中的正整数 id，尾部斜杠会被忽略
func ParseID(s string) (uint, bool) {
	s = strings.TrimSuffix(s, "/")
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// SafeNext 只接受站内路径，否则返回 fallback
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	return next
}
