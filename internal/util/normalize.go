package util

import (
	"strings"
	"unicode"
)

// NormalizeQuestion 归一化问题文本：小写、去标点、去空白。
// 用于比较测验问题与问答查询是否为同一问题，纯函数。
func NormalizeQuestion(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SameQuestion 归一化后精确比较
func SameQuestion(a, b string) bool {
	return NormalizeQuestion(a) == NormalizeQuestion(b)
}
