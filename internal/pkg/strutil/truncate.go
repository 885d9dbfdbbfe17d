/*
 * @Description: 字符串工具
 * @Date: 2026-10-18 16:12:09
 */
package strutil

import (
	"strings"
	"unicode/utf8"
)

// Truncate 按字符数截断UTF-8字符串，超出时去掉末尾空白并追加省略号
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:maxLength]), " \t\r\n") + "..."
}

// SingleLine 把换行和连续空白折叠成单个空格，用于日志和邮件主题
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
