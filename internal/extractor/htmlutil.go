package extractor

import (
	"regexp"
	"strings"
)

// PriceTextRe HTML文本里的价格串（千分位逗号，可带원后缀）
var PriceTextRe = regexp.MustCompile(`([0-9][0-9,]*)\s*원?`)

// ParseNumber 千分位数字串转float，含非数字字符返回0
func ParseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	var v float64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		v = v*10 + float64(r-'0')
	}
	return v
}

// AbsoluteURL 相对链接补全为绝对URL，javascript伪链接返回空串
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}
