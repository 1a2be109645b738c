// Package identity 负责把不同渠道抓到的同一件商品映射到同一个标识。
// 两层输出：product key（渠道内稳定）与 normalized key（跨渠道可比，带置信度）。
package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

// 置信度分层：来源越可靠，跨渠道匹配越可信
const (
	ConfidenceSKU   = 1.0
	ConfidenceTag   = 0.8
	ConfidenceTitle = 0.7
	ConfidenceSlug  = 0.5
)

const (
	tagCodeMinLen = 3
	tagCodeMaxLen = 15
	slugMaxLen    = 48
)

var (
	// 型号代码：1-3 个大写字母 + 至少 3 位数字 + 可选尾缀（如 M2002RDD、GEL1130）
	modelCodeRe = regexp.MustCompile(`\b([A-Z]{1,3}[0-9]{3,}[A-Z0-9]{0,6})\b`)
	// 次级型号：2-4 个大写字母 + 1-2 位数字（如 DUNK1、AF1）
	shortCodeRe = regexp.MustCompile(`\b([A-Z]{2,4}[0-9]{1,2})\b`)
	// 尺码/季节前缀：命中这些前缀的候选不是型号
	excludedPrefixes = map[string]struct{}{
		"EU": {}, "UK": {}, "US": {}, "JP": {}, "CM": {},
		"FW": {}, "SS": {}, "AW": {}, "SP": {},
	}
)

// Key 标识解析结果
type Key struct {
	ProductKey    string  // 渠道内稳定键
	NormalizedKey string  // 跨渠道归一键，brand-slug:code 形式
	Confidence    float64 // [0,1]，来源分层决定
	Source        string  // sku / tag / title / slug
}

// Resolve 按优先级链派生商品标识：SKU > 标签型号 > 标题型号 > 标题 slug。
// 链条保证非空：最差情况退化到标题 slug
func Resolve(brandName, title, sku string, tags []string) Key {
	brandSlug := BrandSlug(brandName)

	if code := cleanCode(sku); code != "" {
		return Key{
			ProductKey:    code,
			NormalizedKey: joinKey(brandSlug, code),
			Confidence:    ConfidenceSKU,
			Source:        "sku",
		}
	}
	if code := codeFromTags(tags); code != "" {
		return Key{
			ProductKey:    code,
			NormalizedKey: joinKey(brandSlug, code),
			Confidence:    ConfidenceTag,
			Source:        "tag",
		}
	}
	if code := codeFromText(title); code != "" {
		return Key{
			ProductKey:    code,
			NormalizedKey: joinKey(brandSlug, code),
			Confidence:    ConfidenceTitle,
			Source:        "title",
		}
	}
	s := titleSlug(title)
	return Key{
		ProductKey:    s,
		NormalizedKey: joinKey(brandSlug, s),
		Confidence:    ConfidenceSlug,
		Source:        "slug",
	}
}

// BrandSlug 品牌名归一：小写 slug，跨渠道比较的左半边
func BrandSlug(name string) string {
	s := slug.Make(name)
	if s == "" {
		s = "unknown"
	}
	return s
}

// ResolveBrandSlug 品牌 slug 解析链：已关联品牌 > 渠道内键的冒号前缀 > vendor。
// 全部落空返回空串，表示品牌身份无法解析、不产生跨渠道键
func ResolveBrandSlug(linkedSlug, channelKey, vendor string) string {
	if linkedSlug != "" {
		return linkedSlug
	}
	if i := strings.Index(channelKey, ":"); i > 0 {
		if p := channelKey[:i]; p != "unknown" {
			return p
		}
	}
	if strings.TrimSpace(vendor) != "" {
		return BrandSlug(vendor)
	}
	return ""
}

// NormalizedWith 用显式品牌 slug 重组跨渠道键；品牌无法解析时返回空串
func (k Key) NormalizedWith(brandSlug string) string {
	if brandSlug == "" {
		return ""
	}
	return joinKey(brandSlug, k.ProductKey)
}

func joinKey(brandSlug, code string) string {
	return brandSlug + ":" + strings.ToLower(code)
}

// cleanCode 从 SKU 中提取型号代码。提取不到说明 SKU 只是描述串或渠道内部货号，
// 不能给 1.0 置信度，交给后续层级
func cleanCode(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	c = strings.ReplaceAll(c, " ", "")
	if c == "" {
		return ""
	}
	if code := codeFromText(c); code != "" {
		return code
	}
	// 分隔符夹在型号中间的写法（如 CP-9654）去掉分隔符再试一次
	return codeFromText(strings.ReplaceAll(c, "-", ""))
}

// codeFromTags 在标签集合里找型号代码：整个标签即代码，长度 3..15
func codeFromTags(tags []string) string {
	for _, t := range tags {
		c := strings.ToUpper(strings.TrimSpace(t))
		if len(c) < tagCodeMinLen || len(c) > tagCodeMaxLen {
			continue
		}
		if modelCodeRe.FindString(c) != c && shortCodeRe.FindString(c) != c {
			continue
		}
		if isExcluded(c) {
			continue
		}
		return c
	}
	return ""
}

// codeFromText 从自由文本（大写化后）提取型号，主正则优先于次级正则
func codeFromText(text string) string {
	up := strings.ToUpper(text)
	for _, m := range modelCodeRe.FindAllString(up, -1) {
		if !isExcluded(m) {
			return m
		}
	}
	for _, m := range shortCodeRe.FindAllString(up, -1) {
		if !isExcluded(m) {
			return m
		}
	}
	return ""
}

// isExcluded 尺码（EU42、US10）和季节（FW24、SS2025）代码排除
func isExcluded(code string) bool {
	if len(code) < 2 {
		return false
	}
	_, ok := excludedPrefixes[code[:2]]
	return ok
}

// titleSlug 标题 slug 兜底，截断到固定长度避免超长键
func titleSlug(title string) string {
	s := slug.Make(title)
	if s == "" {
		s = fmt.Sprintf("untitled-%d", len(title))
	}
	if len(s) > slugMaxLen {
		s = strings.TrimRight(s[:slugMaxLen], "-")
	}
	return s
}
