// Package namecheck 判定抓取到的文本是否像一个真实的品牌/实体名。
// 刻意有损：目标是大幅降噪，不追求完美分类。
package namecheck

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minLen = 2
	maxLen = 60
	// 含联名分隔词且超过该长度时视为联名副标题而非品牌身份
	collabLenThreshold = 25
	// 韩文多词短语判定：韩文字符数超过该值且含空格则视为描述句
	hangulPhraseLimit = 12
)

// uiVocab UI词汇黑名单（导航/购物车/排序/筛选标签，多语言）。完全一致（忽略大小写）时拒绝
var uiVocab = map[string]struct{}{
	// 英文
	"home": {}, "login": {}, "log in": {}, "sign in": {}, "sign up": {}, "join": {},
	"cart": {}, "my cart": {}, "wishlist": {}, "checkout": {}, "search": {},
	"new": {}, "new arrivals": {}, "new in": {}, "best": {}, "sale": {}, "all sale": {},
	"event": {}, "notice": {}, "review": {}, "q&a": {}, "faq": {}, "about": {}, "about us": {},
	"contact": {}, "shop": {}, "shop all": {}, "all": {}, "brand": {}, "brands": {},
	"men": {}, "women": {}, "kids": {}, "unisex": {}, "accessories": {}, "archive": {},
	"sort": {}, "filter": {}, "price low to high": {}, "price high to low": {},
	"top": {}, "tops": {}, "bottom": {}, "bottoms": {}, "outer": {}, "outerwear": {},
	"shoes": {}, "bag": {}, "bags": {}, "hat": {}, "hats": {}, "instagram": {},
	// 韩文
	"로그인": {}, "회원가입": {}, "장바구니": {}, "주문조회": {}, "마이페이지": {},
	"공지사항": {}, "검색": {}, "신상품": {}, "세일": {}, "이벤트": {}, "리뷰": {},
	"상의": {}, "하의": {}, "아우터": {}, "신발": {}, "가방": {}, "모자": {},
	"악세사리": {}, "액세서리": {}, "전체상품": {}, "브랜드": {}, "개인결제창": {},
	// 日文
	"ログイン": {}, "カート": {}, "検索": {}, "新入荷": {}, "セール": {}, "お問い合わせ": {},
}

// navSuffixes 导航性后缀：以这些词结尾的文本是"查看更多"类链接，不是品牌名
var navSuffixes = []string{
	"more", "view all", "see all", "shop now", "더보기", "전체보기", "바로가기", "모아보기",
}

var (
	// 联名分隔词：整词 "by" / "x" / "×"
	collabSepRe = regexp.MustCompile(`(?i)(^|\s)(by|x|×)(\s|$)`)
	// 韩文动词/助词形态：这些结尾的文本是动作短语或修饰句，不是名字
	hangulMorphRes = []*regexp.Regexp{
		regexp.MustCompile(`[가-힣]+(하기|보기|등록|조회|문의|신청|안내)$`),
		regexp.MustCompile(`[가-힣]+(으로|에서|부터|까지)\s`),
		regexp.MustCompile(`[가-힣]+(합니다|하세요|입니다)$`),
	}
)

// Valid 判定候选字符串是否是可信的品牌/实体名。所有条件必须同时满足
func Valid(name string) bool {
	return Reason(name) == ""
}

// Reason 返回拒绝原因（空串=通过）。抓取日志里排查误杀时用
func Reason(name string) string {
	s := strings.TrimSpace(name)
	n := utf8.RuneCountInString(s)
	if n < minLen || n > maxLen {
		return "length"
	}
	if _, blocked := uiVocab[strings.ToLower(s)]; blocked {
		return "ui-vocab"
	}
	lower := strings.ToLower(s)
	// 以导航后缀结尾即拒绝，裸后缀本身也算
	for _, suffix := range navSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "nav-suffix"
		}
	}
	if n > collabLenThreshold && collabSepRe.MatchString(s) {
		return "collab-subline"
	}
	if hangulDominant(s) {
		for _, re := range hangulMorphRes {
			if re.MatchString(s) {
				return "hangul-morphology"
			}
		}
		if hangulCount(s) > hangulPhraseLimit && strings.Contains(s, " ") {
			return "hangul-phrase"
		}
	}
	return ""
}

// hangulDominant 韩文字符占比过半则按韩文形态规则处理
func hangulDominant(s string) bool {
	total, hangul := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if r >= 0xAC00 && r <= 0xD7A3 {
			hangul++
		}
	}
	return total > 0 && hangul*2 > total
}

func hangulCount(s string) int {
	c := 0
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7A3 {
			c++
		}
	}
	return c
}
