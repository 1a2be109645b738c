package extractor

import "strings"

// genderKeywords 性别分类关键词（韩/英混排，标题与商品类型共用）
var genderKeywords = map[string][]string{
	"women": {"women", "woman", "womens", "female", "ladies", "우먼", "여성", "여자"},
	"men":   {"men", "man", "mens", "male", "맨즈", "남성", "남자"},
	"kids":  {"kids", "kid", "junior", "baby", "키즈", "아동", "유아"},
}

// subcategoryKeywords 품목分类关键词，先命中的优先
var subcategoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"shoes", []string{"shoes", "sneaker", "sneakers", "boot", "boots", "loafer", "sandal", "슈즈", "신발", "스니커즈", "부츠", "로퍼", "샌들", "운동화"}},
	{"outer", []string{"jacket", "coat", "parka", "padding", "puffer", "blazer", "cardigan", "자켓", "재킷", "코트", "파카", "패딩", "점퍼", "블레이저", "가디건", "아우터"}},
	{"top", []string{"t-shirt", "tshirt", "tee", "shirt", "knit", "sweater", "hoodie", "sweatshirt", "티셔츠", "셔츠", "니트", "스웨터", "후드", "맨투맨", "상의"}},
	{"bottom", []string{"pants", "trousers", "jeans", "denim", "shorts", "skirt", "슬랙스", "팬츠", "바지", "청바지", "데님", "쇼츠", "스커트", "치마", "하의"}},
	{"bag", []string{"bag", "backpack", "tote", "crossbody", "가방", "백팩", "토트", "크로스"}},
	{"hat", []string{"cap", "hat", "beanie", "bucket", "캡", "모자", "비니", "버킷"}},
	{"accessory", []string{"belt", "wallet", "scarf", "muffler", "socks", "ring", "necklace", "벨트", "지갑", "스카프", "머플러", "양말", "반지", "목걸이", "악세사리", "액세서리"}},
}

// ClassifyGender 从标题/商品类型/标签猜性别，未命中为unisex
func ClassifyGender(texts ...string) string {
	joined := strings.ToLower(strings.Join(texts, " "))
	// women先判：英文"women"包含"men"子串，顺序颠倒会全判成men
	for _, gender := range []string{"women", "men", "kids"} {
		for _, kw := range genderKeywords[gender] {
			if containsWord(joined, kw) {
				return gender
			}
		}
	}
	return "unisex"
}

// ClassifySubcategory 从标题/商品类型/标签猜品目，未命中返回空串
func ClassifySubcategory(texts ...string) string {
	joined := strings.ToLower(strings.Join(texts, " "))
	for _, sc := range subcategoryKeywords {
		for _, kw := range sc.keywords {
			if strings.Contains(joined, kw) {
				return sc.name
			}
		}
	}
	return ""
}

// containsWord 英文按词边界匹配，非ASCII（韩文等）按子串匹配
func containsWord(haystack, word string) bool {
	if word == "" {
		return false
	}
	if word[0] >= 0x80 {
		return strings.Contains(haystack, word)
	}
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		leftOK := start == 0 || !isLetter(haystack[start-1])
		rightOK := end == len(haystack) || !isLetter(haystack[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
