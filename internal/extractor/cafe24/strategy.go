// Package cafe24 Cafe24托管商城抽取策略。
// 没有公开JSON接口，走分类页HTML：先从品牌/메이커页发现分类编号，
// 再按 /product/list.html?cate_no=N 分页解析商品卡片
package cafe24

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"FashionSync/internal/config"
	"FashionSync/internal/extractor"
	"FashionSync/internal/identity"
	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"
	"FashionSync/internal/namecheck"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const strategyName = "cafe24"

// brandIndexPaths 品牌目录候选入口，逐个尝试直到有分类链接
var brandIndexPaths = []string{
	"/product/maker.html",
	"/product/brand.html",
	"/brands2.html",
	"/brand.html",
}

var (
	cateNoRe  = regexp.MustCompile(`cate_no=(\d+)`)
	soldWords = []string{"품절", "sold out", "soldout", "일시품절"}
)

func init() {
	extractor.Register(strategyName, func(cfg *config.CrawlerConfig, logger *logrus.Logger) interfaces.ExtractStrategy {
		return &Strategy{cfg: cfg, logger: logger}
	})
}

type Strategy struct {
	cfg    *config.CrawlerConfig
	logger *logrus.Logger
}

func (s *Strategy) GetName() string {
	return strategyName
}

func (s *Strategy) Priority() int {
	return 30
}

// Detect 主页HTML里找Cafe24特征：EC前缀脚本或list.html商品链接
func (s *Strategy) Detect(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) bool {
	// 平台提示命中时免探测
	if channel.Platform == model.PlatformCafe24 {
		return true
	}
	resp, err := fetch.Get(ctx, channel.URL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return false
	}
	html, _ := doc.Html()
	if strings.Contains(html, "cafe24.com") || strings.Contains(html, "EC_ROOT_DOMAIN") || strings.Contains(html, "xans-") {
		return true
	}
	return doc.Find(`a[href*="/product/list.html"]`).Length() > 0
}

// Extract 两阶段：品牌分类发现 → 逐分类分页抽取。总页数受Cafe24MaxPages约束
func (s *Strategy) Extract(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) ([]*model.RawListing, []model.BrandCandidate, error) {
	base := strings.TrimRight(channel.URL, "/")
	currency := extractor.InferCurrency(channel.URL, channel.Country)

	categories, brands := s.discoverCategories(ctx, fetch, base)
	if len(categories) == 0 {
		// 无品牌分类的단일몰：直接扫全量列表页
		categories = []category{{cateNo: "", brandName: ""}}
	}

	maxPages := s.cfg.Cafe24MaxPages
	if maxPages <= 0 {
		maxPages = 80
	}

	var listings []*model.RawListing
	pagesUsed := 0
	for _, cat := range categories {
		for page := 1; ; page++ {
			if pagesUsed >= maxPages {
				s.logger.WithField("channel", base).Warn("达到Cafe24页数预算，停止抽取")
				return listings, brands, nil
			}
			pagesUsed++

			listURL := fmt.Sprintf("%s/product/list.html?page=%d", base, page)
			if cat.cateNo != "" {
				listURL = fmt.Sprintf("%s/product/list.html?cate_no=%s&page=%d", base, cat.cateNo, page)
			}
			items, err := s.extractListPage(ctx, fetch, base, listURL, cat.brandName, currency)
			if err != nil {
				if page == 1 && len(listings) == 0 {
					return nil, nil, err
				}
				s.logger.WithError(err).WithField("url", listURL).Warn("Cafe24列表页失败，跳过该分类剩余页")
				break
			}
			if len(items) == 0 {
				break
			}
			listings = append(listings, items...)
		}
	}
	return listings, brands, nil
}

type category struct {
	cateNo    string
	brandName string
}

// discoverCategories 品牌目录页发现：候选路径逐个试，抽出cate_no链接与品牌名
func (s *Strategy) discoverCategories(ctx context.Context, fetch interfaces.Fetcher, base string) ([]category, []model.BrandCandidate) {
	for _, path := range brandIndexPaths {
		resp, err := fetch.Get(ctx, base+path)
		if err != nil {
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			continue
		}
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			continue
		}

		var cats []category
		var brands []model.BrandCandidate
		seen := make(map[string]struct{})
		// 分类链接要排除单品详情（product_no与cate_no同时出现的情况）
		doc.Find(`a[href*="cate_no="]:not([href*="product_no="])`).Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			m := cateNoRe.FindStringSubmatch(href)
			if m == nil {
				return
			}
			if _, dup := seen[m[1]]; dup {
				return
			}
			name := strings.TrimSpace(sel.Text())
			if !namecheck.Valid(name) {
				return
			}
			seen[m[1]] = struct{}{}
			cats = append(cats, category{cateNo: m[1], brandName: name})
			brands = append(brands, model.BrandCandidate{Name: name, URL: base + "/product/list.html?cate_no=" + m[1]})
		})
		if len(cats) > 0 {
			s.logger.WithFields(logrus.Fields{
				"index_path": path,
				"categories": len(cats),
			}).Info("Cafe24品牌分类发现完成")
			return cats, brands
		}
	}
	return nil, nil
}

// extractListPage 解析单个列表页的商品卡片
func (s *Strategy) extractListPage(ctx context.Context, fetch interfaces.Fetcher, base, listURL, brandName, currency string) ([]*model.RawListing, error) {
	resp, err := fetch.Get(ctx, listURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("列表页返回状态%d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var out []*model.RawListing
	// Cafe24默认皮肤的商品卡片容器，自定义皮肤基本保留该类名
	doc.Find("ul.prdList > li, .xans-product-listnormal li.item, .xans-product-normalpackage li.item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find(`a[href*="/product/"]`).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		productURL := extractor.AbsoluteURL(base, href)
		if productURL == "" {
			return
		}

		title := strings.TrimSpace(item.Find(".name, strong.name, .prdName, p.name").First().Text())
		title = stripLabel(title)
		if title == "" {
			title = strings.TrimSpace(link.AttrOr("title", ""))
		}
		if title == "" {
			return
		}

		price, compare := parsePrices(item)
		if price <= 0 {
			return
		}

		img := item.Find("img").First().AttrOr("src", "")
		vendor := brandName
		if vendor == "" {
			vendor = strings.TrimSpace(item.Find(".brand, .prdBrand").First().Text())
		}

		handle := productHandle(productURL)
		out = append(out, &model.RawListing{
			Title:        title,
			Vendor:       vendor,
			Handle:       handle,
			Price:        price,
			ComparePrice: compare,
			Currency:     currency,
			ImageURL:     extractor.AbsoluteURL(base, img),
			ProductURL:   productURL,
			ProductKey:   identity.BrandSlug(vendor) + ":" + handle,
			IsAvailable:  !isSoldOut(item),
			Gender:       extractor.ClassifyGender(title),
			Subcategory:  extractor.ClassifySubcategory(title),
		})
	})
	return out, nil
}

// parsePrices 卡片里的价格文本：两个不同价并存时小的是现价、大的是定价
func parsePrices(item *goquery.Selection) (float64, *float64) {
	var prices []float64
	seen := make(map[float64]struct{})
	item.Find(".price, .prdPrice, li span, .xans-product-listitem span").Each(func(_ int, sel *goquery.Selection) {
		m := extractor.PriceTextRe.FindStringSubmatch(sel.Text())
		if m == nil {
			return
		}
		v := extractor.ParseNumber(m[1])
		if v <= 0 {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		prices = append(prices, v)
	})
	if len(prices) == 0 {
		return 0, nil
	}
	low, high := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < low {
			low = p
		}
		if p > high {
			high = p
		}
	}
	if high > low {
		return low, &high
	}
	return low, nil
}


// stripLabel 去掉"상품명 :"之类的字段标签前缀
func stripLabel(s string) string {
	if idx := strings.Index(s, ":"); idx >= 0 && idx < 12 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}

func isSoldOut(item *goquery.Selection) bool {
	text := strings.ToLower(item.Text())
	for _, w := range soldWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	alt := strings.ToLower(item.Find("img").AttrOr("alt", ""))
	for _, w := range soldWords {
		if strings.Contains(alt, w) {
			return true
		}
	}
	return false
}

// productHandle 详情URL里的product_no参数，没有则取路径末段
func productHandle(productURL string) string {
	u, err := url.Parse(productURL)
	if err != nil {
		return productURL
	}
	if no := u.Query().Get("product_no"); no != "" {
		return "p" + no
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return strings.TrimSuffix(parts[len(parts)-1], ".html")
	}
	return productURL
}

