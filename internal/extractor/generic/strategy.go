// Package generic 兜底抽取策略：没有已知平台特征的자체몰。
// 约定俗成的列表路径逐个试，用宽松选择器解析商品形状的卡片，
// 召回率有限，靠策略上限防止误抓爆量
package generic

import (
	"context"
	"net/http"
	"strings"

	"FashionSync/internal/config"
	"FashionSync/internal/extractor"
	"FashionSync/internal/identity"
	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const strategyName = "generic"

// listPaths 通用列表页候选路径，命中首个有商品卡片的即停
var listPaths = []string{
	"/collections/all",
	"/shop",
	"/products",
	"/product/list.html",
	"/goods/catalog",
	"/",
}

// cardSelectors 商品卡片的常见容器类名
const cardSelectors = ".product-item, .product-card, .item-box, li.product, .goods-item, .prd-item, ul.prdList > li"

// navWords 导航锚点中指向商品目录的关键词（href或文本任一命中）
var navWords = []string{"product", "collection", "shop", "goods", "category", "item", "전체상품", "전상품", "상품"}

const navFollowLimit = 5

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

// Priority 全链最末位，其它策略都失败时才轮到
func (s *Strategy) Priority() int {
	return 90
}

// Detect 永真：generic是链尾兜底
func (s *Strategy) Detect(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) bool {
	return true
}

func (s *Strategy) Extract(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) ([]*model.RawListing, []model.BrandCandidate, error) {
	base := strings.TrimRight(channel.URL, "/")
	currency := extractor.InferCurrency(channel.URL, channel.Country)

	var lastErr error
	for _, path := range listPaths {
		listings, err := s.extractPage(ctx, fetch, base, base+path, currency)
		if err != nil {
			lastErr = err
			continue
		}
		if len(listings) > 0 {
			return listings, nil, nil
		}
	}

	// 固定路径全落空：退回首页，从导航锚点里找目录形状的链接再试
	listings, err := s.extractFromNav(ctx, fetch, base, currency)
	if err != nil {
		lastErr = err
	}
	if len(listings) > 0 {
		return listings, nil, nil
	}
	return nil, nil, lastErr
}

func (s *Strategy) extractFromNav(ctx context.Context, fetch interfaces.Fetcher, base, currency string) ([]*model.RawListing, error) {
	resp, err := fetch.Get(ctx, base+"/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var targets []string
	doc.Find("nav a, header a, .gnb a, #gnb a, ul.menu a").Each(func(_ int, a *goquery.Selection) {
		if len(targets) >= navFollowLimit {
			return
		}
		href := extractor.AbsoluteURL(base, a.AttrOr("href", ""))
		if href == "" || !strings.HasPrefix(href, base) {
			return
		}
		if !catalogShaped(href, a.Text()) {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		targets = append(targets, href)
	})

	var lastErr error
	for _, target := range targets {
		listings, err := s.extractPage(ctx, fetch, base, target, currency)
		if err != nil {
			lastErr = err
			continue
		}
		if len(listings) > 0 {
			return listings, nil
		}
	}
	return nil, lastErr
}

func catalogShaped(href, text string) bool {
	h := strings.ToLower(href)
	t := strings.ToLower(strings.TrimSpace(text))
	for _, w := range navWords {
		if strings.Contains(h, w) || strings.Contains(t, w) {
			return true
		}
	}
	return false
}

func (s *Strategy) extractPage(ctx context.Context, fetch interfaces.Fetcher, base, pageURL, currency string) ([]*model.RawListing, error) {
	resp, err := fetch.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var out []*model.RawListing
	doc.Find(cardSelectors).Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		productURL := extractor.AbsoluteURL(base, link.AttrOr("href", ""))
		if productURL == "" {
			return
		}
		title := strings.TrimSpace(item.Find(".name, .title, .product-name, h3, h4, p.name").First().Text())
		if title == "" {
			title = strings.TrimSpace(link.AttrOr("title", ""))
		}
		if title == "" || len(title) > 200 {
			return
		}

		var price float64
		item.Find(".price, span, em").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			m := extractor.PriceTextRe.FindStringSubmatch(sel.Text())
			if m == nil {
				return true
			}
			if v := extractor.ParseNumber(m[1]); v > 0 {
				price = v
				return false
			}
			return true
		})
		if price <= 0 {
			return
		}

		handle := pathHandle(productURL)
		out = append(out, &model.RawListing{
			Title:       title,
			Handle:      handle,
			Price:       price,
			Currency:    currency,
			ImageURL:    extractor.AbsoluteURL(base, item.Find("img").First().AttrOr("src", "")),
			ProductURL:  productURL,
			ProductKey:  identity.BrandSlug("") + ":" + handle,
			IsAvailable: true,
			Gender:      extractor.ClassifyGender(title),
			Subcategory: extractor.ClassifySubcategory(title),
		})
	})
	return out, nil
}

func pathHandle(productURL string) string {
	trimmed := strings.TrimRight(productURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return strings.TrimSuffix(trimmed[idx+1:], ".html")
	}
	return trimmed
}
