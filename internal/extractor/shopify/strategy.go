// Package shopify Shopify公开目录API抽取策略。
// 店铺隐藏的 /products.json 接口每页最多250条，分页遍历即可拿到全量目录
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"FashionSync/internal/config"
	"FashionSync/internal/extractor"
	"FashionSync/internal/identity"
	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"
	"FashionSync/internal/namecheck"

	"github.com/sirupsen/logrus"
)

const (
	strategyName = "shopify"
	pageLimit    = 250
	maxBodyBytes = 10 << 20
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
	return 20
}

// Detect 探测 /products.json?limit=1 是否返回合法商品结构
func (s *Strategy) Detect(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) bool {
	// 平台提示命中时免探测
	if channel.Platform == model.PlatformShopify {
		return true
	}
	resp, err := fetch.Get(ctx, strings.TrimRight(channel.URL, "/")+"/products.json?limit=1")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var probe model.ShopifyProductsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&probe); err != nil {
		return false
	}
	return len(probe.Products) > 0
}

// Extract 分页遍历目录，遇到空页或达到页数上限停止
func (s *Strategy) Extract(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) ([]*model.RawListing, []model.BrandCandidate, error) {
	base := strings.TrimRight(channel.URL, "/")
	currency := s.shopCurrency(ctx, fetch, base)
	if currency == "" {
		currency = extractor.InferCurrency(channel.URL, channel.Country)
	}

	maxPages := s.cfg.ShopifyMaxPages
	if maxPages <= 0 {
		maxPages = 16
	}

	var listings []*model.RawListing
	brandSet := make(map[string]struct{})
	var brands []model.BrandCandidate

	for page := 1; page <= maxPages; page++ {
		pageURL := fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, pageLimit, page)
		products, err := s.fetchPage(ctx, fetch, pageURL)
		if err != nil {
			if page == 1 {
				return nil, nil, err
			}
			s.logger.WithError(err).WithField("page", page).Warn("Shopify分页中途失败，保留已抓取部分")
			break
		}
		if len(products) == 0 {
			break
		}
		for i := range products {
			l := s.toRawListing(&products[i], base, currency)
			if l == nil {
				continue
			}
			listings = append(listings, l)
			if l.Vendor != "" && namecheck.Valid(l.Vendor) {
				key := strings.ToLower(l.Vendor)
				if _, seen := brandSet[key]; !seen {
					brandSet[key] = struct{}{}
					brands = append(brands, model.BrandCandidate{Name: l.Vendor})
				}
			}
		}
		// 不足一整页说明已到末尾
		if len(products) < pageLimit {
			break
		}
	}
	return listings, brands, nil
}

func (s *Strategy) fetchPage(ctx context.Context, fetch interfaces.Fetcher, pageURL string) ([]model.ShopifyProduct, error) {
	resp, err := fetch.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("products.json返回状态%d", resp.StatusCode)
	}
	var body model.ShopifyProductsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("products.json解析失败: %w", err)
	}
	return body.Products, nil
}

// shopCurrency 查 /shop.json 拿店铺结算币，拿不到返回空串交给上层兜底
func (s *Strategy) shopCurrency(ctx context.Context, fetch interfaces.Fetcher, base string) string {
	resp, err := fetch.Get(ctx, base+"/shop.json")
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var body model.ShopifyShopResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return ""
	}
	return strings.ToUpper(body.Shop.Currency)
}

// toRawListing 单条商品转换：价格取首个变体，无合法价格的商品丢弃
func (s *Strategy) toRawListing(p *model.ShopifyProduct, base, currency string) *model.RawListing {
	if p.Title == "" || p.Handle == "" || len(p.Variants) == 0 {
		return nil
	}
	v := &p.Variants[0]
	price, err := strconv.ParseFloat(strings.TrimSpace(v.Price), 64)
	if err != nil || price <= 0 {
		return nil
	}

	var compare *float64
	if c, err := strconv.ParseFloat(strings.TrimSpace(v.CompareAtPrice), 64); err == nil && c > price {
		compare = &c
	}

	// 任一变体有货即在售，首变体缺货不代表整款下架
	available := false
	for i := range p.Variants {
		if p.Variants[i].Available {
			available = true
			break
		}
	}

	tags := ParseTags(p.Tags)
	imageURL := ""
	if len(p.Images) > 0 {
		imageURL = p.Images[0].Src
	}

	classifyInput := []string{p.Title, p.ProductType, strings.Join(tags, " ")}
	return &model.RawListing{
		Title:        p.Title,
		Vendor:       p.Vendor,
		Handle:       p.Handle,
		ProductType:  p.ProductType,
		Price:        price,
		ComparePrice: compare,
		Currency:     currency,
		SKU:          v.SKU,
		ImageURL:     imageURL,
		Tags:         tags,
		ProductURL:   base + "/products/" + p.Handle,
		ProductKey:   identity.BrandSlug(p.Vendor) + ":" + p.Handle,
		IsAvailable:  available,
		Gender:       extractor.ClassifyGender(classifyInput...),
		Subcategory:  extractor.ClassifySubcategory(classifyInput...),
	}
}

// ParseTags Shopify tags字段兼容两种形态：字符串数组或逗号分隔单串
func ParseTags(raw interface{}) []string {
	var out []string
	switch t := raw.(type) {
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
