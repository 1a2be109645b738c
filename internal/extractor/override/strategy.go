// Package override 人工维护的站点规则策略。
// 大型综合몰（무신사、W컨셉等）结构各异且反爬严格，配置文件里按host
// 指定列表页与卡片选择器，命中规则的渠道优先走这里
package override

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
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

const strategyName = "override"

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
	return 10
}

// Detect 纯配置匹配，不发请求
func (s *Strategy) Detect(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) bool {
	return s.ruleFor(channel) != nil
}

func (s *Strategy) ruleFor(channel *model.Channel) *config.OverrideRule {
	u, err := url.Parse(channel.URL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for i := range s.cfg.Overrides {
		if strings.Contains(host, strings.ToLower(s.cfg.Overrides[i].HostContains)) {
			return &s.cfg.Overrides[i]
		}
	}
	return nil
}

// Extract 按规则抓列表页，用配置的选择器解析卡片
func (s *Strategy) Extract(ctx context.Context, fetch interfaces.Fetcher, channel *model.Channel) ([]*model.RawListing, []model.BrandCandidate, error) {
	rule := s.ruleFor(channel)
	if rule == nil {
		return nil, nil, fmt.Errorf("渠道%s没有匹配的override规则", channel.URL)
	}
	base := strings.TrimRight(channel.URL, "/")
	listURL := rule.ListURL
	if strings.HasPrefix(listURL, "/") {
		listURL = base + listURL
	}
	currency := extractor.InferCurrency(channel.URL, channel.Country)

	resp, err := fetch.Get(ctx, listURL)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("override列表页返回状态%d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var listings []*model.RawListing
	brandSet := make(map[string]struct{})
	var brands []model.BrandCandidate

	doc.Find(rule.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		productURL := extractor.AbsoluteURL(base, link.AttrOr("href", ""))
		if productURL == "" {
			return
		}
		title := strings.TrimSpace(item.Find(".name, .item_title, .product-name, .prd_name, p.name").First().Text())
		if title == "" {
			title = strings.TrimSpace(link.AttrOr("title", ""))
		}
		if title == "" {
			return
		}
		vendor := strings.TrimSpace(item.Find(".brand, .item_brand, .product-brand, .prd_brand").First().Text())

		var price float64
		var compare *float64
		item.Find(".price, .item_price, .product-price, del, ins, span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			m := extractor.PriceTextRe.FindStringSubmatch(sel.Text())
			if m == nil {
				return true
			}
			v := extractor.ParseNumber(m[1])
			if v <= 0 {
				return true
			}
			if price == 0 {
				price = v
			} else if v != price {
				if v > price {
					compare = &v
				} else {
					c := price
					compare = &c
					price = v
				}
				return false
			}
			return true
		})
		if price <= 0 {
			return
		}

		handle := pathHandle(productURL)
		listings = append(listings, &model.RawListing{
			Title:        title,
			Vendor:       vendor,
			Handle:       handle,
			Price:        price,
			ComparePrice: compare,
			Currency:     currency,
			ImageURL:     extractor.AbsoluteURL(base, item.Find("img").First().AttrOr("src", "")),
			ProductURL:   productURL,
			ProductKey:   identity.BrandSlug(vendor) + ":" + handle,
			IsAvailable:  true,
			Gender:       extractor.ClassifyGender(title),
			Subcategory:  extractor.ClassifySubcategory(title),
		})
		if vendor != "" && namecheck.Valid(vendor) {
			k := strings.ToLower(vendor)
			if _, seen := brandSet[k]; !seen {
				brandSet[k] = struct{}{}
				brands = append(brands, model.BrandCandidate{Name: vendor})
			}
		}
	})
	return listings, brands, nil
}

// pathHandle URL路径末段作为渠道内句柄
func pathHandle(productURL string) string {
	u, err := url.Parse(productURL)
	if err != nil {
		return productURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return strings.TrimSuffix(parts[len(parts)-1], ".html")
	}
	return u.Path
}
