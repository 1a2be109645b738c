package override

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"FashionSync/internal/config"
	"FashionSync/internal/model"

	"github.com/sirupsen/logrus"
)

type plainFetcher struct {
	client *http.Client
}

func (p *plainFetcher) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return p.client.Do(req)
}

func testStrategy(rules []config.OverrideRule) *Strategy {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Strategy{cfg: &config.CrawlerConfig{Overrides: rules}, logger: logger}
}

const listHTML = `<html><body>
<div class="sale-item">
  <a href="/goods/8801" title=""><img src="/img/8801.jpg"></a>
  <p class="name">울 발마칸 코트</p>
  <p class="brand">스튜디오 톰보이</p>
  <span class="price">450,000원</span>
  <span class="price">315,000원</span>
</div>
<div class="sale-item">
  <a href="javascript:void(0)"></a>
  <p class="name">링크 없는 상품</p>
  <span class="price">10,000원</span>
</div>
</body></html>`

func TestDetectByHost(t *testing.T) {
	s := testStrategy([]config.OverrideRule{
		{HostContains: "musinsa.com", ListURL: "/sale", ItemSelector: ".sale-item"},
	})
	if !s.Detect(context.Background(), nil, &model.Channel{URL: "https://www.musinsa.com"}) {
		t.Error("host命中规则时应探测成功")
	}
	if s.Detect(context.Background(), nil, &model.Channel{URL: "https://other-shop.com"}) {
		t.Error("无匹配规则时不应探测成功")
	}
}

func TestExtractWithRule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sale" {
			fmt.Fprint(w, listHTML)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := testStrategy([]config.OverrideRule{
		{HostContains: "127.0.0.1", ListURL: "/sale", ItemSelector: ".sale-item"},
	})
	listings, brands, err := s.Extract(context.Background(), &plainFetcher{client: srv.Client()}, &model.Channel{URL: srv.URL, Country: "KR"})
	if err != nil {
		t.Fatalf("Extract返回错误: %v", err)
	}
	// javascript伪链接的卡片被丢弃
	if len(listings) != 1 {
		t.Fatalf("商品数 = %d, want 1", len(listings))
	}

	coat := listings[0]
	if coat.Title != "울 발마칸 코트" {
		t.Errorf("Title = %q", coat.Title)
	}
	// 两个价并存：小的是现价，大的是定价
	if coat.Price != 315000 {
		t.Errorf("Price = %v, want 315000", coat.Price)
	}
	if coat.ComparePrice == nil || *coat.ComparePrice != 450000 {
		t.Errorf("ComparePrice = %v, want 450000", coat.ComparePrice)
	}
	if coat.Vendor != "스튜디오 톰보이" {
		t.Errorf("Vendor = %q", coat.Vendor)
	}
	if len(brands) != 1 {
		t.Errorf("品牌候选数 = %d, want 1", len(brands))
	}
}
