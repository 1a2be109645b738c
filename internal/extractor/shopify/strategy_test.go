package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"FashionSync/internal/config"
	"FashionSync/internal/model"

	"github.com/sirupsen/logrus"
)

// plainFetcher 测试用直连fetcher，不限速不重试
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

func testStrategy() *Strategy {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Strategy{cfg: &config.CrawlerConfig{ShopifyMaxPages: 16}, logger: logger}
}

const page1 = `{"products":[
  {"id":1,"title":"M2002RDD Protection Pack","handle":"m2002rdd","vendor":"New Balance",
   "product_type":"Sneakers","tags":["sneakers","M2002RDD"],
   "variants":[{"id":11,"sku":"M2002RDD","price":"189000.00","compare_at_price":"210000.00","available":true}],
   "images":[{"src":"https://cdn.example.com/m2002rdd.jpg"}]},
  {"id":2,"title":"Logo Tee","handle":"logo-tee","vendor":"New Balance",
   "product_type":"T-Shirts","tags":"tee, basic",
   "variants":[{"id":21,"sku":"","price":"39000.00","compare_at_price":"","available":false}],
   "images":[]},
  {"id":3,"title":"Broken","handle":"broken","vendor":"X",
   "variants":[{"id":31,"sku":"","price":"not-a-number","available":true}]}
]}`

func TestDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products.json" {
			fmt.Fprint(w, `{"products":[{"id":1,"title":"t","handle":"h","variants":[{"price":"1.00"}]}]}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := testStrategy()
	fetch := &plainFetcher{client: srv.Client()}
	if !s.Detect(context.Background(), fetch, &model.Channel{URL: srv.URL}) {
		t.Error("合法products.json应探测命中")
	}
	if s.Detect(context.Background(), fetch, &model.Channel{URL: srv.URL + "/missing"}) {
		t.Error("404渠道不应探测命中")
	}
}

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products.json":
			if r.URL.Query().Get("page") == "1" {
				fmt.Fprint(w, page1)
			} else {
				fmt.Fprint(w, `{"products":[]}`)
			}
		case "/shop.json":
			fmt.Fprint(w, `{"shop":{"currency":"krw"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := testStrategy()
	listings, brands, err := s.Extract(context.Background(), &plainFetcher{client: srv.Client()}, &model.Channel{URL: srv.URL, Country: "KR"})
	if err != nil {
		t.Fatalf("Extract返回错误: %v", err)
	}
	// 价格非法的第三条被丢弃
	if len(listings) != 2 {
		t.Fatalf("商品数 = %d, want 2", len(listings))
	}

	first := listings[0]
	if first.Title != "M2002RDD Protection Pack" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Price != 189000 {
		t.Errorf("Price = %v, want 189000", first.Price)
	}
	if first.ComparePrice == nil || *first.ComparePrice != 210000 {
		t.Errorf("ComparePrice = %v, want 210000", first.ComparePrice)
	}
	if first.Currency != "KRW" {
		t.Errorf("Currency = %q, want KRW", first.Currency)
	}
	if first.SKU != "M2002RDD" {
		t.Errorf("SKU = %q", first.SKU)
	}
	if first.ProductURL != srv.URL+"/products/m2002rdd" {
		t.Errorf("ProductURL = %q", first.ProductURL)
	}
	if first.ProductKey != "new-balance:m2002rdd" {
		t.Errorf("ProductKey = %q", first.ProductKey)
	}
	if !first.IsAvailable {
		t.Error("首条应在售")
	}
	if first.Subcategory != "shoes" {
		t.Errorf("Subcategory = %q, want shoes", first.Subcategory)
	}

	second := listings[1]
	if second.ComparePrice != nil {
		t.Errorf("无定价时ComparePrice应为nil，得到 %v", *second.ComparePrice)
	}
	if second.IsAvailable {
		t.Error("available=false的变体不应在售")
	}
	// 逗号分隔形态的tags
	if !reflect.DeepEqual(second.Tags, []string{"tee", "basic"}) {
		t.Errorf("Tags = %v", second.Tags)
	}

	// vendor去重后只有一个合法品牌候选
	if len(brands) != 1 || brands[0].Name != "New Balance" {
		t.Errorf("品牌候选 = %v", brands)
	}
}

func TestParseTags(t *testing.T) {
	if got := ParseTags([]interface{}{"a", " b ", ""}); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("数组形态 = %v", got)
	}
	if got := ParseTags("x, y,,z "); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Errorf("逗号形态 = %v", got)
	}
	if got := ParseTags(nil); got != nil {
		t.Errorf("nil应返回nil，得到 %v", got)
	}
}

func TestAvailabilityFromAnyVariant(t *testing.T) {
	s := testStrategy()
	p := &model.ShopifyProduct{
		ID:     7,
		Title:  "990v6 Grey",
		Handle: "990v6-grey",
		Vendor: "New Balance",
		Variants: []model.ShopifyVariant{
			{ID: 71, SKU: "U990GL6", Price: "299000.00", Available: false},
			{ID: 72, SKU: "U990GL6", Price: "299000.00", Available: true},
		},
	}

	// 首变体缺货但后面还有现货，整款仍在售
	l := s.toRawListing(p, "https://shop.example.com", "KRW")
	if l == nil {
		t.Fatal("转换失败")
	}
	if !l.IsAvailable {
		t.Error("存在有货变体时应在售")
	}

	p.Variants[1].Available = false
	if l := s.toRawListing(p, "https://shop.example.com", "KRW"); l == nil || l.IsAvailable {
		t.Error("全部变体缺货才算下架")
	}
}
