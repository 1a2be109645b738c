package extractor

import (
	"context"
	"errors"
	"testing"

	"FashionSync/internal/config"
	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"

	"github.com/sirupsen/logrus"
)

// fakeStrategy 可编排的测试策略
type fakeStrategy struct {
	name     string
	priority int
	detect   bool
	listings []*model.RawListing
	err      error
	called   *bool
}

func (f *fakeStrategy) GetName() string { return f.name }
func (f *fakeStrategy) Priority() int   { return f.priority }
func (f *fakeStrategy) Detect(ctx context.Context, fetch interfaces.Fetcher, ch *model.Channel) bool {
	return f.detect
}
func (f *fakeStrategy) Extract(ctx context.Context, fetch interfaces.Fetcher, ch *model.Channel) ([]*model.RawListing, []model.BrandCandidate, error) {
	if f.called != nil {
		*f.called = true
	}
	return f.listings, nil, f.err
}

func testEngine(cfg *config.CrawlerConfig, strategies ...interfaces.ExtractStrategy) *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Engine{cfg: cfg, logger: logger, strategies: strategies}
}

func rawListing(url, key string) *model.RawListing {
	return &model.RawListing{Title: "t", ProductURL: url, ProductKey: key, Price: 1000}
}

func TestExtractChannelFirstSuccessWins(t *testing.T) {
	genericCalled := false
	winner := &fakeStrategy{
		name: "shopify", priority: 20, detect: true,
		listings: []*model.RawListing{rawListing("https://s/p/1", "b:1")},
	}
	fallback := &fakeStrategy{
		name: "generic", priority: 90, detect: true,
		listings: []*model.RawListing{rawListing("https://s/p/2", "b:2")},
		called:   &genericCalled,
	}
	cfg := &config.CrawlerConfig{RequestDelayMs: 1}
	e := testEngine(cfg, winner, fallback)
	session := testSession(nil)

	result := e.ExtractChannel(context.Background(), session, &model.Channel{URL: "https://s"})
	if result.Strategy != "shopify" {
		t.Errorf("胜出策略 = %q, want shopify", result.Strategy)
	}
	if genericCalled {
		t.Error("前序策略成功后不应再调用后序策略")
	}
}

func TestExtractChannelFallsThroughOnError(t *testing.T) {
	broken := &fakeStrategy{name: "cafe24", priority: 30, detect: true, err: errors.New("boom")}
	fallback := &fakeStrategy{
		name: "generic", priority: 90, detect: true,
		listings: []*model.RawListing{rawListing("https://s/p/1", "b:1")},
	}
	e := testEngine(&config.CrawlerConfig{RequestDelayMs: 1}, broken, fallback)

	result := e.ExtractChannel(context.Background(), testSession(nil), &model.Channel{URL: "https://s"})
	if result.Strategy != "generic" {
		t.Errorf("胜出策略 = %q, want generic", result.Strategy)
	}
	if result.Err != "" {
		t.Errorf("成功时Err应为空，得到 %q", result.Err)
	}
}

func TestExtractChannelAllFail(t *testing.T) {
	e := testEngine(&config.CrawlerConfig{RequestDelayMs: 1},
		&fakeStrategy{name: "shopify", priority: 20, detect: false},
		&fakeStrategy{name: "generic", priority: 90, detect: true, err: errors.New("boom")},
	)
	result := e.ExtractChannel(context.Background(), testSession(nil), &model.Channel{URL: "https://s"})
	if result.Err == "" {
		t.Error("全部失败时应返回渠道级错误")
	}
	if len(result.Listings) != 0 {
		t.Errorf("不应有结果，得到 %d 条", len(result.Listings))
	}
}

func TestExtractChannelDedupAndCurrency(t *testing.T) {
	listings := []*model.RawListing{
		rawListing("https://s/p/1", "b:1"),
		rawListing("https://S/P/1", "b:1"), // URL判重
		rawListing("https://s/p/2", "b:2"),
	}
	strategy := &fakeStrategy{name: "generic", priority: 90, detect: true, listings: listings}
	e := testEngine(&config.CrawlerConfig{RequestDelayMs: 1}, strategy)

	result := e.ExtractChannel(context.Background(), testSession(nil), &model.Channel{URL: "https://s", Country: "KR"})
	if len(result.Listings) != 2 {
		t.Fatalf("结果数 = %d, want 2（去重1条）", len(result.Listings))
	}
	for _, l := range result.Listings {
		if l.Currency != "KRW" {
			t.Errorf("币种兜底失败: %q", l.Currency)
		}
	}
}

func TestExtractChannelOverCeilingRejectedAsNoise(t *testing.T) {
	noisy := &fakeStrategy{
		name: "override", priority: 10, detect: true,
		listings: []*model.RawListing{
			rawListing("https://s/p/1", "b:1"),
			rawListing("https://s/p/2", "b:2"),
			rawListing("https://s/p/3", "b:3"),
		},
	}
	clean := &fakeStrategy{
		name: "shopify", priority: 20, detect: true,
		listings: []*model.RawListing{rawListing("https://s/p/1", "b:1")},
	}
	cfg := &config.CrawlerConfig{
		RequestDelayMs:   1,
		StrategyCeilings: map[string]int{"override": 2},
	}
	e := testEngine(cfg, noisy, clean)

	result := e.ExtractChannel(context.Background(), testSession(nil), &model.Channel{URL: "https://s"})
	// 超上限不是截断：整批按噪声拒绝，落到下一个策略
	if result.Strategy != "shopify" {
		t.Fatalf("胜出策略 = %q, want shopify", result.Strategy)
	}
	if len(result.Listings) != 1 {
		t.Errorf("结果数 = %d, want 1", len(result.Listings))
	}
}

func TestExtractChannelOverCeilingAllStrategiesFail(t *testing.T) {
	noisy := &fakeStrategy{
		name: "generic", priority: 90, detect: true,
		listings: []*model.RawListing{
			rawListing("https://s/p/1", "b:1"),
			rawListing("https://s/p/2", "b:2"),
		},
	}
	cfg := &config.CrawlerConfig{
		RequestDelayMs:   1,
		StrategyCeilings: map[string]int{"generic": 1},
	}
	e := testEngine(cfg, noisy)

	result := e.ExtractChannel(context.Background(), testSession(nil), &model.Channel{URL: "https://s"})
	if result.Err == "" {
		t.Error("唯一策略被上限拒绝后应返回渠道级错误")
	}
	if len(result.Listings) != 0 {
		t.Errorf("不应有结果，得到 %d 条", len(result.Listings))
	}
}
