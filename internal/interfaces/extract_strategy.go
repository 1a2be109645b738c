package interfaces

import (
	"context"
	"net/http"

	"FashionSync/internal/config"
	"FashionSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Fetcher 策略使用的受控HTTP入口：带限速、重试与UA伪装。
// 由抓取会话实现，策略不直接持有http.Client
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Factory 抽取策略工厂函数签名
// 入参：爬虫配置、日志实例
// 出参：实现ExtractStrategy接口的策略实例
type Factory func(cfg *config.CrawlerConfig, logger *logrus.Logger) ExtractStrategy

// ExtractStrategy 所有抽取策略必须实现的核心接口。
// 引擎按优先级逐个调用 Detect，命中后调用 Extract，首个成功的策略独占该渠道
type ExtractStrategy interface {
	GetName() string // 策略名称
	Priority() int   // 数值越小越先尝试
	// Detect 判断该渠道是否适用本策略（允许发探测请求）
	Detect(ctx context.Context, fetch Fetcher, channel *model.Channel) bool
	// Extract 抽取商品与品牌候选
	Extract(ctx context.Context, fetch Fetcher, channel *model.Channel) ([]*model.RawListing, []model.BrandCandidate, error)
}

// ListingRepository 商品落库操作接口
type ListingRepository interface {
	// UpsertWithObservation 商品更新与台账追加在同一事务内完成：
	// 有观测没商品（或反过来）是不允许出现的中间状态
	UpsertWithObservation(ctx context.Context, listing *model.Listing, obs *model.PriceObservation) (model.ListingSnapshot, error)
	MarkMissingInactive(ctx context.Context, channelID uint64, seenURLs []string) (int64, error)
	FindByNormalizedKey(ctx context.Context, key string) ([]*model.Listing, error)
}

// PriceRepository 价格台账操作接口：只追加，不修改历史
type PriceRepository interface {
	Append(ctx context.Context, obs *model.PriceObservation) error
	LatestByListing(ctx context.Context, listingID uint64) (*model.PriceObservation, error)
	// HistoryByListing 时间窗口内的历史观测，days<=0不限窗口
	HistoryByListing(ctx context.Context, listingID uint64, days int) ([]*model.PriceObservation, error)
}
