package repository

import (
	"context"
	"errors"
	"time"

	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"

	"gorm.io/gorm"
)

// KeyPrice 跨渠道比价的单条报价：某个归一化键在某渠道的最新价
type KeyPrice struct {
	ListingID     uint64    `gorm:"column:listing_id"`
	ChannelID     uint64    `gorm:"column:channel_id"`
	ChannelName   string    `gorm:"column:channel_name"`
	ChannelType   string    `gorm:"column:channel_type"`
	BrandName     string    `gorm:"column:brand_name"`
	ListingName   string    `gorm:"column:listing_name"`
	ProductURL    string    `gorm:"column:product_url"`
	NormalizedKey string    `gorm:"column:normalized_key"`
	Price         float64   `gorm:"column:price"`
	OriginalPrice *float64  `gorm:"column:original_price"`
	IsSale        bool      `gorm:"column:is_sale"`
	ObservedAt    time.Time `gorm:"column:observed_at"`
	// IsOfficial 品牌官方店报价标记，比价服务计算，仅作信任提示不影响排序
	IsOfficial bool `gorm:"-"`
}

// PriceQueryRepository 台账之上的读扩展：最新价视图与比价扫描
type PriceQueryRepository interface {
	interfaces.PriceRepository
	LatestByNormalizedKey(ctx context.Context, key string) ([]KeyPrice, error)
	LatestAllKeys(ctx context.Context, minChannels int) (map[string][]KeyPrice, error)
	CurrentSaleListings(ctx context.Context) ([]KeyPrice, error)
	HistoricalPricesByKey(ctx context.Context, key string) ([]float64, error)
}

type priceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) PriceQueryRepository {
	return &priceRepository{db: db}
}

// Append 追加一条观测。台账append-only：没有Update/Delete方法
func (r *priceRepository) Append(ctx context.Context, obs *model.PriceObservation) error {
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(obs).Error
}

// LatestByListing 最新观测：observed_at最大，平手时id最大
func (r *priceRepository) LatestByListing(ctx context.Context, listingID uint64) (*model.PriceObservation, error) {
	var obs model.PriceObservation
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("observed_at DESC, id DESC").
		First(&obs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

// HistoryByListing 近days天的观测记录，days<=0不限时间窗口
func (r *priceRepository) HistoryByListing(ctx context.Context, listingID uint64, days int) ([]*model.PriceObservation, error) {
	q := r.db.WithContext(ctx).Where("listing_id = ?", listingID)
	if days > 0 {
		q = q.Where("observed_at >= ?", time.Now().AddDate(0, 0, -days))
	}
	var out []*model.PriceObservation
	if err := q.Order("observed_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// latestPerListingSQL 每个listing取最新一条观测（Postgres DISTINCT ON）
const latestPerListingSQL = `
SELECT DISTINCT ON (po.listing_id)
       po.listing_id, l.channel_id, c.name AS channel_name, c.channel_type,
       b.name AS brand_name, l.name AS listing_name,
       l.url AS product_url, l.normalized_key, po.price, po.original_price,
       po.is_sale, po.observed_at
FROM price_observations po
JOIN listings l ON l.id = po.listing_id
JOIN channels c ON c.id = l.channel_id
LEFT JOIN brands b ON b.id = l.brand_id
WHERE l.is_active = TRUE`

const latestPerListingOrder = ` ORDER BY po.listing_id, po.observed_at DESC, po.id DESC`

// LatestByNormalizedKey 某个键在所有渠道的最新报价。
// 归一化键和渠道内键都接受
func (r *priceRepository) LatestByNormalizedKey(ctx context.Context, key string) ([]KeyPrice, error) {
	var rows []KeyPrice
	err := r.db.WithContext(ctx).
		Raw(latestPerListingSQL+` AND (l.normalized_key = ? OR l.product_key = ?)`+latestPerListingOrder, key, key).
		Scan(&rows).Error
	return rows, err
}

// LatestAllKeys 全量扫描：按归一化键分组的最新报价，
// 渠道数不足minChannels的键在内存里过滤掉
func (r *priceRepository) LatestAllKeys(ctx context.Context, minChannels int) (map[string][]KeyPrice, error) {
	var rows []KeyPrice
	err := r.db.WithContext(ctx).
		Raw(latestPerListingSQL+` AND l.normalized_key IS NOT NULL`+latestPerListingOrder).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]KeyPrice)
	for _, row := range rows {
		grouped[row.NormalizedKey] = append(grouped[row.NormalizedKey], row)
	}
	if minChannels > 1 {
		for key, prices := range grouped {
			channels := make(map[uint64]struct{})
			for _, p := range prices {
				channels[p.ChannelID] = struct{}{}
			}
			if len(channels) < minChannels {
				delete(grouped, key)
			}
		}
	}
	return grouped, nil
}

// HistoricalPricesByKey 某个键名下全部历史观测价（KRW）。
// 评分用的是完整价格分布，软归档商品的历史也算
func (r *priceRepository) HistoricalPricesByKey(ctx context.Context, key string) ([]float64, error) {
	var prices []float64
	err := r.db.WithContext(ctx).
		Raw(`SELECT po.price
FROM price_observations po
JOIN listings l ON l.id = po.listing_id
WHERE l.normalized_key = ? OR l.product_key = ?
ORDER BY po.observed_at, po.id`, key, key).
		Scan(&prices).Error
	return prices, err
}

// CurrentSaleListings 当前打折中的所有商品（最新观测is_sale为真）
func (r *priceRepository) CurrentSaleListings(ctx context.Context) ([]KeyPrice, error) {
	var rows []KeyPrice
	err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM (`+latestPerListingSQL+latestPerListingOrder+`) latest WHERE latest.is_sale = TRUE ORDER BY latest.observed_at DESC`).
		Scan(&rows).Error
	return rows, err
}
