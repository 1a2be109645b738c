package repository

import (
	"context"
	"time"

	"FashionSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChannelRepository 渠道与品牌主数据仓储
type ChannelRepository interface {
	ListActiveChannels(ctx context.Context) ([]*model.Channel, error)
	GetChannelByID(ctx context.Context, id uint64) (*model.Channel, error)
	CreateChannel(ctx context.Context, ch *model.Channel) error
	EnsureBrand(ctx context.Context, name, slug string) (*model.Brand, error)
	LinkChannelBrand(ctx context.Context, channelID, brandID uint64) error
}

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) ListActiveChannels(ctx context.Context) ([]*model.Channel, error) {
	var channels []*model.Channel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

func (r *channelRepository) GetChannelByID(ctx context.Context, id uint64) (*model.Channel, error) {
	var ch model.Channel
	if err := r.db.WithContext(ctx).First(&ch, id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *channelRepository) CreateChannel(ctx context.Context, ch *model.Channel) error {
	return r.db.WithContext(ctx).Create(ch).Error
}

// EnsureBrand slug冲突时保留原记录，返回带ID的品牌
func (r *channelRepository) EnsureBrand(ctx context.Context, name, slug string) (*model.Brand, error) {
	brand := &model.Brand{Name: name, Slug: slug}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(brand).Error; err != nil {
		return nil, err
	}
	if brand.ID == 0 {
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(brand).Error; err != nil {
			return nil, err
		}
	}
	return brand, nil
}

// LinkChannelBrand 渠道取扱品牌关系upsert，重复确认时只刷新时间
func (r *channelRepository) LinkChannelBrand(ctx context.Context, channelID, brandID uint64) error {
	link := &model.ChannelBrand{
		ChannelID: channelID,
		BrandID:   brandID,
		CrawledAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}, {Name: "brand_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"crawled_at"}),
	}).Create(link).Error
}
