package repository

import (
	"context"
	"errors"

	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"

	"gorm.io/gorm"
)

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) interfaces.ListingRepository {
	return &listingRepository{db: db}
}

// UpsertWithObservation 商品更新与观测追加在同一事务里提交。
// 快照在写入前捕获，观测在商品拿到ID后追加。
// 告警判定必须基于旧值，而本方法是破坏性写入，
// 快照是旧状态的唯一出口，调用方不得事后重查
func (r *listingRepository) UpsertWithObservation(ctx context.Context, l *model.Listing, obs *model.PriceObservation) (model.ListingSnapshot, error) {
	var snap model.ListingSnapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertByURLTx(tx, l, &snap); err != nil {
			return err
		}
		obs.ListingID = l.ID
		return tx.Create(obs).Error
	})
	return snap, err
}

func upsertByURLTx(tx *gorm.DB, l *model.Listing, snap *model.ListingSnapshot) error {
	var existing model.Listing
	err := tx.Where("url = ?", l.URL).First(&existing).Error
	switch {
	case err == nil:
		snap.Exists = true
		snap.IsSale = existing.IsSale
		snap.IsActive = existing.IsActive

		var last model.PriceObservation
		if err := tx.Where("listing_id = ?", existing.ID).
			Order("observed_at DESC, id DESC").
			First(&last).Error; err == nil {
			snap.LastPrice = last.Price
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		l.ID = existing.ID
		l.CreatedAt = existing.CreatedAt
		l.IsNew = false
		return tx.Save(l).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		l.IsNew = true
		return tx.Create(l).Error
	default:
		return err
	}
}

// MarkMissingInactive 软归档：本轮没抓到的渠道商品置is_active=false。
// 从不物理删除，价格历史保持完整
func (r *listingRepository) MarkMissingInactive(ctx context.Context, channelID uint64, seenURLs []string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("channel_id = ? AND is_active = ?", channelID, true)
	if len(seenURLs) > 0 {
		q = q.Where("url NOT IN ?", seenURLs)
	}
	res := q.Updates(map[string]interface{}{"is_active": false, "is_sale": false})
	return res.RowsAffected, res.Error
}

func (r *listingRepository) FindByNormalizedKey(ctx context.Context, key string) ([]*model.Listing, error) {
	var listings []*model.Listing
	if err := r.db.WithContext(ctx).
		Where("normalized_key = ? AND is_active = ?", key, true).
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}
