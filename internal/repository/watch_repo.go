package repository

import (
	"context"

	"FashionSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchRepository 订阅条件仓储。核心引擎只调用List，增删只给管理接口用
type WatchRepository interface {
	ListWatchItems(ctx context.Context) ([]*model.WatchItem, error)
	AddWatchItem(ctx context.Context, item *model.WatchItem) error
	RemoveWatchItem(ctx context.Context, id uint64) error
}

type watchRepository struct {
	db *gorm.DB
}

func NewWatchRepository(db *gorm.DB) WatchRepository {
	return &watchRepository{db: db}
}

func (r *watchRepository) ListWatchItems(ctx context.Context) ([]*model.WatchItem, error) {
	var items []*model.WatchItem
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddWatchItem 同条件重复添加是no-op
func (r *watchRepository) AddWatchItem(ctx context.Context, item *model.WatchItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "watch_type"}, {Name: "watch_value"}},
		DoNothing: true,
	}).Create(item).Error
}

func (r *watchRepository) RemoveWatchItem(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.WatchItem{}, id).Error
}
