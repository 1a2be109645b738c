package repository

import (
	"context"

	"FashionSync/internal/model"

	"gorm.io/gorm"
)

// PurchaseRepository 购买记录仓储。评分器只读，写入只来自管理接口
type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, p *model.Purchase) error
	ListPurchases(ctx context.Context, limit int) ([]*model.Purchase, error)
	GetPurchaseByID(ctx context.Context, id uint64) (*model.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) CreatePurchase(ctx context.Context, p *model.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepository) ListPurchases(ctx context.Context, limit int) ([]*model.Purchase, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*model.Purchase
	if err := r.db.WithContext(ctx).
		Order("purchased_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *purchaseRepository) GetPurchaseByID(ctx context.Context, id uint64) (*model.Purchase, error) {
	var p model.Purchase
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
