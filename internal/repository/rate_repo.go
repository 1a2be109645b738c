package repository

import (
	"context"
	"errors"
	"time"

	"FashionSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateRepository 汇率仓储（→ KRW 基准对）
type RateRepository interface {
	UpsertRate(ctx context.Context, fromCurrency string, rate float64) error
	GetRate(ctx context.Context, fromCurrency string) (*model.ExchangeRate, error)
	ListRates(ctx context.Context) ([]*model.ExchangeRate, error)
}

type rateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) UpsertRate(ctx context.Context, fromCurrency string, rate float64) error {
	row := &model.ExchangeRate{
		FromCurrency: fromCurrency,
		ToCurrency:   "KRW",
		Rate:         rate,
		FetchedAt:    time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "fetched_at"}),
	}).Create(row).Error
}

// GetRate 没有该通货的汇率时返回(nil, nil)，缺汇率的降级策略由service决定
func (r *rateRepository) GetRate(ctx context.Context, fromCurrency string) (*model.ExchangeRate, error) {
	var row model.ExchangeRate
	err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", fromCurrency, "KRW").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *rateRepository) ListRates(ctx context.Context) ([]*model.ExchangeRate, error) {
	var rows []*model.ExchangeRate
	if err := r.db.WithContext(ctx).Order("from_currency ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
