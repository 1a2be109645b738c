package service

import (
	"context"
	"math"
	"time"

	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"

	"github.com/sirupsen/logrus"
)

// SaleState 打折判定结果
type SaleState struct {
	IsSale       bool
	DiscountRate *int // %，非打折时nil
}

// ComputeSale 打折判定律：定价存在且严格大于现价才算打折。
// 折扣率 = round((1 - price/compare) × 100)
func ComputeSale(price float64, compare *float64) SaleState {
	if compare == nil || *compare <= price || price <= 0 {
		return SaleState{}
	}
	rate := int(math.Round((1 - price / *compare) * 100))
	return SaleState{IsSale: true, DiscountRate: &rate}
}

// LedgerService 价格台账写入：通货换算 + append-only观测记录
type LedgerService struct {
	priceRepo interfaces.PriceRepository
	rates     RateLookup
	logger    *logrus.Logger
}

func NewLedgerService(priceRepo interfaces.PriceRepository, rates RateLookup, logger *logrus.Logger) *LedgerService {
	return &LedgerService{priceRepo: priceRepo, rates: rates, logger: logger}
}

// ToKRW 源通货金额换算为KRW。
// 缺汇率时按1:1降级并告警，观测宁可失真也不丢弃
func (s *LedgerService) ToKRW(ctx context.Context, amount float64, currency string) float64 {
	rate, ok := s.rates.RateToKRW(ctx, currency)
	if !ok {
		s.logger.WithField("currency", currency).Warn("缺少该通货汇率，按1:1记账")
		rate = 1
	}
	return math.Round(amount * rate)
}

// Compute 把单条抽取结果折算成观测记录：KRW换算 + 打折判定。
// 不落库，ListingID由写入方补
func (s *LedgerService) Compute(ctx context.Context, raw *model.RawListing, observedAt time.Time) *model.PriceObservation {
	priceKRW := s.ToKRW(ctx, raw.Price, raw.Currency)
	var originalKRW *float64
	if raw.ComparePrice != nil {
		v := s.ToKRW(ctx, *raw.ComparePrice, raw.Currency)
		originalKRW = &v
	}
	sale := ComputeSale(priceKRW, originalKRW)

	return &model.PriceObservation{
		Price:         priceKRW,
		OriginalPrice: originalKRW,
		Currency:      raw.Currency,
		IsSale:        sale.IsSale,
		DiscountRate:  sale.DiscountRate,
		ObservedAt:    observedAt,
	}
}

// Record 把单条抽取结果追加进台账，返回写入的观测
func (s *LedgerService) Record(ctx context.Context, listingID uint64, raw *model.RawListing, observedAt time.Time) (*model.PriceObservation, error) {
	obs := s.Compute(ctx, raw, observedAt)
	obs.ListingID = listingID
	if err := s.priceRepo.Append(ctx, obs); err != nil {
		return nil, err
	}
	return obs, nil
}
