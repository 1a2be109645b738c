package service

import (
	"context"
	"fmt"
	"strings"

	"FashionSync/internal/ratesapi"
	"FashionSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// RateLookup 台账换算用的汇率查询口。
// 查不到的通货返回(0, false)，降级策略由调用方决定
type RateLookup interface {
	RateToKRW(ctx context.Context, currency string) (float64, bool)
}

// RatesService 汇率服务：对外提供查询，对调度提供刷新
type RatesService struct {
	rateRepo repository.RateRepository
	client   *ratesapi.Client
	logger   *logrus.Logger
}

func NewRatesService(rateRepo repository.RateRepository, client *ratesapi.Client, logger *logrus.Logger) *RatesService {
	return &RatesService{rateRepo: rateRepo, client: client, logger: logger}
}

// RateToKRW KRW自身恒等于1，其它通货查仓储
func (s *RatesService) RateToKRW(ctx context.Context, currency string) (float64, bool) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == "KRW" {
		return 1, true
	}
	row, err := s.rateRepo.GetRate(ctx, currency)
	if err != nil {
		s.logger.WithError(err).WithField("currency", currency).Error("汇率查询失败")
		return 0, false
	}
	if row == nil || row.Rate <= 0 {
		return 0, false
	}
	return row.Rate, true
}

// Refresh 从外部源拉取全量汇率写入仓储
func (s *RatesService) Refresh(ctx context.Context) (int, error) {
	rates, err := s.client.FetchRatesToKRW(ctx)
	if err != nil {
		return 0, fmt.Errorf("汇率刷新失败: %w", err)
	}
	saved := 0
	for currency, rate := range rates {
		if currency == "KRW" {
			continue
		}
		if err := s.rateRepo.UpsertRate(ctx, currency, rate); err != nil {
			s.logger.WithError(err).WithField("currency", currency).Warn("汇率写入失败，跳过该通货")
			continue
		}
		saved++
	}
	s.logger.WithField("saved", saved).Info("汇率刷新完成")
	return saved, nil
}
