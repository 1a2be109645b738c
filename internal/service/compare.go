package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// KeyComparison 单个归一化键的跨渠道比价结果，报价升序
type KeyComparison struct {
	NormalizedKey string                `json:"normalized_key"`
	Quotes        []repository.KeyPrice `json:"quotes"`
	CheapestPrice float64               `json:"cheapest_price"`
	HighestPrice  float64               `json:"highest_price"`
	Spread        float64               `json:"spread"`     // 最高-最低（KRW）
	SpreadPct     float64               `json:"spread_pct"` // spread / 最低价（买最贵渠道多付的比例）
	ChannelCount  int                   `json:"channel_count"`
}

// CompareService 跨渠道比价
type CompareService struct {
	priceRepo repository.PriceQueryRepository
	logger    *logrus.Logger
}

func NewCompareService(priceRepo repository.PriceQueryRepository, logger *logrus.Logger) *CompareService {
	return &CompareService{priceRepo: priceRepo, logger: logger}
}

// ByKey 单键比价：该键在所有在售渠道的最新报价，升序排列
func (s *CompareService) ByKey(ctx context.Context, key string) (*KeyComparison, error) {
	quotes, err := s.priceRepo.LatestByNormalizedKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("比价查询失败: %w", err)
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	return buildComparison(key, quotes), nil
}

// Sweep 全量扫描：跨渠道价差显著的商品，按价差比例降序。
// minChannels 最少渠道数（<2时强制为2），minSpreadPct 最低价差比例
func (s *CompareService) Sweep(ctx context.Context, minChannels int, minSpreadPct float64) ([]*KeyComparison, error) {
	if minChannels < 2 {
		minChannels = 2
	}
	grouped, err := s.priceRepo.LatestAllKeys(ctx, minChannels)
	if err != nil {
		return nil, fmt.Errorf("比价扫描失败: %w", err)
	}

	var out []*KeyComparison
	for key, quotes := range grouped {
		cmp := buildComparison(key, quotes)
		if cmp.SpreadPct < minSpreadPct {
			continue
		}
		out = append(out, cmp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SpreadPct > out[j].SpreadPct
	})
	s.logger.WithFields(logrus.Fields{
		"keys":    len(grouped),
		"matched": len(out),
	}).Info("比价扫描完成")
	return out, nil
}

func buildComparison(key string, quotes []repository.KeyPrice) *KeyComparison {
	for i := range quotes {
		quotes[i].IsOfficial = isOfficialQuote(&quotes[i])
	}
	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].Price != quotes[j].Price {
			return quotes[i].Price < quotes[j].Price
		}
		// 同价时按渠道名稳定排序
		return quotes[i].ChannelName < quotes[j].ChannelName
	})
	channels := make(map[uint64]struct{})
	for _, q := range quotes {
		channels[q.ChannelID] = struct{}{}
	}
	cheapest := quotes[0].Price
	highest := quotes[len(quotes)-1].Price
	spread := highest - cheapest
	spreadPct := 0.0
	if cheapest > 0 {
		spreadPct = math.Round(spread/cheapest*10000) / 10000
	}
	return &KeyComparison{
		NormalizedKey: key,
		Quotes:        quotes,
		CheapestPrice: cheapest,
		HighestPrice:  highest,
		Spread:        spread,
		SpreadPct:     spreadPct,
		ChannelCount:  len(channels),
	}
}

// isOfficialQuote 品牌官方店且渠道展示名与品牌名一致（大小写不敏感）。
// 只是信任提示，排序不看它
func isOfficialQuote(q *repository.KeyPrice) bool {
	if q.ChannelType != string(model.ChannelBrandStore) || q.BrandName == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(q.ChannelName), strings.TrimSpace(q.BrandName))
}
