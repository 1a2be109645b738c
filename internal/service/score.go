package service

import (
	"context"
	"fmt"
	"math"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// minComparables 历史观测为零时不评分，有一条就能进分布
const minComparables = 1

// PurchaseScore 购买评分结果
type PurchaseScore struct {
	ProductKey       string   `json:"product_key"`
	PaidPriceKRW     int64    `json:"paid_price_krw"`
	Percentile       float64  `json:"percentile"`          // 实付价在历史价格分布中的百分位（越低越便宜）
	Grade            string   `json:"grade"`               // S/A/B/C/D
	MarketLow        float64  `json:"market_low"`          // 历史最低价
	MarketHigh       float64  `json:"market_high"`         // 历史最高价
	MarketAvg        float64  `json:"market_avg"`          // 历史均价
	SavingsKRW       float64  `json:"savings_krw"`         // 较历史均价省下的金额（负数=买贵了）
	SavingsVsFullKRW *float64 `json:"savings_vs_full_krw"` // 较定价省下的金额，没报定价时null
	Comparables      int      `json:"comparables"`         // 参与比较的历史观测条数
	Insufficient     bool     `json:"insufficient"`        // 观测不足，未评分
}

// ScoreService 购买评分器：实付价放进当前市场报价分布里打分
type ScoreService struct {
	priceRepo repository.PriceQueryRepository
	logger    *logrus.Logger
}

func NewScoreService(priceRepo repository.PriceQueryRepository, logger *logrus.Logger) *ScoreService {
	return &ScoreService{priceRepo: priceRepo, logger: logger}
}

// ScorePurchase 对一条购买记录评分。
// 百分位 = 严格低于实付价的历史观测数 / 总观测数 × 100
func (s *ScoreService) ScorePurchase(ctx context.Context, p *model.Purchase) (*PurchaseScore, error) {
	prices, err := s.priceRepo.HistoricalPricesByKey(ctx, p.ProductKey)
	if err != nil {
		return nil, fmt.Errorf("历史价格查询失败: %w", err)
	}

	score := &PurchaseScore{
		ProductKey:   p.ProductKey,
		PaidPriceKRW: p.PaidPriceKRW,
		Comparables:  len(prices),
	}
	if p.OriginalPriceKRW != nil {
		v := float64(*p.OriginalPriceKRW - p.PaidPriceKRW)
		score.SavingsVsFullKRW = &v
	}
	if len(prices) < minComparables {
		score.Insufficient = true
		s.logger.WithFields(logrus.Fields{
			"product_key":  p.ProductKey,
			"observations": len(prices),
		}).Info("历史观测不足，不评分")
		return score, nil
	}

	score.Percentile = Percentile(float64(p.PaidPriceKRW), prices)
	score.Grade = GradeOf(score.Percentile)

	low, high, sum := prices[0], prices[0], 0.0
	for _, v := range prices {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
		sum += v
	}
	score.MarketLow = low
	score.MarketHigh = high
	score.MarketAvg = math.Round(sum/float64(len(prices))*100) / 100
	score.SavingsKRW = math.Round(score.MarketAvg - float64(p.PaidPriceKRW))
	return score, nil
}

// Percentile 严格更便宜的报价占比（%）。0 = 全市场最低价
func Percentile(paid float64, marketPrices []float64) float64 {
	if len(marketPrices) == 0 {
		return 0
	}
	cheaper := 0
	for _, v := range marketPrices {
		if v < paid {
			cheaper++
		}
	}
	return math.Round(float64(cheaper)/float64(len(marketPrices))*10000) / 100
}

// GradeOf 百分位→等级映射
func GradeOf(percentile float64) string {
	switch {
	case percentile <= 10:
		return "S"
	case percentile <= 25:
		return "A"
	case percentile <= 50:
		return "B"
	case percentile <= 75:
		return "C"
	default:
		return "D"
	}
}
