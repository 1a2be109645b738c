package service

import (
	"context"
	"testing"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// fakePriceQuery 只实现评分要用的历史价格查询，其它方法不会被调用
type fakePriceQuery struct {
	repository.PriceQueryRepository
	prices []float64
}

func (f *fakePriceQuery) HistoricalPricesByKey(_ context.Context, _ string) ([]float64, error) {
	return f.prices, nil
}

func TestScorePurchaseSingleObservationGraded(t *testing.T) {
	svc := NewScoreService(&fakePriceQuery{prices: []float64{120000}}, logrus.New())

	score, err := svc.ScorePurchase(context.Background(), &model.Purchase{
		ProductKey:   "acme:ab123",
		PaidPriceKRW: 100000,
	})
	if err != nil {
		t.Fatalf("ScorePurchase: %v", err)
	}
	// 有一条历史观测就评分，不是insufficient
	if score.Insufficient {
		t.Fatal("单条历史观测不应标记为insufficient")
	}
	if score.Percentile != 0 || score.Grade != "S" {
		t.Errorf("percentile=%v grade=%q, want 0 / S", score.Percentile, score.Grade)
	}
	if score.MarketLow != 120000 || score.MarketHigh != 120000 {
		t.Errorf("market low/high = %v/%v, want 120000/120000", score.MarketLow, score.MarketHigh)
	}
}

func TestScorePurchaseEmptyHistoryInsufficient(t *testing.T) {
	svc := NewScoreService(&fakePriceQuery{}, logrus.New())

	score, err := svc.ScorePurchase(context.Background(), &model.Purchase{
		ProductKey:   "acme:ab123",
		PaidPriceKRW: 100000,
	})
	if err != nil {
		t.Fatalf("ScorePurchase: %v", err)
	}
	if !score.Insufficient {
		t.Error("零历史观测应标记为insufficient")
	}
	if score.Grade != "" {
		t.Errorf("insufficient时不应有等级，得到 %q", score.Grade)
	}
}

func TestScorePurchaseSavingsVsFull(t *testing.T) {
	svc := NewScoreService(&fakePriceQuery{prices: []float64{80000, 90000, 95000, 120000, 150000}}, logrus.New())

	full := int64(150000)
	score, err := svc.ScorePurchase(context.Background(), &model.Purchase{
		ProductKey:       "acme:ab123",
		PaidPriceKRW:     100000,
		OriginalPriceKRW: &full,
	})
	if err != nil {
		t.Fatalf("ScorePurchase: %v", err)
	}
	if score.Percentile != 60 || score.Grade != "C" {
		t.Errorf("percentile=%v grade=%q, want 60 / C", score.Percentile, score.Grade)
	}
	if score.SavingsVsFullKRW == nil || *score.SavingsVsFullKRW != 50000 {
		t.Errorf("SavingsVsFullKRW = %v, want 50000", score.SavingsVsFullKRW)
	}
	if score.SavingsKRW != 7000 {
		t.Errorf("SavingsKRW = %v, want 7000", score.SavingsKRW)
	}
}

func TestPercentile(t *testing.T) {
	market := []float64{80000, 90000, 95000, 120000, 150000}
	cases := []struct {
		name string
		paid float64
		want float64
	}{
		{"cheapest of all", 70000, 0},
		{"middling buy", 100000, 60},
		{"equal price not counted as cheaper", 95000, 40},
		{"most expensive", 200000, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Percentile(tc.paid, market); got != tc.want {
				t.Errorf("Percentile(%v) = %v, want %v", tc.paid, got, tc.want)
			}
		})
	}
}

func TestGradeOf(t *testing.T) {
	cases := []struct {
		percentile float64
		want       string
	}{
		{0, "S"},
		{10, "S"},
		{10.01, "A"},
		{25, "A"},
		{40, "B"},
		{50, "B"},
		{60, "C"},
		{75, "C"},
		{75.5, "D"},
		{100, "D"},
	}
	for _, tc := range cases {
		if got := GradeOf(tc.percentile); got != tc.want {
			t.Errorf("GradeOf(%v) = %q, want %q", tc.percentile, got, tc.want)
		}
	}
}
