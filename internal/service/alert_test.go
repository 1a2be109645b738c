package service

import (
	"testing"

	"FashionSync/internal/config"
	"FashionSync/internal/model"

	"github.com/sirupsen/logrus"
)

func testAlertService() *AlertService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &AlertService{
		cfg:    &config.AlertConfig{PriceDropRate: 0.10},
		logger: logger,
	}
}

func wsWithBrand(slug string) *WatchSet {
	return &WatchSet{
		brands:      map[string]struct{}{slug: {}},
		channels:    map[string]struct{}{},
		productKeys: map[string]struct{}{},
	}
}

func emptyWatchSet() *WatchSet {
	return &WatchSet{
		brands:      map[string]struct{}{},
		channels:    map[string]struct{}{},
		productKeys: map[string]struct{}{},
	}
}

var testChannel = &model.Channel{ID: 1, Name: "테스트샵", URL: "https://shop.example.com"}

func watchedListing() *model.Listing {
	return &model.Listing{
		Name:   "M2002RDD",
		Vendor: "New Balance",
		URL:    "https://shop.example.com/products/m2002rdd",
	}
}

func TestEvaluateFailClosed(t *testing.T) {
	s := testAlertService()
	snap := model.ListingSnapshot{}
	obs := &model.PriceObservation{Price: 100000}

	if got := s.Evaluate(emptyWatchSet(), testChannel, watchedListing(), snap, obs); got != nil {
		t.Errorf("订阅表为空时不应产生信号，得到 %q", got.Kind)
	}
}

func TestEvaluateUnwatchedBrand(t *testing.T) {
	s := testAlertService()
	ws := wsWithBrand("nike")
	snap := model.ListingSnapshot{}
	obs := &model.PriceObservation{Price: 100000}

	if got := s.Evaluate(ws, testChannel, watchedListing(), snap, obs); got != nil {
		t.Errorf("品牌未订阅时不应产生信号，得到 %q", got.Kind)
	}
}

func TestEvaluatePrecedence(t *testing.T) {
	s := testAlertService()
	ws := wsWithBrand("new-balance")

	cases := []struct {
		name     string
		snap     model.ListingSnapshot
		obs      *model.PriceObservation
		wantKind string
	}{
		{
			// 新商品即使同时打折，也只发new_listing
			name:     "new listing wins over sale",
			snap:     model.ListingSnapshot{Exists: false},
			obs:      &model.PriceObservation{Price: 90000, IsSale: true},
			wantKind: "new_listing",
		},
		{
			// false→true跃迁
			name:     "sale onset",
			snap:     model.ListingSnapshot{Exists: true, IsSale: false, LastPrice: 100000},
			obs:      &model.PriceObservation{Price: 90000, IsSale: true},
			wantKind: "sale_onset",
		},
		{
			// 持续打折不重复发，降价也没到阈值
			name:     "ongoing sale suppressed",
			snap:     model.ListingSnapshot{Exists: true, IsSale: true, LastPrice: 90000},
			obs:      &model.PriceObservation{Price: 89000, IsSale: true},
			wantKind: "",
		},
		{
			name:     "price drop at threshold",
			snap:     model.ListingSnapshot{Exists: true, IsSale: false, LastPrice: 100000},
			obs:      &model.PriceObservation{Price: 90000, IsSale: false},
			wantKind: "price_drop",
		},
		{
			name:     "price drop below threshold",
			snap:     model.ListingSnapshot{Exists: true, IsSale: false, LastPrice: 100000},
			obs:      &model.PriceObservation{Price: 95000, IsSale: false},
			wantKind: "",
		},
		{
			name:     "price rise no signal",
			snap:     model.ListingSnapshot{Exists: true, IsSale: false, LastPrice: 100000},
			obs:      &model.PriceObservation{Price: 120000, IsSale: false},
			wantKind: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Evaluate(ws, testChannel, watchedListing(), tc.snap, tc.obs)
			if tc.wantKind == "" {
				if got != nil {
					t.Fatalf("不应产生信号，得到 %q", got.Kind)
				}
				return
			}
			if got == nil {
				t.Fatalf("应产生 %q 信号，得到 nil", tc.wantKind)
			}
			if got.Kind != tc.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tc.wantKind)
			}
		})
	}
}

func TestEvaluatePriceDropCarriesOldPrice(t *testing.T) {
	s := testAlertService()
	ws := wsWithBrand("new-balance")
	snap := model.ListingSnapshot{Exists: true, LastPrice: 200000}
	obs := &model.PriceObservation{Price: 150000}

	got := s.Evaluate(ws, testChannel, watchedListing(), snap, obs)
	if got == nil || got.Kind != "price_drop" {
		t.Fatalf("应产生price_drop信号，得到 %+v", got)
	}
	if got.OldPrice != 200000 {
		t.Errorf("OldPrice = %v, want 200000", got.OldPrice)
	}
	if got.DropRate != 0.25 {
		t.Errorf("DropRate = %v, want 0.25", got.DropRate)
	}
}
