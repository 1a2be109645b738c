package service

import (
	"context"
	"strings"

	"FashionSync/internal/config"
	"FashionSync/internal/identity"
	"FashionSync/internal/model"
	"FashionSync/internal/notify"
	"FashionSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// AlertService 告警引擎：订阅条件放行 + 信号判定 + 投递。
// 每商品每轮最多一条信号，类型按优先级互斥
type AlertService struct {
	watchRepo repository.WatchRepository
	sink      notify.Sink
	cfg       *config.AlertConfig
	logger    *logrus.Logger
}

func NewAlertService(watchRepo repository.WatchRepository, sink notify.Sink, cfg *config.AlertConfig, logger *logrus.Logger) *AlertService {
	return &AlertService{watchRepo: watchRepo, sink: sink, cfg: cfg, logger: logger}
}

// WatchSet 单轮内复用的订阅条件快照
type WatchSet struct {
	brands      map[string]struct{}
	channels    map[string]struct{}
	productKeys map[string]struct{}
}

func (w *WatchSet) empty() bool {
	return len(w.brands) == 0 && len(w.channels) == 0 && len(w.productKeys) == 0
}

// LoadWatchSet 抓取开始时加载一次订阅条件，整轮复用
func (s *AlertService) LoadWatchSet(ctx context.Context) (*WatchSet, error) {
	items, err := s.watchRepo.ListWatchItems(ctx)
	if err != nil {
		return nil, err
	}
	ws := &WatchSet{
		brands:      make(map[string]struct{}),
		channels:    make(map[string]struct{}),
		productKeys: make(map[string]struct{}),
	}
	for _, item := range items {
		v := strings.ToLower(strings.TrimSpace(item.WatchValue))
		if v == "" {
			continue
		}
		switch item.WatchType {
		case model.WatchBrand:
			ws.brands[identity.BrandSlug(v)] = struct{}{}
		case model.WatchChannel:
			ws.channels[strings.TrimRight(v, "/")] = struct{}{}
		case model.WatchProductKey:
			ws.productKeys[v] = struct{}{}
		}
	}
	return ws, nil
}

// matches 订阅条件放行判定。订阅表为空时一律不放行（fail-closed）
func (ws *WatchSet) matches(channel *model.Channel, listing *model.Listing) bool {
	if ws.empty() {
		return false
	}
	if _, ok := ws.channels[strings.ToLower(strings.TrimRight(channel.URL, "/"))]; ok {
		return true
	}
	if listing.Vendor != "" {
		if _, ok := ws.brands[identity.BrandSlug(listing.Vendor)]; ok {
			return true
		}
	}
	if listing.NormalizedKey != nil {
		if _, ok := ws.productKeys[strings.ToLower(*listing.NormalizedKey)]; ok {
			return true
		}
	}
	if _, ok := ws.productKeys[strings.ToLower(listing.ProductKey)]; ok {
		return true
	}
	return false
}

// Evaluate 信号判定。优先级：新商品 > 세일开始 > 降价，一条命中即返回。
//   - 新商品：该URL此前无记录
//   - 세일开始：打折状态严格 false→true 跃迁，持续打折不重复发
//   - 降价：较上次观测价下降幅度 ≥ 阈值
func (s *AlertService) Evaluate(ws *WatchSet, channel *model.Channel, listing *model.Listing, snap model.ListingSnapshot, obs *model.PriceObservation) *notify.Signal {
	if !ws.matches(channel, listing) {
		return nil
	}

	base := notify.Signal{
		Title:       listing.Name,
		ChannelName: channel.Name,
		ProductURL:  listing.URL,
		Price:       obs.Price,
		ImageURL:    listing.ImageURL,
	}

	if !snap.Exists {
		base.Kind = "new_listing"
		return &base
	}
	if obs.IsSale && !snap.IsSale {
		base.Kind = "sale_onset"
		return &base
	}
	if snap.LastPrice > 0 && obs.Price < snap.LastPrice {
		drop := (snap.LastPrice - obs.Price) / snap.LastPrice
		threshold := s.cfg.PriceDropRate
		if threshold <= 0 {
			threshold = 0.10
		}
		if drop >= threshold {
			base.Kind = "price_drop"
			base.OldPrice = snap.LastPrice
			base.DropRate = drop
			return &base
		}
	}
	return nil
}

// Dispatch 投递信号。失败只记日志，不打断抓取主流程
func (s *AlertService) Dispatch(ctx context.Context, signal *notify.Signal) {
	if signal == nil {
		return
	}
	if err := s.sink.Send(ctx, signal); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"kind": signal.Kind,
			"url":  signal.ProductURL,
		}).Error("告警投递失败")
	}
}
