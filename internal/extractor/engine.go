package extractor

import (
	"context"
	"errors"
	"sort"
	"strings"

	"FashionSync/internal/config"
	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"

	"github.com/sirupsen/logrus"
)

// ErrNoStrategy 所有策略都探测失败或抽取为空
var ErrNoStrategy = errors.New("没有策略能从该渠道抽取到商品")

// Engine 抽取引擎：持有按优先级排序的策略实例，逐个尝试直到命中
type Engine struct {
	cfg        *config.CrawlerConfig
	logger     *logrus.Logger
	strategies []interfaces.ExtractStrategy
}

// NewEngine 从工厂注册表初始化所有策略实例
func NewEngine(cfg *config.CrawlerConfig, logger *logrus.Logger) *Engine {
	e := &Engine{cfg: cfg, logger: logger}

	names := ListFactories()
	logger.WithField("factory_strategies", names).Info("extractor包中已注册的工厂函数")
	for _, name := range names {
		factory, ok := GetFactory(name)
		if !ok {
			continue
		}
		ins := factory(cfg, logger)
		if ins == nil {
			logger.WithField("strategy", name).Error("工厂函数返回nil策略实例")
			continue
		}
		e.strategies = append(e.strategies, ins)
		logger.WithField("strategy", name).Info("策略实例初始化成功")
	}
	// 按优先级升序，数值小的先探测
	sort.SliceStable(e.strategies, func(i, j int) bool {
		return e.strategies[i].Priority() < e.strategies[j].Priority()
	})
	return e
}

// StrategyCount 已初始化的策略数量
func (e *Engine) StrategyCount() int {
	return len(e.strategies)
}

// ExtractChannel 对单个渠道执行策略链。
// 首个Detect命中且Extract非空的策略独占该渠道；全部失败时返回最后一个错误
func (e *Engine) ExtractChannel(ctx context.Context, session *Session, channel *model.Channel) *model.ExtractResult {
	result := &model.ExtractResult{ChannelURL: channel.URL}
	var lastErr error

	for _, strategy := range e.strategies {
		if ctx.Err() != nil {
			result.Err = ctx.Err().Error()
			return result
		}
		if !strategy.Detect(ctx, session, channel) {
			continue
		}
		log := e.logger.WithFields(logrus.Fields{
			"channel":  channel.URL,
			"strategy": strategy.GetName(),
		})
		log.Info("策略探测命中，开始抽取")

		listings, brands, err := strategy.Extract(ctx, session, channel)
		if err != nil {
			log.WithError(err).Warn("策略抽取失败，尝试下一个策略")
			lastErr = err
			continue
		}
		if len(listings) == 0 {
			log.Warn("策略抽取结果为空，尝试下一个策略")
			continue
		}

		listings = e.dedupe(channel, listings)
		if ceiling := e.cfg.StrategyCeilings[strategy.GetName()]; ceiling > 0 && len(listings) > ceiling {
			log.WithFields(logrus.Fields{
				"listings": len(listings),
				"ceiling":  ceiling,
			}).Warn("抽取结果超过策略上限，视为噪声整体拒绝，尝试下一个策略")
			continue
		}
		listings = e.commit(session, channel, listings)
		if len(listings) == 0 {
			log.Warn("会话级去重后结果为空，尝试下一个策略")
			continue
		}
		result.Strategy = strategy.GetName()
		result.Listings = listings
		result.Brands = brands
		log.WithFields(logrus.Fields{
			"listings": len(listings),
			"brands":   len(brands),
		}).Info("渠道抽取完成")
		return result
	}

	if lastErr == nil {
		lastErr = ErrNoStrategy
	}
	result.Err = lastErr.Error()
	return result
}

// dedupe 策略输出内部去重（URL与商品键，大小写不敏感）+ 币种兜底。
// 不写session状态：上限判定发生在这之后，被拒绝的策略不得污染会话级去重集合
func (e *Engine) dedupe(channel *model.Channel, listings []*model.RawListing) []*model.RawListing {
	seenURL := make(map[string]struct{})
	seenKey := make(map[string]struct{})
	out := make([]*model.RawListing, 0, len(listings))
	for _, l := range listings {
		if l.ProductURL != "" {
			u := strings.ToLower(strings.TrimRight(l.ProductURL, "/"))
			if _, dup := seenURL[u]; dup {
				continue
			}
			seenURL[u] = struct{}{}
		}
		if l.ProductKey != "" {
			k := strings.ToLower(l.ProductKey)
			if _, dup := seenKey[k]; dup {
				continue
			}
			seenKey[k] = struct{}{}
		}
		if l.Currency == "" {
			l.Currency = InferCurrency(channel.URL, channel.Country)
		}
		out = append(out, l)
	}
	return out
}

// commit 把通过上限判定的结果登记进会话级去重集合，跨渠道重复URL被丢弃
func (e *Engine) commit(session *Session, channel *model.Channel, listings []*model.RawListing) []*model.RawListing {
	out := make([]*model.RawListing, 0, len(listings))
	for _, l := range listings {
		if l.ProductURL != "" && !session.MarkURL(l.ProductURL) {
			continue
		}
		if l.ProductKey != "" && !session.MarkKey(channel.URL, l.ProductKey) {
			continue
		}
		out = append(out, l)
	}
	return out
}
