package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"FashionSync/internal/config"
	"FashionSync/internal/extractor"
	"FashionSync/internal/identity"
	"FashionSync/internal/interfaces"
	"FashionSync/internal/model"
	"FashionSync/internal/namecheck"
	"FashionSync/internal/repository"
	"FashionSync/internal/utils/httpclient"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// CrawlService 抓取总编排：渠道并发 → 策略链抽取 → 身份解析 → 落库 → 台账 → 告警
type CrawlService struct {
	cfg         *config.Config
	logger      *logrus.Logger
	engine      *extractor.Engine
	channelRepo repository.ChannelRepository
	listingRepo interfaces.ListingRepository
	crawlRepo   repository.CrawlRepository
	ledger      *LedgerService
	alerts      *AlertService
}

func NewCrawlService(
	cfg *config.Config,
	logger *logrus.Logger,
	channelRepo repository.ChannelRepository,
	listingRepo interfaces.ListingRepository,
	crawlRepo repository.CrawlRepository,
	ledger *LedgerService,
	alerts *AlertService,
) *CrawlService {
	return &CrawlService{
		cfg:         cfg,
		logger:      logger,
		engine:      extractor.NewEngine(&cfg.Crawler, logger),
		channelRepo: channelRepo,
		listingRepo: listingRepo,
		crawlRepo:   crawlRepo,
		ledger:      ledger,
		alerts:      alerts,
	}
}

// channelOutcome 单渠道处理结果
type channelOutcome struct {
	channelID uint64
	status    string
	strategy  string
	found     int
	newCount  int
	errMsg    string
	duration  time.Duration
}

// RunAll 全渠道抓取会话。渠道间并发受MaxConcurrency约束，
// 单渠道失败只记日志不中断会话
func (s *CrawlService) RunAll(ctx context.Context) (*model.CrawlRun, error) {
	channels, err := s.channelRepo.ListActiveChannels(ctx)
	if err != nil {
		return nil, err
	}

	run := &model.CrawlRun{RunUUID: uuid.New().String(), TotalChannels: len(channels)}
	if err := s.crawlRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	log := s.logger.WithField("run_uuid", run.RunUUID)
	log.WithField("channels", len(channels)).Info("抓取会话开始")

	ws, err := s.alerts.LoadWatchSet(ctx)
	if err != nil {
		log.WithError(err).Warn("订阅条件加载失败，本轮不发任何告警")
		ws = &WatchSet{}
	}

	client := httpclient.NewHTTPClient(&s.cfg.Crawler, s.logger)
	session := extractor.NewSession(&s.cfg.Crawler, client, s.logger)

	concurrency := s.cfg.Crawler.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	sem := make(chan struct{}, concurrency)
	outcomes := make(chan channelOutcome, len(channels))
	var wg sync.WaitGroup

	for _, ch := range channels {
		wg.Add(1)
		go func(ch *model.Channel) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes <- s.processChannel(ctx, session, ws, ch)
		}(ch)
	}
	wg.Wait()
	close(outcomes)

	counters := repository.RunCounters{TotalChannels: len(channels)}
	for outcome := range outcomes {
		if outcome.status == "success" {
			counters.DoneChannels++
		} else {
			counters.ErrorChannels++
		}
		counters.NewListings += outcome.newCount
		if err := s.crawlRepo.AppendChannelLog(ctx, &model.CrawlChannelLog{
			RunID:         run.ID,
			ChannelID:     outcome.channelID,
			Status:        outcome.status,
			ListingsFound: outcome.found,
			ListingsNew:   outcome.newCount,
			Strategy:      outcome.strategy,
			ErrorMsg:      outcome.errMsg,
			DurationMs:    outcome.duration.Milliseconds(),
		}); err != nil {
			log.WithError(err).Warn("渠道日志写入失败")
		}
	}

	status := "done"
	if counters.DoneChannels == 0 && counters.ErrorChannels > 0 {
		status = "failed"
	}
	if err := s.crawlRepo.FinishRun(ctx, run.ID, status, counters); err != nil {
		log.WithError(err).Error("会话收尾写入失败")
	}
	log.WithFields(logrus.Fields{
		"done":   counters.DoneChannels,
		"errors": counters.ErrorChannels,
		"new":    counters.NewListings,
	}).Info("抓取会话结束")
	run.Status = status
	run.DoneChannels = counters.DoneChannels
	run.ErrorChannels = counters.ErrorChannels
	run.NewListings = counters.NewListings
	return run, nil
}

// LatestRun 最近一次抓取会话的簿记状态
func (s *CrawlService) LatestRun(ctx context.Context) (*model.CrawlRun, error) {
	return s.crawlRepo.LatestRun(ctx)
}

// processChannel 单渠道全流程。主URL失败时逐个尝试备用host
func (s *CrawlService) processChannel(ctx context.Context, session *extractor.Session, ws *WatchSet, channel *model.Channel) channelOutcome {
	start := time.Now()
	outcome := channelOutcome{channelID: channel.ID, status: "failed"}

	result := s.engine.ExtractChannel(ctx, session, channel)
	if result.Err != "" && len(result.Listings) == 0 {
		for _, altURL := range s.alternateURLs(channel) {
			altChannel := *channel
			altChannel.URL = altURL
			s.logger.WithFields(logrus.Fields{
				"channel": channel.URL,
				"alt":     altURL,
			}).Info("主host抽取失败，尝试备用host")
			if altResult := s.engine.ExtractChannel(ctx, session, &altChannel); len(altResult.Listings) > 0 {
				result = altResult
				break
			}
		}
	}
	if len(result.Listings) == 0 {
		outcome.errMsg = result.Err
		outcome.duration = time.Since(start)
		return outcome
	}

	outcome.strategy = result.Strategy
	outcome.found = len(result.Listings)
	observedAt := time.Now()

	var seenURLs []string
	for _, raw := range result.Listings {
		isNew, err := s.ingestListing(ctx, ws, channel, raw, observedAt)
		if err != nil {
			s.logger.WithError(err).WithField("url", raw.ProductURL).Warn("单条商品落库失败，跳过")
			continue
		}
		seenURLs = append(seenURLs, raw.ProductURL)
		if isNew {
			outcome.newCount++
		}
	}

	s.ingestBrands(ctx, channel, result.Brands)

	// 本轮没出现的渠道商品软归档
	if archived, err := s.listingRepo.MarkMissingInactive(ctx, channel.ID, seenURLs); err != nil {
		s.logger.WithError(err).WithField("channel", channel.URL).Warn("软归档失败")
	} else if archived > 0 {
		s.logger.WithFields(logrus.Fields{
			"channel":  channel.URL,
			"archived": archived,
		}).Info("缺货商品已软归档")
	}

	outcome.status = "success"
	outcome.duration = time.Since(start)
	return outcome
}

// ingestListing 单条商品：身份解析 → upsert拿旧状态快照 → 台账追加 → 告警判定
func (s *CrawlService) ingestListing(ctx context.Context, ws *WatchSet, channel *model.Channel, raw *model.RawListing, observedAt time.Time) (bool, error) {
	key := identity.Resolve(raw.Vendor, raw.Title, raw.SKU, raw.Tags)
	obs := s.ledger.Compute(ctx, raw, observedAt)

	// vendor能过品牌名校验就关联品牌主数据
	var brandID *uint64
	linkedSlug := ""
	if raw.Vendor != "" && namecheck.Valid(raw.Vendor) {
		if brand, err := s.channelRepo.EnsureBrand(ctx, raw.Vendor, identity.BrandSlug(raw.Vendor)); err == nil {
			brandID = &brand.ID
			linkedSlug = brand.Slug
		} else {
			s.logger.WithError(err).WithField("vendor", raw.Vendor).Warn("品牌关联失败")
		}
	}
	brandSlug := identity.ResolveBrandSlug(linkedSlug, raw.ProductKey, raw.Vendor)

	var tagsJSON datatypes.JSON
	if len(raw.Tags) > 0 {
		if b, err := json.Marshal(raw.Tags); err == nil {
			tagsJSON = b
		}
	}

	channelKey := raw.ProductKey
	if channelKey == "" {
		channelKey = key.NormalizedKey
	}
	listing := &model.Listing{
		ChannelID:   channel.ID,
		BrandID:     brandID,
		Name:        raw.Title,
		Vendor:      raw.Vendor,
		SKU:         raw.SKU,
		ProductKey:  channelKey,
		Gender:      raw.Gender,
		Subcategory: raw.Subcategory,
		Tags:        tagsJSON,
		URL:         raw.ProductURL,
		ImageURL:    raw.ImageURL,
		IsActive:    raw.IsAvailable,
		IsSale:      obs.IsSale,
	}
	// 品牌无法解析时normalized_key留空，不参与跨渠道分组
	if nk := key.NormalizedWith(brandSlug); nk != "" {
		listing.NormalizedKey = &nk
		listing.MatchConfidence = &key.Confidence
	}

	snap, err := s.listingRepo.UpsertWithObservation(ctx, listing, obs)
	if err != nil {
		return false, err
	}

	s.alerts.Dispatch(ctx, s.alerts.Evaluate(ws, channel, listing, snap, obs))
	return !snap.Exists, nil
}

// ingestBrands 品牌候选过校验后入主数据并建立渠道取扱关系
func (s *CrawlService) ingestBrands(ctx context.Context, channel *model.Channel, candidates []model.BrandCandidate) {
	for _, cand := range candidates {
		if !namecheck.Valid(cand.Name) {
			continue
		}
		brand, err := s.channelRepo.EnsureBrand(ctx, cand.Name, identity.BrandSlug(cand.Name))
		if err != nil {
			s.logger.WithError(err).WithField("brand", cand.Name).Warn("品牌入库失败")
			continue
		}
		if err := s.channelRepo.LinkChannelBrand(ctx, channel.ID, brand.ID); err != nil {
			s.logger.WithError(err).WithField("brand", cand.Name).Warn("渠道品牌关系写入失败")
		}
	}
}

// alternateURLs 渠道配置的备用host优先，其次www变体
func (s *CrawlService) alternateURLs(channel *model.Channel) []string {
	var alts []string
	if len(channel.AltHosts) > 0 {
		var configured []string
		if err := json.Unmarshal(channel.AltHosts, &configured); err == nil {
			alts = append(alts, configured...)
		}
	}
	alts = append(alts, extractor.AlternateHosts(channel.URL)...)
	return alts
}
