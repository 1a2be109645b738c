package repository

import (
	"context"
	"time"

	"FashionSync/internal/model"

	"gorm.io/gorm"
)

// CrawlRepository 抓取会话簿记仓储
type CrawlRepository interface {
	CreateRun(ctx context.Context, run *model.CrawlRun) error
	FinishRun(ctx context.Context, runID uint64, status string, counters RunCounters) error
	AppendChannelLog(ctx context.Context, log *model.CrawlChannelLog) error
	LatestRun(ctx context.Context) (*model.CrawlRun, error)
}

// RunCounters 会话收尾时的累计计数
type RunCounters struct {
	TotalChannels int
	DoneChannels  int
	ErrorChannels int
	NewListings   int
}

type crawlRepository struct {
	db *gorm.DB
}

func NewCrawlRepository(db *gorm.DB) CrawlRepository {
	return &crawlRepository{db: db}
}

func (r *crawlRepository) CreateRun(ctx context.Context, run *model.CrawlRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Status = "running"
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *crawlRepository) FinishRun(ctx context.Context, runID uint64, status string, counters RunCounters) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.CrawlRun{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"finished_at":    &now,
			"status":         status,
			"total_channels": counters.TotalChannels,
			"done_channels":  counters.DoneChannels,
			"error_channels": counters.ErrorChannels,
			"new_listings":   counters.NewListings,
		}).Error
}

func (r *crawlRepository) AppendChannelLog(ctx context.Context, log *model.CrawlChannelLog) error {
	if log.CrawledAt.IsZero() {
		log.CrawledAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *crawlRepository) LatestRun(ctx context.Context) (*model.CrawlRun, error) {
	var run model.CrawlRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
