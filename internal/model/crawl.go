package model

import "time"

// CrawlRun 一次完整抓取会话
type CrawlRun struct {
	ID            uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunUUID       string     `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	StartedAt     time.Time  `gorm:"column:started_at;type:timestamp;index;default:now()"`
	FinishedAt    *time.Time `gorm:"column:finished_at;type:timestamp"`
	Status        string     `gorm:"column:status;type:varchar(20);default:running;comment:running/done/failed"`
	TotalChannels int        `gorm:"column:total_channels;type:int;default:0"`
	DoneChannels  int        `gorm:"column:done_channels;type:int;default:0"`
	ErrorChannels int        `gorm:"column:error_channels;type:int;default:0"`
	NewListings   int        `gorm:"column:new_listings;type:int;default:0"`
}

func (CrawlRun) TableName() string { return "crawl_runs" }

// CrawlChannelLog 单渠道抓取结果 — 每渠道一条
type CrawlChannelLog struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	RunID         uint64    `gorm:"column:run_id;type:bigint;index;not null"`
	ChannelID     uint64    `gorm:"column:channel_id;type:bigint;index;not null"`
	Status        string    `gorm:"column:status;type:varchar(20);comment:success/failed/skipped"`
	ListingsFound int       `gorm:"column:listings_found;type:int;default:0"`
	ListingsNew   int       `gorm:"column:listings_new;type:int;default:0"`
	Strategy      string    `gorm:"column:strategy;type:varchar(50);comment:胜出策略名"`
	ErrorMsg      string    `gorm:"column:error_msg;type:varchar(500)"`
	DurationMs    int64     `gorm:"column:duration_ms;type:bigint;default:0"`
	CrawledAt     time.Time `gorm:"column:crawled_at;type:timestamp;default:now()"`
}

func (CrawlChannelLog) TableName() string { return "crawl_channel_logs" }
