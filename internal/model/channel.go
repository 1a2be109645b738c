package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChannelType 渠道类型枚举
type ChannelType string

const (
	ChannelBrandStore ChannelType = "brand-store" // 品牌官方店
	ChannelEditShop   ChannelType = "edit-shop"   // 多品牌买手店
	ChannelUnknown    ChannelType = "unknown"
)

// PlatformHint 渠道建站平台提示（决定抓取策略的优先尝试顺序）
type PlatformHint string

const (
	PlatformShopify PlatformHint = "shopify"
	PlatformCafe24  PlatformHint = "cafe24"
	PlatformCustom  PlatformHint = "custom"
)

// Channel 销售渠道（编辑店、品牌官方店等）。对核心引擎只读
type Channel struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name        string         `gorm:"column:name;type:varchar(255);not null;comment:渠道展示名"`
	URL         string         `gorm:"column:url;type:varchar(500);uniqueIndex;not null;comment:主页URL"`
	AltHosts    datatypes.JSON `gorm:"column:alt_hosts;type:jsonb;comment:DNS不稳定渠道的备用host有序列表"`
	ChannelType ChannelType    `gorm:"column:channel_type;type:varchar(50);default:unknown;comment:渠道类型"`
	Platform    PlatformHint   `gorm:"column:platform;type:varchar(50);comment:建站平台提示"`
	Country     string         `gorm:"column:country;type:varchar(50);comment:国家代码（KR/US/JP…）"`
	IsActive    bool           `gorm:"column:is_active;type:boolean;default:true;comment:是否启用"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Channel) TableName() string { return "channels" }

// Brand 品牌主数据
type Brand struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name      string    `gorm:"column:name;type:varchar(255);not null;comment:品牌名"`
	Slug      string    `gorm:"column:slug;type:varchar(255);uniqueIndex;not null;comment:URL友好标识"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

func (Brand) TableName() string { return "brands" }

// ChannelBrand 渠道与品牌的取扱关系（抓取结果维护）
type ChannelBrand struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ChannelID uint64    `gorm:"column:channel_id;type:bigint;not null;uniqueIndex:uq_channel_brand"`
	BrandID   uint64    `gorm:"column:brand_id;type:bigint;not null;uniqueIndex:uq_channel_brand"`
	CrawledAt time.Time `gorm:"column:crawled_at;type:timestamp;default:now();comment:最近一次确认时间"`
}

func (ChannelBrand) TableName() string { return "channel_brands" }
