package model

import (
	"time"

	"gorm.io/datatypes"
)

// Listing 单个渠道上观测到的一个商品条目。
// URL 是身份锚点：同一 URL 永远对应同一条记录，之后的每次观测原地更新。
// 缺货时仅软归档（is_active=false），从不物理删除。
type Listing struct {
	ID              uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	ChannelID       uint64         `gorm:"column:channel_id;type:bigint;index;not null;comment:关联渠道ID"`
	BrandID         *uint64        `gorm:"column:brand_id;type:bigint;index;comment:关联品牌ID（可空）"`
	Name            string         `gorm:"column:name;type:varchar(500);not null;comment:商品名"`
	Vendor          string         `gorm:"column:vendor;type:varchar(255);comment:渠道原始vendor字符串"`
	SKU             string         `gorm:"column:sku;type:varchar(255);comment:厂商SKU"`
	ProductKey      string         `gorm:"column:product_key;type:varchar(300);index;comment:渠道内键 brand-slug:handle"`
	NormalizedKey   *string        `gorm:"column:normalized_key;type:varchar(300);index;comment:跨渠道归一化键（可空）"`
	MatchConfidence *float64       `gorm:"column:match_confidence;type:numeric(3,2);comment:归一化键置信度 0.0~1.0"`
	Gender          string         `gorm:"column:gender;type:varchar(20);comment:men/women/unisex/kids"`
	Subcategory     string         `gorm:"column:subcategory;type:varchar(100);comment:shoes/outer/top/…"`
	Tags            datatypes.JSON `gorm:"column:tags;type:jsonb;comment:渠道自由标签"`
	URL             string         `gorm:"column:url;type:varchar(1000);uniqueIndex;not null;comment:商品URL（唯一身份锚点）"`
	ImageURL        string         `gorm:"column:image_url;type:varchar(1000);comment:商品图URL"`
	IsActive        bool           `gorm:"column:is_active;type:boolean;default:true;comment:在售标记，缺货时软归档"`
	IsNew           bool           `gorm:"column:is_new;type:boolean;default:false;comment:本轮首次出现"`
	IsSale          bool           `gorm:"column:is_sale;type:boolean;default:false;comment:当前是否在打折"`
	CreatedAt       time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Listing) TableName() string { return "listings" }

// ListingSnapshot 更新前的状态快照。
// 告警判定必须基于更新前的值，而 upsert 是破坏性的原地更新，
// 所以在写入前由 repository 捕获并返回。
type ListingSnapshot struct {
	Exists    bool    // 该 URL 之前是否已有记录
	IsSale    bool    // 更新前的打折状态
	IsActive  bool    // 更新前的在售状态
	LastPrice float64 // 最近一次观测价（KRW），0 表示无历史
}
