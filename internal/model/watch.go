package model

import "time"

// WatchType 订阅条件类型
type WatchType string

const (
	WatchBrand      WatchType = "brand"       // 按品牌slug订阅
	WatchChannel    WatchType = "channel"     // 按渠道URL订阅
	WatchProductKey WatchType = "product_key" // 按商品键订阅
)

// WatchItem 订阅条件 — 告警的放行谓词。对核心引擎只读。
// 订阅表为空时不发任何告警（fail-closed）。
type WatchItem struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	WatchType  WatchType `gorm:"column:watch_type;type:varchar(50);not null;uniqueIndex:uq_watch_item"`
	WatchValue string    `gorm:"column:watch_value;type:varchar(300);not null;uniqueIndex:uq_watch_item"`
	Notes      string    `gorm:"column:notes;type:text;comment:备注"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (WatchItem) TableName() string { return "watch_items" }
