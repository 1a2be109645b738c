package model

import "time"

// Purchase 用户真实购买记录。对评分器只读。
// 商品名/渠道名为购买时点快照，不随后续抓取变动。
type Purchase struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ProductKey       string    `gorm:"column:product_key;type:varchar(300);index;not null;comment:商品键"`
	ProductName      string    `gorm:"column:product_name;type:varchar(500);not null;comment:购买时点商品名快照"`
	BrandSlug        string    `gorm:"column:brand_slug;type:varchar(200);comment:品牌slug"`
	ChannelName      string    `gorm:"column:channel_name;type:varchar(200);comment:渠道名快照"`
	PaidPriceKRW     int64     `gorm:"column:paid_price_krw;type:bigint;not null;comment:实付金额（KRW）"`
	OriginalPriceKRW *int64    `gorm:"column:original_price_krw;type:bigint;comment:定价（若有）"`
	PurchasedAt      time.Time `gorm:"column:purchased_at;type:timestamp;default:now();comment:购买时间"`
	Notes            string    `gorm:"column:notes;type:text;comment:备注（颜色、尺码等）"`
	CreatedAt        time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (Purchase) TableName() string { return "purchases" }
