package model

import "time"

// PriceObservation 价格观测记录（append-only，不可变）。
// "最新价" 永远由 observed_at 最大值推导，平手时取 id 最大，从不原地改写。
type PriceObservation struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	ListingID     uint64    `gorm:"column:listing_id;type:bigint;index;not null;comment:关联商品ID"`
	Price         float64   `gorm:"column:price;type:numeric(14,2);not null;comment:现价（KRW换算后）"`
	OriginalPrice *float64  `gorm:"column:original_price;type:numeric(14,2);comment:定价（KRW换算后，打折时）"`
	Currency      string    `gorm:"column:currency;type:varchar(10);default:KRW;comment:源通货标签"`
	IsSale        bool      `gorm:"column:is_sale;type:boolean;default:false;comment:original>current 时为真"`
	DiscountRate  *int      `gorm:"column:discount_rate;type:int;comment:折扣率（%，非打折时为空）"`
	ObservedAt    time.Time `gorm:"column:observed_at;type:timestamp;index;not null;comment:观测时间"`
}

func (PriceObservation) TableName() string { return "price_observations" }

// ExchangeRate 通货汇率（→ KRW 基准），外部采集、核心只消费
type ExchangeRate struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	FromCurrency string    `gorm:"column:from_currency;type:varchar(3);not null;uniqueIndex:uq_currency_pair"`
	ToCurrency   string    `gorm:"column:to_currency;type:varchar(3);not null;default:KRW;uniqueIndex:uq_currency_pair"`
	Rate         float64   `gorm:"column:rate;type:numeric(18,6);not null;comment:1 外币 = rate KRW"`
	FetchedAt    time.Time `gorm:"column:fetched_at;type:timestamp;default:now();comment:采集时间"`
}

func (ExchangeRate) TableName() string { return "exchange_rates" }
