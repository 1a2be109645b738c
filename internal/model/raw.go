package model

// RawListing 所有策略的统一抽取输出。
// 价格保持源通货原值，换算与入库是 service 层的事。
type RawListing struct {
	Title          string   // 商品名
	Vendor         string   // 品牌名（Shopify vendor 字段等）
	Handle         string   // 渠道内商品 slug / 商品编号
	ProductType    string   // 渠道商品类型（可空）
	Price          float64  // 现价（含打折价，源通货）
	ComparePrice   *float64 // 定价（打折中时，源通货）
	Currency       string   // 源通货代码（子域名/国家推断）
	SKU            string   // 厂商SKU（可空）
	ImageURL       string   // 首图URL
	Tags           []string // 自由标签
	ProductURL     string   // 商品URL（身份锚点）
	ProductKey     string   // 渠道内键 "brand-slug:handle"
	IsAvailable    bool     // 在售/有货
	Gender         string   // men/women/unisex/kids
	Subcategory    string   // shoes/outer/…（可空）
}

// BrandCandidate 策略在目录发现阶段抽出的品牌名候选（未经校验）
type BrandCandidate struct {
	Name string // 展示名原文
	URL  string // 品牌目录页URL（可空）
}

// ExtractResult 单渠道单策略的抽取结果
type ExtractResult struct {
	ChannelURL string           // 渠道主页URL
	Strategy   string           // 产出结果的策略名
	Listings   []*RawListing    // 商品候选
	Brands     []BrandCandidate // 品牌名候选（已通过名称校验器）
	Err        string           // 所有策略耗尽后的渠道级错误串（非致命）
}
