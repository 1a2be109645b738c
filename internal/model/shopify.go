package model

// ========== Shopify 公开目录 API 响应结构（GET /products.json?limit=250&page=N） ==========

// ShopifyProductsResponse GET /products.json 的根响应
type ShopifyProductsResponse struct {
	Products []ShopifyProduct `json:"products"`
}

// ShopifyProduct 单条商品
type ShopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        interface{}      `json:"tags"` // 数组或逗号分隔字符串，两种形态都存在
	Variants    []ShopifyVariant `json:"variants"`
	Images      []ShopifyImage   `json:"images"`
}

// ShopifyVariant 单个变体（价格/SKU/库存在变体上）
type ShopifyVariant struct {
	ID             int64  `json:"id"`
	SKU            string `json:"sku"`
	Price          string `json:"price"`            // 字符串格式，如 "129000.00"
	CompareAtPrice string `json:"compare_at_price"` // 定价（可空字符串）
	Available      bool   `json:"available"`
}

// ShopifyImage 商品图
type ShopifyImage struct {
	Src string `json:"src"`
}

// ShopifyShopResponse GET /shop.json 的根响应（实际通货查询用）
type ShopifyShopResponse struct {
	Shop struct {
		Currency string `json:"currency"`
	} `json:"shop"`
}
