package api

import (
	"net/http"
	"strconv"

	"FashionSync/internal/interfaces"
	"FashionSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SalesHandler struct {
	priceRepo   repository.PriceQueryRepository
	listingRepo interfaces.ListingRepository
	logger      *logrus.Logger
}

func NewSalesHandler(priceRepo repository.PriceQueryRepository, listingRepo interfaces.ListingRepository, logger *logrus.Logger) *SalesHandler {
	return &SalesHandler{priceRepo: priceRepo, listingRepo: listingRepo, logger: logger}
}

// ListSales 当前打折中的全部商品
// @Summary 打折中商品列表
// @Router /api/sales [get]
func (h *SalesHandler) ListSales(c *gin.Context) {
	rows, err := h.priceRepo.CurrentSaleListings(c.Request.Context())
	if err != nil {
		h.logger.Errorf("打折商品查询失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "items": rows})
}

// ListingHistory 单个商品的价格历史，days限定时间窗口（0=全部）
// @Summary 商品价格历史
// @Router /api/listings/{id}/prices [get]
func (h *SalesHandler) ListingHistory(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的商品ID"})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	rows, err := h.priceRepo.HistoryByListing(c.Request.Context(), listingID, days)
	if err != nil {
		h.logger.Errorf("价格历史查询失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing_id": listingID, "count": len(rows), "items": rows})
}

// LatestPrice 单个商品的最新一条观测
// @Summary 商品最新价格
// @Router /api/listings/{id}/prices/latest [get]
func (h *SalesHandler) LatestPrice(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的商品ID"})
		return
	}

	obs, err := h.priceRepo.LatestByListing(c.Request.Context(), listingID)
	if err != nil {
		h.logger.Errorf("最新价格查询失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if obs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "该商品暂无观测记录"})
		return
	}
	c.JSON(http.StatusOK, obs)
}

// ListingsByKey 某个归一化键名下的全部在售商品
// @Summary 按键名查商品
// @Router /api/listings [get]
func (h *SalesHandler) ListingsByKey(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少key参数"})
		return
	}
	rows, err := h.listingRepo.FindByNormalizedKey(c.Request.Context(), key)
	if err != nil {
		h.logger.Errorf("商品查询失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "count": len(rows), "items": rows})
}
