package api

import (
	"net/http"
	"strconv"
	"time"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"
	"FashionSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PurchaseHandler struct {
	purchaseRepo repository.PurchaseRepository
	scoreService *service.ScoreService
	logger       *logrus.Logger
}

func NewPurchaseHandler(purchaseRepo repository.PurchaseRepository, scoreService *service.ScoreService, logger *logrus.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseRepo: purchaseRepo,
		scoreService: scoreService,
		logger:       logger,
	}
}

type createPurchaseRequest struct {
	ProductKey       string `json:"product_key" binding:"required"`
	ProductName      string `json:"product_name" binding:"required"`
	BrandSlug        string `json:"brand_slug"`
	ChannelName      string `json:"channel_name"`
	PaidPriceKRW     int64  `json:"paid_price_krw" binding:"required,gt=0"`
	OriginalPriceKRW *int64 `json:"original_price_krw"`
	PurchasedAt      string `json:"purchased_at"` // RFC3339，缺省为当前时间
	Notes            string `json:"notes"`
}

// CreatePurchase 录入一条购买记录并立即返回评分
// @Router /api/purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req createPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchasedAt := time.Now()
	if req.PurchasedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PurchasedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchased_at须为RFC3339格式"})
			return
		}
		purchasedAt = t
	}

	p := &model.Purchase{
		ProductKey:       req.ProductKey,
		ProductName:      req.ProductName,
		BrandSlug:        req.BrandSlug,
		ChannelName:      req.ChannelName,
		PaidPriceKRW:     req.PaidPriceKRW,
		OriginalPriceKRW: req.OriginalPriceKRW,
		PurchasedAt:      purchasedAt,
		Notes:            req.Notes,
	}
	if err := h.purchaseRepo.CreatePurchase(c.Request.Context(), p); err != nil {
		h.logger.Errorf("购买记录写入失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	score, err := h.scoreService.ScorePurchase(c.Request.Context(), p)
	if err != nil {
		h.logger.Errorf("购买评分失败: %v", err)
		c.JSON(http.StatusOK, gin.H{"id": p.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "score": score})
}

// ListPurchases 购买记录列表
// @Router /api/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	purchases, err := h.purchaseRepo.ListPurchases(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(purchases), "items": purchases})
}

// ScorePurchase 对已有购买记录重新评分（市场价变动后复查）
// @Router /api/purchases/{id}/score [get]
func (h *PurchaseHandler) ScorePurchase(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id参数非法"})
		return
	}
	p, err := h.purchaseRepo.GetPurchaseByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "购买记录不存在"})
		return
	}
	score, err := h.scoreService.ScorePurchase(c.Request.Context(), p)
	if err != nil {
		h.logger.Errorf("购买评分失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, score)
}
