package api

import (
	"net/http"
	"strconv"

	"FashionSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CompareHandler struct {
	compareService *service.CompareService
	logger         *logrus.Logger
}

func NewCompareHandler(compareService *service.CompareService, logger *logrus.Logger) *CompareHandler {
	return &CompareHandler{compareService: compareService, logger: logger}
}

// CompareByKey 单商品跨渠道比价
// @Summary 按归一化键比价
// @Param key path string true "归一化键（brand-slug:code）"
// @Router /api/compare/{key} [get]
func (h *CompareHandler) CompareByKey(c *gin.Context) {
	key := c.Param("key")
	cmp, err := h.compareService.ByKey(c.Request.Context(), key)
	if err != nil {
		h.logger.Errorf("比价查询失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cmp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "该商品键没有在售报价"})
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// Sweep 全量价差扫描
// @Summary 跨渠道价差显著的商品列表
// @Param min_channels query int false "最少渠道数（默认2）"
// @Param min_spread_pct query number false "最低价差比例（默认0.1）"
// @Router /api/compare/sweep [get]
func (h *CompareHandler) Sweep(c *gin.Context) {
	minChannels, _ := strconv.Atoi(c.DefaultQuery("min_channels", "2"))
	minSpreadPct, err := strconv.ParseFloat(c.DefaultQuery("min_spread_pct", "0.1"), 64)
	if err != nil || minSpreadPct < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_spread_pct参数非法"})
		return
	}

	result, err := h.compareService.Sweep(c.Request.Context(), minChannels, minSpreadPct)
	if err != nil {
		h.logger.Errorf("比价扫描失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(result), "items": result})
}
