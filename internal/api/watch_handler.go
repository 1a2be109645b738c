package api

import (
	"net/http"
	"strconv"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WatchHandler struct {
	watchRepo repository.WatchRepository
	logger    *logrus.Logger
}

func NewWatchHandler(watchRepo repository.WatchRepository, logger *logrus.Logger) *WatchHandler {
	return &WatchHandler{watchRepo: watchRepo, logger: logger}
}

// ListWatchItems 订阅条件列表
// @Router /api/watchlist [get]
func (h *WatchHandler) ListWatchItems(c *gin.Context) {
	items, err := h.watchRepo.ListWatchItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

type addWatchRequest struct {
	WatchType  string `json:"watch_type" binding:"required"`
	WatchValue string `json:"watch_value" binding:"required"`
	Notes      string `json:"notes"`
}

// AddWatchItem 新增订阅条件
// @Router /api/watchlist [post]
func (h *WatchHandler) AddWatchItem(c *gin.Context) {
	var req addWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	watchType := model.WatchType(req.WatchType)
	switch watchType {
	case model.WatchBrand, model.WatchChannel, model.WatchProductKey:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "watch_type必须是brand/channel/product_key之一"})
		return
	}

	item := &model.WatchItem{
		WatchType:  watchType,
		WatchValue: req.WatchValue,
		Notes:      req.Notes,
	}
	if err := h.watchRepo.AddWatchItem(c.Request.Context(), item); err != nil {
		h.logger.Errorf("订阅条件写入失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": item.ID})
}

// RemoveWatchItem 删除订阅条件
// @Router /api/watchlist/{id} [delete]
func (h *WatchHandler) RemoveWatchItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id参数非法"})
		return
	}
	if err := h.watchRepo.RemoveWatchItem(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}
