package api

import (
	"errors"
	"net/http"

	"FashionSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CrawlHandler struct {
	crawlService *service.CrawlService
	logger       *logrus.Logger
}

func NewCrawlHandler(crawlService *service.CrawlService, logger *logrus.Logger) *CrawlHandler {
	return &CrawlHandler{crawlService: crawlService, logger: logger}
}

// RunCrawl 触发一轮全渠道抓取（同步执行，适合cron调用）
// @Summary 全渠道抓取
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /api/crawl/run [post]
func (h *CrawlHandler) RunCrawl(c *gin.Context) {
	run, err := h.crawlService.RunAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf("抓取会话失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_uuid":       run.RunUUID,
		"status":         run.Status,
		"total_channels": run.TotalChannels,
		"done_channels":  run.DoneChannels,
		"error_channels": run.ErrorChannels,
		"new_listings":   run.NewListings,
	})
}

// Status 最近一次抓取会话的状态
// @Summary 抓取状态
// @Success 200 {object} model.CrawlRun
// @Router /api/crawl/status [get]
func (h *CrawlHandler) Status(c *gin.Context) {
	run, err := h.crawlService.LatestRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "还没有抓取会话记录"})
			return
		}
		h.logger.Errorf("抓取状态查询失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}
