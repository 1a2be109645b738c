package api

import (
	"net/http"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ChannelHandler struct {
	channelRepo repository.ChannelRepository
	logger      *logrus.Logger
}

func NewChannelHandler(channelRepo repository.ChannelRepository, logger *logrus.Logger) *ChannelHandler {
	return &ChannelHandler{channelRepo: channelRepo, logger: logger}
}

// ListChannels 启用中的渠道列表
// @Router /api/channels [get]
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	channels, err := h.channelRepo.ListActiveChannels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(channels), "items": channels})
}

type createChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	URL         string `json:"url" binding:"required,url"`
	ChannelType string `json:"channel_type"`
	Platform    string `json:"platform"`
	Country     string `json:"country"`
}

// CreateChannel 新增渠道
// @Router /api/channels [post]
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch := &model.Channel{
		Name:        req.Name,
		URL:         req.URL,
		ChannelType: model.ChannelType(req.ChannelType),
		Platform:    model.PlatformHint(req.Platform),
		Country:     req.Country,
		IsActive:    true,
	}
	if ch.ChannelType == "" {
		ch.ChannelType = model.ChannelUnknown
	}
	if err := h.channelRepo.CreateChannel(c.Request.Context(), ch); err != nil {
		h.logger.Errorf("渠道创建失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": ch.ID})
}
