package api

import (
	"net/http"

	"FashionSync/internal/repository"
	"FashionSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RatesHandler struct {
	ratesService *service.RatesService
	rateRepo     repository.RateRepository
	logger       *logrus.Logger
}

func NewRatesHandler(ratesService *service.RatesService, rateRepo repository.RateRepository, logger *logrus.Logger) *RatesHandler {
	return &RatesHandler{ratesService: ratesService, rateRepo: rateRepo, logger: logger}
}

// RefreshRates 从外部源刷新全量汇率
// @Router /api/rates/refresh [post]
func (h *RatesHandler) RefreshRates(c *gin.Context) {
	saved, err := h.ratesService.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Errorf("汇率刷新失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// ListRates 当前生效的全部汇率
// @Router /api/rates [get]
func (h *RatesHandler) ListRates(c *gin.Context) {
	rows, err := h.rateRepo.ListRates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "items": rows})
}
