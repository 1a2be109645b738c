package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// fakePriceQuery 只实现本测试要用到的方法，其余走嵌入接口的panic
type fakePriceQuery struct {
	repository.PriceQueryRepository
	latest *model.PriceObservation
}

func (f *fakePriceQuery) LatestByListing(_ context.Context, _ uint64) (*model.PriceObservation, error) {
	return f.latest, nil
}

func latestPriceRouter(repo repository.PriceQueryRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	h := NewSalesHandler(repo, nil, logger)
	r := gin.New()
	r.GET("/api/listings/:id/prices/latest", h.LatestPrice)
	return r
}

func TestLatestPrice(t *testing.T) {
	obs := &model.PriceObservation{ID: 3, ListingID: 42, Price: 99000, Currency: "KRW"}
	r := latestPriceRouter(&fakePriceQuery{latest: obs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/42/prices/latest", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	var got model.PriceObservation
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if got.ListingID != 42 || got.Price != 99000 {
		t.Errorf("观测 = %+v", got)
	}
}

func TestLatestPriceNoObservation(t *testing.T) {
	r := latestPriceRouter(&fakePriceQuery{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/42/prices/latest", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("无观测应返回404，得到 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/abc/prices/latest", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("非数字ID应返回400，得到 %d", w.Code)
	}
}
