// Package ratesapi 外部汇率源客户端。台账核心只消费仓储里的汇率，
// 采集动作由调度或管理接口触发
package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL 免费汇率源，KRW基准一次拿全量
const DefaultBaseURL = "https://open.er-api.com/v6/latest/KRW"

// Client 汇率API客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// Config 汇率客户端配置
type Config struct {
	BaseURL string
	Timeout int // 秒
}

func NewClient(cfg Config, logger *logrus.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := 15 * time.Second
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ratesResponse open.er-api.com 响应体（只取用到的字段）
type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// FetchRatesToKRW 拉取全量汇率并换算为 1 外币 = N KRW 的方向。
// API返回的是 1 KRW = rate 外币，需要取倒数
func (c *Client) FetchRatesToKRW(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("汇率源请求失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("汇率源返回状态%d: %s", resp.StatusCode, string(raw))
	}

	var body ratesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("汇率源响应解析失败: %w", err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("汇率源返回result=%s", body.Result)
	}

	out := make(map[string]float64, len(body.Rates))
	for currency, perKRW := range body.Rates {
		if perKRW <= 0 {
			continue
		}
		out[strings.ToUpper(currency)] = 1 / perKRW
	}
	c.logger.WithField("currencies", len(out)).Info("汇率拉取完成")
	return out, nil
}
