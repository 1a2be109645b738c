// Package extractor 多策略商品抽取引擎。
// 策略通过init注册，引擎按优先级逐个探测，首个成功的策略独占该渠道
package extractor

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"FashionSync/internal/config"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// subdomainCurrency 子域名→币种推断（国际站常用 kr./jp./us. 前缀区分结算币）
var subdomainCurrency = map[string]string{
	"kr": "KRW", "jp": "JPY", "us": "USD", "uk": "GBP",
	"eu": "EUR", "cn": "CNY", "hk": "HKD", "tw": "TWD",
}

// countryCurrency 渠道国家→币种推断，子域名未命中时的兜底
var countryCurrency = map[string]string{
	"KR": "KRW", "JP": "JPY", "US": "USD", "GB": "GBP",
	"FR": "EUR", "DE": "EUR", "IT": "EUR", "ES": "EUR",
	"CN": "CNY", "HK": "HKD", "TW": "TWD", "CA": "CAD", "AU": "AUD",
}

// Session 单次抓取会话：限速器、HTTP客户端与去重集合都以会话为生命周期，避免全局状态。
// 实现interfaces.Fetcher，策略通过它发出所有请求
type Session struct {
	cfg    *config.CrawlerConfig
	client *http.Client
	logger *logrus.Logger
	delay  time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	seenURLs map[string]struct{}
	seenKeys map[string]struct{}
}

func NewSession(cfg *config.CrawlerConfig, client *http.Client, logger *logrus.Logger) *Session {
	delay := time.Duration(cfg.RequestDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Session{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		delay:    delay,
		limiters: make(map[string]*rate.Limiter),
		seenURLs: make(map[string]struct{}),
		seenKeys: make(map[string]struct{}),
	}
}

// Wait 阻塞到该host下一次请求配额可用。
// 限速按host隔离：同一目标站内串行保持最小间隔，渠道之间互不拖慢
func (s *Session) Wait(ctx context.Context, host string) error {
	return s.limiterFor(host).Wait(ctx)
}

func (s *Session) limiterFor(host string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(s.delay), 1)
		s.limiters[host] = lim
	}
	return lim
}

// MarkURL 记录已抓URL，返回是否首次出现（大小写不敏感）
func (s *Session) MarkURL(rawURL string) bool {
	k := strings.ToLower(strings.TrimRight(rawURL, "/"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seenURLs[k]; ok {
		return false
	}
	s.seenURLs[k] = struct{}{}
	return true
}

// MarkKey 记录已出现的商品键，同渠道重复键只保留首条
func (s *Session) MarkKey(channelURL, productKey string) bool {
	k := strings.ToLower(channelURL) + "|" + strings.ToLower(productKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seenKeys[k]; ok {
		return false
	}
	s.seenKeys[k] = struct{}{}
	return true
}

// Get 带指数退避的GET：仅对瞬时错误（网络超时、5xx、429）重试，
// 4xx等确定性失败立即放弃
func (s *Session) Get(ctx context.Context, reqURL string) (*http.Response, error) {
	u, err := url.Parse(reqURL)
	if err != nil {
		return nil, err
	}
	var lastErr error
	maxRetries := s.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Min(float64(time.Second)*math.Pow(2, float64(attempt-1)), float64(15*time.Second)))
			s.logger.WithFields(logrus.Fields{
				"url":     reqURL,
				"attempt": attempt,
				"backoff": backoff.String(),
			}).Debug("请求重试退避中")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := s.Wait(ctx, u.Host); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			if !isTransient(err) {
				return nil, err
			}
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = errors.New("server returned " + resp.Status)
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

// isTransient 网络层瞬时错误判定
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// InferCurrency 币种推断链：子域名 > 渠道国家 > KRW兜底
func InferCurrency(channelURL, country string) string {
	if u, err := url.Parse(channelURL); err == nil {
		host := strings.ToLower(u.Hostname())
		if parts := strings.Split(host, "."); len(parts) >= 3 {
			if cur, ok := subdomainCurrency[parts[0]]; ok {
				return cur
			}
		}
	}
	if cur, ok := countryCurrency[strings.ToUpper(country)]; ok {
		return cur
	}
	return "KRW"
}

// AlternateHosts 生成同站备选host：www有无互换。主host连不通时逐个重试
func AlternateHosts(channelURL string) []string {
	u, err := url.Parse(channelURL)
	if err != nil {
		return nil
	}
	var alts []string
	host := u.Hostname()
	if strings.HasPrefix(host, "www.") {
		alt := *u
		alt.Host = strings.TrimPrefix(host, "www.")
		alts = append(alts, alt.String())
	} else {
		alt := *u
		alt.Host = "www." + host
		alts = append(alts, alt.String())
	}
	return alts
}
