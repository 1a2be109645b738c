// Package notify 告警投递。核心只依赖Sink接口，Discord是默认实现
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Signal 一条待投递的告警信号
type Signal struct {
	Kind        string  // new_listing / sale_onset / price_drop
	Title       string  // 商品名
	ChannelName string  // 渠道展示名
	ProductURL  string  // 商品链接
	Price       float64 // 现价（KRW）
	OldPrice    float64 // 旧价（KRW，price_drop时有值）
	DropRate    float64 // 降价幅度（0~1，price_drop时有值）
	ImageURL    string  // 缩略图
}

// Sink 告警出口。投递失败不影响抓取主流程
type Sink interface {
	Send(ctx context.Context, signal *Signal) error
}

// NoopSink 未配置webhook时的占位实现，只记日志
type NoopSink struct {
	logger *logrus.Logger
}

func NewNoopSink(logger *logrus.Logger) *NoopSink {
	return &NoopSink{logger: logger}
}

func (n *NoopSink) Send(ctx context.Context, signal *Signal) error {
	n.logger.WithFields(logrus.Fields{
		"kind":  signal.Kind,
		"title": signal.Title,
		"price": signal.Price,
	}).Info("告警信号（未配置投递出口，仅记录）")
	return nil
}

// DiscordSink Discord webhook投递
type DiscordSink struct {
	webhookURL string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewDiscordSink(webhookURL string, logger *logrus.Logger) *DiscordSink {
	return &DiscordSink{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// kindTitles 信号类型→消息标题
var kindTitles = map[string]string{
	"new_listing": "🆕 신상품 입고",
	"sale_onset":  "🏷️ 세일 시작",
	"price_drop":  "📉 가격 인하",
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Thumbnail   *discordEmbedImage  `json:"thumbnail,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedImage struct {
	URL string `json:"url"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

// formatWon 千分位逗号的원화금额串
func formatWon(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "원"
	if neg {
		out = "-" + out
	}
	return out
}

func (d *DiscordSink) Send(ctx context.Context, signal *Signal) error {
	head, ok := kindTitles[signal.Kind]
	if !ok {
		head = signal.Kind
	}
	embed := discordEmbed{
		Title:       head,
		Description: signal.Title,
		URL:         signal.ProductURL,
		Color:       0x5865F2,
		Fields: []discordEmbedField{
			{Name: "채널", Value: signal.ChannelName, Inline: true},
			{Name: "가격", Value: formatWon(signal.Price), Inline: true},
		},
	}
	if signal.Kind == "price_drop" && signal.OldPrice > 0 {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   "인하폭",
			Value:  fmt.Sprintf("%s → %s (-%.0f%%)", formatWon(signal.OldPrice), formatWon(signal.Price), signal.DropRate*100),
			Inline: false,
		})
	}
	if signal.ImageURL != "" {
		embed.Thumbnail = &discordEmbedImage{URL: signal.ImageURL}
	}

	body, err := json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return fmt.Errorf("构造webhook负载失败: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook请求失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook返回状态%d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
