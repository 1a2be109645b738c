package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Crawler  CrawlerConfig  `mapstructure:"crawler"`  // 抓取配置
	Alert    AlertConfig    `mapstructure:"alert"`    // 告警配置
	Rates    RatesConfig    `mapstructure:"rates"`    // 汇率配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// CrawlerConfig 抓取调度与策略配置
type CrawlerConfig struct {
	RequestDelayMs   int            `mapstructure:"request_delay_ms"`  // 同一渠道内请求最小间隔（毫秒）
	TimeoutSeconds   int            `mapstructure:"timeout_seconds"`   // 单请求超时（秒）
	MaxRetries       int            `mapstructure:"max_retries"`       // 瞬时错误最大重试次数
	MaxConcurrency   int            `mapstructure:"max_concurrency"`   // 跨渠道并发数
	ShopifyMaxPages  int            `mapstructure:"shopify_max_pages"` // Shopify 分页上限（250条/页）
	Cafe24MaxPages   int            `mapstructure:"cafe24_max_pages"`  // Cafe24 单分类分页上限
	StrategyCeilings map[string]int `mapstructure:"strategy_ceilings"` // 各策略结果数上限，超出视为噪声
	Proxy            string         `mapstructure:"proxy"`             // 代理地址（可选）
	Overrides        []OverrideRule `mapstructure:"overrides"`         // 渠道专属选择器覆盖表
}

// OverrideRule 单条渠道覆盖规则：通用启发式失效时的显式选择器配置
type OverrideRule struct {
	HostContains string `mapstructure:"host_contains"` // 命中条件：URL包含该子串
	ListURL      string `mapstructure:"list_url"`      // 显式目录页URL
	ItemSelector string `mapstructure:"item_selector"` // 商品/品牌链接选择器
}

// AlertConfig 告警配置
type AlertConfig struct {
	DiscordWebhookURL string  `mapstructure:"discord_webhook_url"` // Discord webhook 地址
	PriceDropRate     float64 `mapstructure:"price_drop_rate"`     // 降价告警阈值（比例，如0.1=10%）
}

// RatesConfig 汇率刷新配置
type RatesConfig struct {
	APIURL         string `mapstructure:"api_url"`         // 汇率API地址（KRW基准）
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 请求超时（秒）
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alert.DiscordWebhookURL = v
	}
	if v := os.Getenv("CRAWLER_PROXY"); v != "" {
		cfg.Crawler.Proxy = v
	}
}

// applyDefaults 缺省值兜底，保证核心参数恒为合法
func applyDefaults(cfg *Config) {
	if cfg.Crawler.RequestDelayMs <= 0 {
		cfg.Crawler.RequestDelayMs = 1000
	}
	if cfg.Crawler.TimeoutSeconds <= 0 {
		cfg.Crawler.TimeoutSeconds = 15
	}
	if cfg.Crawler.MaxRetries <= 0 {
		cfg.Crawler.MaxRetries = 3
	}
	if cfg.Crawler.MaxConcurrency <= 0 {
		cfg.Crawler.MaxConcurrency = 4
	}
	if cfg.Crawler.ShopifyMaxPages <= 0 {
		cfg.Crawler.ShopifyMaxPages = 16
	}
	if cfg.Crawler.Cafe24MaxPages <= 0 {
		cfg.Crawler.Cafe24MaxPages = 80
	}
	if cfg.Alert.PriceDropRate <= 0 {
		cfg.Alert.PriceDropRate = 0.10
	}
	if cfg.Rates.APIURL == "" {
		cfg.Rates.APIURL = "https://open.er-api.com/v6/latest/KRW"
	}
	if cfg.Rates.TimeoutSeconds <= 0 {
		cfg.Rates.TimeoutSeconds = 10
	}
}
