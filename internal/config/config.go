package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config configurator（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	// StoreTimeout 目录/持久化单次调用的超时上限（超时映射为可重试错误）
	StoreTimeout time.Duration
	// ShareCacheTTL 已保存配置快照在 Redis 中的缓存时长（快照不可变）
	ShareCacheTTL time.Duration
	Quote         QuoteConfig
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// QuoteConfig 外部报价单渲染服务（Document Generator）配置
type QuoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, configurator falls back to
	// in-memory repositories so the configuration flow still works end to end.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "endera")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.StoreTimeout = parseDuration(getEnv("STORE_TIMEOUT", "5s"), 5*time.Second)
	cfg.ShareCacheTTL = parseDuration(getEnv("SHARE_CACHE_TTL", "24h"), 24*time.Hour)

	// 报价单渲染服务配置（留空则不注册 quote 路由）
	cfg.Quote.BaseURL = getEnv("QUOTE_SERVICE_URL", "")
	cfg.Quote.Timeout = parseDuration(getEnv("QUOTE_SERVICE_TIMEOUT", "30s"), 30*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
