package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"lotwatch/torgiwatch/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Web configuration
	WebHost     string
	WebPort     int
	MetricsAddr string

	// Database configuration
	DatabaseDriver string
	DatabasePath   string

	// Telegram configuration
	TelegramBotToken string
	TelegramChatID   int64
	NotifyTimeout    time.Duration

	// Check configuration
	CheckInterval time.Duration
	MaxPagesCheck int
	MaxPagesFull  int
	PageDelay     time.Duration

	// Source configuration
	BaseURL     string
	APIURL      string
	APIPageSize int
	HTTPTimeout time.Duration

	// Rendered DOM configuration
	RenderEnabled bool
	RenderWait    time.Duration
	ChromePath    string

	// Memcache configuration
	MemcacheAddr   string
	RateLimitBlock time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Error journal
	ErrorLogFile string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	webPort, _ := strconv.Atoi(getEnv("WEB_PORT", "5000"))
	chatID, _ := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)
	notifyTimeout, _ := strconv.Atoi(getEnv("NOTIFY_TIMEOUT_SECONDS", "10"))
	checkInterval, _ := strconv.Atoi(getEnv("CHECK_INTERVAL_MINUTES", "30"))
	maxPagesCheck, _ := strconv.Atoi(getEnv("MAX_PAGES_CHECK", "5"))
	maxPagesFull, _ := strconv.Atoi(getEnv("MAX_PAGES_FULL", "10"))
	pageDelay, _ := strconv.Atoi(getEnv("PAGE_DELAY_MS", "1000"))
	apiPageSize, _ := strconv.Atoi(getEnv("API_PAGE_SIZE", "20"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "30"))
	renderEnabled, _ := strconv.ParseBool(getEnv("RENDER_ENABLED", "true"))
	renderWait, _ := strconv.Atoi(getEnv("RENDER_WAIT_SECONDS", "20"))
	rateLimitBlock, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))

	return &Config{
		WebHost:              getEnv("WEB_HOST", "0.0.0.0"),
		WebPort:              webPort,
		MetricsAddr:          os.Getenv("METRICS_ADDR"),
		DatabaseDriver:       getEnv("DATABASE_DRIVER", "sqlite"),
		DatabasePath:         getEnv("DATABASE_PATH", "auctions.db"),
		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:       chatID,
		NotifyTimeout:        time.Duration(notifyTimeout) * time.Second,
		CheckInterval:        time.Duration(checkInterval) * time.Minute,
		MaxPagesCheck:        maxPagesCheck,
		MaxPagesFull:         maxPagesFull,
		PageDelay:            time.Duration(pageDelay) * time.Millisecond,
		BaseURL:              getEnv("TORGI_BASE_URL", "https://torgi.gov.ru/new/public/lots/reg"),
		APIURL:               getEnv("TORGI_API_URL", "https://torgi.gov.ru/new/api/public/lots/search"),
		APIPageSize:          apiPageSize,
		HTTPTimeout:          time.Duration(httpTimeout) * time.Second,
		RenderEnabled:        renderEnabled,
		RenderWait:           time.Duration(renderWait) * time.Second,
		ChromePath:           os.Getenv("CHROME_PATH"),
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		RateLimitBlock:       time.Duration(rateLimitBlock) * time.Second,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "torgi:lots"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLength,
		ErrorLogFile:         os.Getenv("ERROR_LOG_FILE"),
		Environment:          getEnv("TORGI_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for impossible values
func (c *Config) Validate() error {
	var problems []string

	if c.WebPort <= 0 || c.WebPort > 65535 {
		problems = append(problems, fmt.Sprintf("WEB_PORT out of range: %d", c.WebPort))
	}
	if c.CheckInterval <= 0 {
		problems = append(problems, "CHECK_INTERVAL_MINUTES must be positive")
	}
	if c.MaxPagesCheck <= 0 || c.MaxPagesFull <= 0 {
		problems = append(problems, "MAX_PAGES_CHECK and MAX_PAGES_FULL must be positive")
	}
	if c.PageDelay < 0 {
		problems = append(problems, "PAGE_DELAY_MS must not be negative")
	}
	if c.APIPageSize <= 0 {
		problems = append(problems, "API_PAGE_SIZE must be positive")
	}
	if c.HTTPTimeout <= 0 {
		problems = append(problems, "HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "pgx" {
		problems = append(problems, fmt.Sprintf("unsupported DATABASE_DRIVER: %s", c.DatabaseDriver))
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		problems = append(problems, "TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	if c.RedisAddr != "" && c.RedisStreamCount <= 0 {
		problems = append(problems, "REDIS_STREAM_COUNT must be positive")
	}
	for key, raw := range map[string]string{"TORGI_BASE_URL": c.BaseURL, "TORGI_API_URL": c.APIURL} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("%s is not an absolute URL: %q", key, raw))
		}
	}

	if len(problems) > 0 {
		return errors.NewConfiguration(strings.Join(problems, "; "), nil)
	}
	return nil
}

// WebAddr returns the listen address of the web server
func (c *Config) WebAddr() string {
	return fmt.Sprintf("%s:%d", c.WebHost, c.WebPort)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
