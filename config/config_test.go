package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "0.0.0.0", config.WebHost)
	assert.Equal(t, 5000, config.WebPort)
	assert.Equal(t, "sqlite", config.DatabaseDriver)
	assert.Equal(t, "auctions.db", config.DatabasePath)
	assert.Equal(t, 30*time.Minute, config.CheckInterval)
	assert.Equal(t, 5, config.MaxPagesCheck)
	assert.Equal(t, 10, config.MaxPagesFull)
	assert.Equal(t, time.Second, config.PageDelay)
	assert.Equal(t, 20*time.Second, config.RenderWait)
	assert.Equal(t, "https://torgi.gov.ru/new/api/public/lots/search", config.APIURL)
	assert.Empty(t, config.TelegramBotToken)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	os.Setenv("WEB_PORT", "8080")
	os.Setenv("CHECK_INTERVAL_MINUTES", "15")
	os.Setenv("MAX_PAGES_CHECK", "3")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	os.Setenv("TELEGRAM_CHAT_ID", "-100123")

	config = LoadConfig()
	assert.Equal(t, 8080, config.WebPort)
	assert.Equal(t, "0.0.0.0:8080", config.WebAddr())
	assert.Equal(t, 15*time.Minute, config.CheckInterval)
	assert.Equal(t, 3, config.MaxPagesCheck)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, int64(-100123), config.TelegramChatID)

	// Clean up
	os.Unsetenv("WEB_PORT")
	os.Unsetenv("CHECK_INTERVAL_MINUTES")
	os.Unsetenv("MAX_PAGES_CHECK")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("MEMCACHE_ADDR")
	os.Unsetenv("TELEGRAM_CHAT_ID")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.WebPort = 0 }, "WEB_PORT"},
		{"zero interval", func(c *Config) { c.CheckInterval = 0 }, "CHECK_INTERVAL_MINUTES"},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "DATABASE_DRIVER"},
		{"token without chat", func(c *Config) { c.TelegramBotToken = "1:abc" }, "TELEGRAM_CHAT_ID"},
		{"relative base url", func(c *Config) { c.BaseURL = "/lots" }, "TORGI_BASE_URL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := LoadConfig()
			tc.mutate(c)
			err := c.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
