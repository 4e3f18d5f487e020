package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Data providers understood by the fetcher factory.
const (
	ProviderYahoo = "yahoo"
	ProviderREST  = "rest"
	ProviderMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider    string        `yaml:"provider"`
		BaseURL     string        `yaml:"base_url"`
		APIKey      string        `yaml:"api_key"`
		RateLimit   int           `yaml:"rate_limit"`
		Timeout     time.Duration `yaml:"timeout"`
		HistoryDays int           `yaml:"history_days"`
	} `yaml:"data_source"`
	Cache struct {
		QuoteTTL    time.Duration `yaml:"quote_ttl"`
		HistoryTTL  time.Duration `yaml:"history_ttl"`
		MetadataTTL time.Duration `yaml:"metadata_ttl"`
		Namespace   string        `yaml:"namespace"`
		Redis       struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Server    struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Logging struct {
		Level    string `yaml:"level"`
		FilePath string `yaml:"file_path"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	str := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"DATA_PROVIDER":      &c.DataSource.Provider,
		"DATA_BASE_URL":      &c.DataSource.BaseURL,
		"DATA_API_KEY":       &c.DataSource.APIKey,
		"REDIS_ADDR":         &c.Cache.Redis.Addr,
		"REDIS_PASSWORD":     &c.Cache.Redis.Password,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"CRON_DIGEST":        &c.Schedule.DigestCron,
		"SERVER_ADDR":        &c.Server.Addr,
		"LOG_LEVEL":          &c.Logging.Level,
		"HTTPS_PROXY":        &c.Proxy,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Watchlist = append(c.Watchlist, s)
			}
		}
	}
	if v := os.Getenv("QUOTE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.QuoteTTL = d
		}
	}
	if v := os.Getenv("DATA_RATE_LIMIT"); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			c.DataSource.RateLimit = r
		}
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.RateLimit == 0 {
		c.DataSource.RateLimit = 5
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = 300
	}
	if c.Cache.QuoteTTL == 0 {
		c.Cache.QuoteTTL = 60 * time.Second
	}
	if c.Cache.HistoryTTL == 0 {
		c.Cache.HistoryTTL = 15 * time.Minute
	}
	if c.Cache.MetadataTTL == 0 {
		c.Cache.MetadataTTL = 6 * time.Hour
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = "insight"
	}
	if c.Schedule.DigestCron == "" {
		// weekdays after the NSE close
		c.Schedule.DigestCron = "0 45 15 * * 1-5"
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = []string{"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK"}
	}
	for i, s := range c.Watchlist {
		c.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/insight.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// TelegramEnabled reports whether both bot credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, mock", c.DataSource.Provider)
	}
	if c.DataSource.RateLimit < 0 {
		return fmt.Errorf("data_source.rate_limit must not be negative")
	}
	if c.DataSource.HistoryDays < 60 {
		return fmt.Errorf("data_source.history_days must be at least 60")
	}
	if c.Cache.QuoteTTL < 0 || c.Cache.HistoryTTL < 0 || c.Cache.MetadataTTL < 0 {
		return fmt.Errorf("cache ttls must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := CronParser.Parse(c.Schedule.DigestCron); err != nil {
		return fmt.Errorf("schedule.digest_cron: %w", err)
	}
	return nil
}

// CronParser parses six-field schedules with a leading seconds field.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
