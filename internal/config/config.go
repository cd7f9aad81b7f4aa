package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Dashboard struct {
		Ranges       []int  `yaml:"ranges"`
		DefaultRange int    `yaml:"default_range"`
		ChartDir     string `yaml:"chart_dir"`
		ChartWidth   int    `yaml:"chart_width"`
		ChartHeight  int    `yaml:"chart_height"`
	} `yaml:"dashboard"`
	Schedule struct {
		ReloadCron  string `yaml:"reload_cron"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy   string `yaml:"proxy"`
	LogFile string `yaml:"log_file"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	// Environment variable overrides
	if v := os.Getenv("STOCKDASH_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STOCKDASH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CHART_DIR"); v != "" {
		cfg.Dashboard.ChartDir = v
	}
	if v := os.Getenv("CRON_RELOAD"); v != "" {
		cfg.Schedule.ReloadCron = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 30
	}
	if len(cfg.Dashboard.Ranges) == 0 {
		cfg.Dashboard.Ranges = []int{30, 90, 180, 365}
	}
	if cfg.Dashboard.DefaultRange == 0 {
		cfg.Dashboard.DefaultRange = 90
	}
	if cfg.Dashboard.ChartDir == "" {
		cfg.Dashboard.ChartDir = "data/charts"
	}
	if cfg.Dashboard.ChartWidth == 0 {
		cfg.Dashboard.ChartWidth = 1024
	}
	if cfg.Dashboard.ChartHeight == 0 {
		cfg.Dashboard.ChartHeight = 400
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockdash.db"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "data/stockdash.log"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative")
	}
	found := false
	for _, r := range c.Dashboard.Ranges {
		if r <= 0 {
			return fmt.Errorf("dashboard.ranges must be positive, got %d", r)
		}
		if r == c.Dashboard.DefaultRange {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("dashboard.default_range %d is not one of %v", c.Dashboard.DefaultRange, c.Dashboard.Ranges)
	}
	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		return fmt.Errorf("dashboard chart size must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether alerts should be mirrored to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
