package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" || cfg.API.TimeoutSeconds != 30 {
		t.Errorf("unexpected api defaults %+v", cfg.API)
	}
	if cfg.Dashboard.DefaultRange != 90 || len(cfg.Dashboard.Ranges) != 4 {
		t.Errorf("unexpected dashboard defaults %+v", cfg.Dashboard)
	}
	if cfg.Schedule.ReloadCron != "" || cfg.Schedule.RefreshCron != "" {
		t.Error("schedules must be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram must be disabled by default")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://stocks.internal:9000
dashboard:
  ranges: [7, 30]
  default_range: 30
schedule:
  reload_cron: "0 */5 * * * *"
telegram:
  bot_token: file-token
  chat_id: "42"
`)
	t.Setenv("STOCKDASH_BASE_URL", "https://api.example.com")
	t.Setenv("SQLITE_PATH", "/tmp/history.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("env override not applied: %s", cfg.API.BaseURL)
	}
	if cfg.Database.SQLitePath != "/tmp/history.db" {
		t.Errorf("unexpected sqlite path %s", cfg.Database.SQLitePath)
	}
	if cfg.Schedule.ReloadCron != "0 */5 * * * *" {
		t.Errorf("unexpected reload cron %q", cfg.Schedule.ReloadCron)
	}
	if cfg.Dashboard.DefaultRange != 30 {
		t.Errorf("unexpected default range %d", cfg.Dashboard.DefaultRange)
	}
	if !cfg.TelegramEnabled() {
		t.Error("expected telegram enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "api: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "localhost:8000/api" }},
		{"default not in ranges", func(c *Config) { c.Dashboard.DefaultRange = 45 }},
		{"non-positive range", func(c *Config) { c.Dashboard.Ranges = []int{0, 90} }},
		{"bad chart size", func(c *Config) { c.Dashboard.ChartWidth = -1 }},
		{"telegram half configured", func(c *Config) { c.Telegram.BotToken = "token" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
