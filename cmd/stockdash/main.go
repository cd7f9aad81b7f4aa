package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"StockDash/internal/api"
	"StockDash/internal/config"
	"StockDash/internal/dashboard"
	"StockDash/internal/notifier"
	"StockDash/internal/recorder"
	"StockDash/internal/scheduler"
	"StockDash/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// The terminal belongs to the UI from here on
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		log.Fatalf("[FATAL] create log dir: %v", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "")
	if err != nil {
		log.Fatalf("[FATAL] open log file: %v", err)
	}
	defer logFile.Close()
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockDash starting...")

	client := api.NewClient(cfg.API.BaseURL, cfg.Proxy, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	log.Printf("[INFO] data source: %s", client.BaseURL)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	surface := tui.NewSurface(ctx, tui.Options{
		ChartDir:     cfg.Dashboard.ChartDir,
		ChartWidth:   cfg.Dashboard.ChartWidth,
		ChartHeight:  cfg.Dashboard.ChartHeight,
		Ranges:       cfg.Dashboard.Ranges,
		DefaultRange: cfg.Dashboard.DefaultRange,
		Recent:       recentSymbols(rec, 5),
	})

	widgets := surface.Widgets()
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		mirror := notifier.NewMirror(ctx, surface.Alerts, tn)
		defer mirror.Wait()
		widgets.Alerts = mirror
		log.Println("[INFO] alerts mirrored to Telegram")
	}

	ctrl, err := dashboard.NewController(ctx, client, widgets, rec)
	if err != nil {
		log.Fatalf("[FATAL] init dashboard: %v", err)
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, ctrl, client, rec)
	if err := sched.RegisterAll(cfg.Schedule.ReloadCron, cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("REFRESH_ON_START") == "true" {
		log.Println("[INFO] REFRESH_ON_START enabled, requesting refresh now")
		go sched.RunRefreshNow()
	}

	p := tea.NewProgram(tui.NewModel(surface, ctrl.Ready), tea.WithAltScreen(), tea.WithContext(ctx))
	tui.Attach(surface, p)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] program exited: %v", err)
	}

	log.Println("[INFO] shutting down...")
	stop()
	log.Println("[INFO] StockDash stopped")
}

func recentSymbols(rec recorder.Recorder, limit int) []string {
	views, err := rec.RecentViews(limit * 4)
	if err != nil {
		log.Printf("[WARN] load recent views: %v", err)
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, v := range views {
		if seen[v.Symbol] {
			continue
		}
		seen[v.Symbol] = true
		out = append(out, v.Symbol)
		if len(out) == limit {
			break
		}
	}
	return out
}
