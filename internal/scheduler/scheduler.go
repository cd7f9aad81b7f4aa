package scheduler

import (
	"context"
	"fmt"
	"log"

	"StockDash/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Reloader reloads the chart currently on screen.
type Reloader interface {
	ReloadSelected()
}

// Refresher asks the backend to regenerate its data.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages the dashboard's periodic jobs.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard Reloader
	API       Refresher
	Recorder  recorder.Recorder
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, dash Reloader, api Refresher, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Dashboard: dash,
		API:       api,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the reload and refresh jobs. Empty specs are skipped.
func (s *Scheduler) RegisterAll(reloadCron, refreshCron string) error {
	if reloadCron != "" {
		if _, err := s.Cron.AddFunc(reloadCron, s.reloadTask); err != nil {
			return fmt.Errorf("register reload task: %w", err)
		}
		log.Printf("[INFO] auto reload scheduled: %s", reloadCron)
	}
	if refreshCron != "" {
		if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
		log.Printf("[INFO] server refresh scheduled: %s", refreshCron)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately.
func (s *Scheduler) RunRefreshNow() error {
	return s.refresh()
}

func (s *Scheduler) reloadTask() {
	if s.Ctx.Err() != nil {
		return
	}
	log.Println("[INFO] running scheduled reload")
	s.Dashboard.ReloadSelected()
}

func (s *Scheduler) refreshTask() {
	if s.Ctx.Err() != nil {
		return
	}
	if err := s.refresh(); err != nil {
		log.Printf("[ERROR] scheduled refresh: %v", err)
	}
}

func (s *Scheduler) refresh() error {
	log.Println("[INFO] running scheduled server refresh")
	err := s.API.Refresh(s.Ctx)

	evt := &recorder.RefreshEvent{Source: "scheduled", OK: err == nil}
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := s.Recorder.RecordRefresh(evt); rerr != nil {
		log.Printf("[ERROR] record refresh: %v", rerr)
	}
	return err
}
