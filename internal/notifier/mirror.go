package notifier

import (
	"context"
	"log"
	"sync"
	"time"
)

// Alerter shows a user-facing message.
type Alerter interface {
	Alert(msg string)
}

// Mirror shows alerts locally and forwards them to Telegram in the background.
type Mirror struct {
	Local    Alerter
	Telegram *TelegramNotifier
	Ctx      context.Context
	Retries  int

	wg sync.WaitGroup
}

// NewMirror wraps local so every alert is also sent to tn.
func NewMirror(ctx context.Context, local Alerter, tn *TelegramNotifier) *Mirror {
	return &Mirror{Local: local, Telegram: tn, Ctx: ctx, Retries: 3}
}

func (m *Mirror) Alert(msg string) {
	text := FormatAlert(msg, time.Now())
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.Telegram.SendWithRetry(m.Ctx, text, m.Retries); err != nil {
			log.Printf("[ERROR] mirror alert: %v", err)
		}
	}()
	m.Local.Alert(msg)
}

// Wait blocks until pending forwards finish.
func (m *Mirror) Wait() {
	m.wg.Wait()
}
