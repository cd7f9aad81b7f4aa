package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewSurface(ctx, Options{
		ChartDir:     t.TempDir(),
		ChartWidth:   320,
		ChartHeight:  200,
		Ranges:       []int{30, 90},
		DefaultRange: 90,
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	if cmd != nil {
		cmd()
	}
	return next.(Model)
}

func TestSurface_RangeDefaults(t *testing.T) {
	s := newTestSurface(t)
	if got := s.RangeSelect.Value(); got != "90" {
		t.Errorf("expected default range 90, got %q", got)
	}
	if got := s.MAValue.Text(); got != "-" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestSelect_FirstOptionSelected(t *testing.T) {
	s := newTestSurface(t)
	if s.CompareA.Value() != "" {
		t.Fatal("empty select must have no value")
	}
	s.CompareA.AddOption("AAA")
	s.CompareA.AddOption("BBB")
	if got := s.CompareA.Value(); got != "AAA" {
		t.Errorf("expected first option, got %q", got)
	}
	s.CompareA.SetValue("missing")
	if got := s.CompareA.Value(); got != "AAA" {
		t.Errorf("unknown value must not change selection, got %q", got)
	}
}

func TestModel_ListActivation(t *testing.T) {
	s := newTestSurface(t)
	var picked string
	for _, sym := range []string{"AAA", "BBB", "CCC"} {
		s.CompanyList.Append(sym, func() { picked = sym })
	}

	m := NewModel(s, nil)
	m = press(t, m, "down")
	m = press(t, m, "down")
	m = press(t, m, "down")
	press(t, m, "enter")
	if picked != "CCC" {
		t.Errorf("expected CCC, got %q", picked)
	}
}

func TestModel_SelectChangeFiresHandler(t *testing.T) {
	s := newTestSurface(t)
	var changed []string
	s.RangeSelect.OnChange(func(v string) { changed = append(changed, v) })

	m := NewModel(s, nil)
	m = press(t, m, "tab") // symbol
	m = press(t, m, "tab") // range
	m = press(t, m, "up")
	m = press(t, m, "up")
	if len(changed) != 1 || changed[0] != "30" {
		t.Errorf("expected one change to 30, got %v", changed)
	}
	if s.RangeSelect.Value() != "30" {
		t.Errorf("unexpected range %q", s.RangeSelect.Value())
	}
}

func TestModel_DisabledButtonIgnored(t *testing.T) {
	s := newTestSurface(t)
	clicks := 0
	s.RefreshButton.OnClick(func() { clicks++ })

	m := NewModel(s, nil)
	press(t, m, "r")
	s.RefreshButton.SetDisabled(true)
	press(t, m, "r")
	if clicks != 1 {
		t.Errorf("expected 1 click, got %d", clicks)
	}
}

func TestAlerts_BlockUntilDismissed(t *testing.T) {
	s := newTestSurface(t)
	m := NewModel(s, nil)

	done := make(chan struct{})
	go func() {
		s.Alerts.Alert("Refresh error: boom")
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if msg, ok := s.Alerts.Current(); ok {
			if msg != "Refresh error: boom" {
				t.Fatalf("unexpected alert %q", msg)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("alert never shown")
		case <-time.After(5 * time.Millisecond):
		}
	}

	m = press(t, m, "tab")
	if m.focus != focusList {
		t.Error("keys other than dismiss must be swallowed while an alert is open")
	}
	press(t, m, "enter")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("alert caller not released")
	}
	if _, ok := s.Alerts.Current(); ok {
		t.Error("alert still open")
	}
}

func TestModel_InitRunsReady(t *testing.T) {
	s := newTestSurface(t)
	called := false
	m := NewModel(s, func() error { called = true; return nil })
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected init command")
	}
	if _, ok := cmd().(handlerDoneMsg); !ok || !called {
		t.Error("ready not run")
	}
}
