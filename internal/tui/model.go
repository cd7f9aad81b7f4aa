package tui

import (
	"fmt"
	"log"
	"strings"

	"StockDash/internal/chart"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusList focusArea = iota
	focusSymbol
	focusRange
	focusCompareA
	focusCompareB
	focusCompareButton
	focusRefreshButton
	focusCount
)

type redrawMsg struct{}

type handlerDoneMsg struct{}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	alertStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 2)
)

// Model is the bubbletea model hosting the dashboard surface.
type Model struct {
	ui    *Surface
	ready func() error
	focus focusArea
	width int
}

// NewModel returns a model whose Init runs ready off the event loop.
func NewModel(ui *Surface, ready func() error) Model {
	return Model{ui: ui, ready: ready}
}

// Attach routes widget mutations to p as redraw messages.
func Attach(ui *Surface, p *tea.Program) {
	ui.OnRedraw(func() {
		go p.Send(redrawMsg{})
	})
}

func (m Model) Init() tea.Cmd {
	if m.ready == nil {
		return nil
	}
	ready := m.ready
	return dispatch(func() {
		if err := ready(); err != nil {
			log.Printf("[ERROR] dashboard not ready: %v", err)
		}
	})
}

func dispatch(fn func()) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		fn()
		return handlerDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if _, ok := m.ui.Alerts.Current(); ok {
		switch key {
		case "enter", "esc", " ":
			m.ui.Alerts.Dismiss()
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % focusCount
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
	case "up", "k", "left", "h":
		return m, m.move(-1)
	case "down", "j", "right", "l":
		return m, m.move(1)
	case "enter", " ":
		return m, m.activate()
	case "r":
		return m, dispatch(m.ui.RefreshButton.Pressed())
	}
	return m, nil
}

func (m Model) move(delta int) tea.Cmd {
	if m.focus == focusList {
		m.ui.CompanyList.Move(delta)
		return nil
	}
	if sel := m.focusedSelect(); sel != nil {
		return dispatch(sel.Step(delta))
	}
	return nil
}

func (m Model) activate() tea.Cmd {
	switch m.focus {
	case focusList:
		return dispatch(m.ui.CompanyList.Activated())
	case focusCompareButton:
		return dispatch(m.ui.CompareButton.Pressed())
	case focusRefreshButton:
		return dispatch(m.ui.RefreshButton.Pressed())
	}
	return nil
}

func (m Model) focusedSelect() *Select {
	switch m.focus {
	case focusSymbol:
		return m.ui.SymbolSelect
	case focusRange:
		return m.ui.RangeSelect
	case focusCompareA:
		return m.ui.CompareA
	case focusCompareB:
		return m.ui.CompareB
	}
	return nil
}

func (m Model) View() string {
	if msg, ok := m.ui.Alerts.Current(); ok {
		return alertStyle.Render(msg + "\n\n" + dimStyle.Render("enter to dismiss"))
	}

	left := panelStyle.Render(m.listView())

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(orDash(m.ui.ChartTitle.Text())))
	fmt.Fprintf(&b, "%s  %s\n", m.selectView(focusSymbol, m.ui.SymbolSelect), m.selectView(focusRange, m.ui.RangeSelect))
	fmt.Fprintf(&b, "Chart: %s\n", canvasView(m.ui.PriceCanvas))
	fmt.Fprintf(&b, "7-day MA: %s   Last close: %s   Last return: %s\n\n",
		m.ui.MAValue.Text(), m.ui.LastClose.Text(), m.ui.LastReturn.Text())
	fmt.Fprintf(&b, "%s vs %s  %s\n", m.selectView(focusCompareA, m.ui.CompareA), m.selectView(focusCompareB, m.ui.CompareB),
		m.buttonView(focusCompareButton, m.ui.CompareButton))
	fmt.Fprintf(&b, "Compare: %s\n\n", canvasView(m.ui.CompareCanvas))
	b.WriteString(m.buttonView(focusRefreshButton, m.ui.RefreshButton))
	right := panelStyle.Render(b.String())

	help := dimStyle.Render("tab focus • ↑/↓ move • enter select • r refresh • q quit")
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, left, right), help)
}

func (m Model) listView() string {
	items, cursor := m.ui.CompanyList.Snapshot()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Companies"))
	if len(m.ui.Recent) > 0 {
		b.WriteString("\n" + dimStyle.Render("recent: "+strings.Join(m.ui.Recent, ", ")))
	}
	for i, it := range items {
		b.WriteString("\n")
		if i == cursor && m.focus == focusList {
			b.WriteString(focusedStyle.Render("> " + it))
			continue
		}
		b.WriteString("  " + it)
	}
	return b.String()
}

func (m Model) selectView(f focusArea, s *Select) string {
	text := fmt.Sprintf("%s: < %s >", s.Name, orDash(s.Value()))
	if m.focus == f {
		return focusedStyle.Render(text)
	}
	return text
}

func (m Model) buttonView(f focusArea, b *Button) string {
	text := "[" + b.Text + "]"
	switch {
	case b.Disabled():
		return disabledStyle.Render(text)
	case m.focus == f:
		return focusedStyle.Render(text)
	}
	return text
}

func canvasView(c *Canvas) string {
	if !c.Painted() {
		return dimStyle.Render("(empty)")
	}
	points := 0
	if ch := chart.Get(c); ch != nil {
		points = len(ch.Config().Labels)
	}
	return fmt.Sprintf("%s (%d points)", c.Path(), points)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
