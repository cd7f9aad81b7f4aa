package dashboard

import (
	"errors"

	"StockDash/internal/chart"
)

// List is the company browse list.
type List interface {
	Clear()
	Append(text string, onActivate func())
}

// Select is a single-choice selector. SetValue must not fire change handlers.
type Select interface {
	Clear()
	AddOption(value string)
	Value() string
	SetValue(value string)
	OnChange(fn func(value string))
}

// Label displays a line of text.
type Label interface {
	SetText(text string)
}

// Button is a clickable control.
type Button interface {
	SetDisabled(disabled bool)
	OnClick(fn func())
}

// Alerter shows a blocking, user-facing message.
type Alerter interface {
	Alert(msg string)
}

// Widgets is the set of handles the controller drives. They are acquired once
// by the host and must be safe to call from handler goroutines.
type Widgets struct {
	CompanyList   List
	SymbolSelect  Select
	CompareA      Select
	CompareB      Select
	RangeSelect   Select
	ChartTitle    Label
	MAValue       Label
	LastClose     Label
	LastReturn    Label
	PriceCanvas   chart.Canvas
	CompareCanvas chart.Canvas
	CompareButton Button
	RefreshButton Button
	Alerts        Alerter
}

func (w *Widgets) validate() error {
	switch {
	case w.CompanyList == nil:
		return errors.New("missing company list")
	case w.SymbolSelect == nil, w.CompareA == nil, w.CompareB == nil, w.RangeSelect == nil:
		return errors.New("missing select widget")
	case w.ChartTitle == nil, w.MAValue == nil, w.LastClose == nil, w.LastReturn == nil:
		return errors.New("missing label widget")
	case w.PriceCanvas == nil, w.CompareCanvas == nil:
		return errors.New("missing canvas")
	case w.CompareButton == nil, w.RefreshButton == nil:
		return errors.New("missing button")
	case w.Alerts == nil:
		return errors.New("missing alerter")
	}
	return nil
}
