package dashboard

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"StockDash/internal/chart"
	"StockDash/internal/model"
	"StockDash/internal/recorder"
)

// DefaultDays is used when the range selector is empty or not a number.
const DefaultDays = 90

const (
	refreshStartedMsg = "Refresh started on server. It may take a few minutes."
	refreshSource     = "manual"
)

// DataSource is the backend the controller reads from.
type DataSource interface {
	Companies(ctx context.Context) ([]string, error)
	Series(ctx context.Context, symbol string, days int) (*model.Series, error)
	Refresh(ctx context.Context) error
}

// Controller drives the dashboard widgets. Handlers may run concurrently on
// separate goroutines; chart replacement is serialized by mu.
type Controller struct {
	Ctx      context.Context
	API      DataSource
	UI       Widgets
	Recorder recorder.Recorder

	mu           sync.Mutex
	priceChart   *chart.Chart
	compareChart *chart.Chart

	selectGen  atomic.Uint64
	compareGen atomic.Uint64
	bindOnce   sync.Once
}

// NewController binds the controller to its widgets.
func NewController(ctx context.Context, api DataSource, ui Widgets, rec recorder.Recorder) (*Controller, error) {
	if api == nil {
		return nil, fmt.Errorf("nil data source")
	}
	if err := ui.validate(); err != nil {
		return nil, fmt.Errorf("widgets: %w", err)
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Controller{Ctx: ctx, API: api, UI: ui, Recorder: rec}, nil
}

// Ready attaches the widget handlers (once) and loads the company list.
func (c *Controller) Ready() error {
	c.bindOnce.Do(c.bind)
	return c.LoadCompanies()
}

func (c *Controller) bind() {
	c.UI.RangeSelect.OnChange(func(string) { c.ReloadSelected() })
	c.UI.SymbolSelect.OnChange(func(symbol string) { c.OnSelectCompany(symbol) })
	c.UI.CompareButton.OnClick(func() { c.CompareStocks() })
	c.UI.RefreshButton.OnClick(func() { c.TriggerRefresh() })
}

// LoadCompanies repopulates the browse list and selectors and loads the first symbol.
func (c *Controller) LoadCompanies() error {
	companies, err := c.API.Companies(c.Ctx)
	if err != nil {
		log.Printf("[ERROR] load companies: %v", err)
		return err
	}

	c.UI.CompanyList.Clear()
	c.UI.SymbolSelect.Clear()
	c.UI.CompareA.Clear()
	c.UI.CompareB.Clear()

	for _, sym := range companies {
		c.UI.CompanyList.Append(sym, func() { c.OnSelectCompany(sym) })
		c.UI.SymbolSelect.AddOption(sym)
		c.UI.CompareA.AddOption(sym)
		c.UI.CompareB.AddOption(sym)
	}
	log.Printf("[INFO] loaded %d companies", len(companies))

	if len(companies) > 0 {
		initial := companies[0]
		c.UI.SymbolSelect.SetValue(initial)
		c.OnSelectCompany(initial)
	}
	return nil
}

// ReloadSelected reloads the symbol currently chosen in the single-view selector.
func (c *Controller) ReloadSelected() {
	if sym := c.UI.SymbolSelect.Value(); sym != "" {
		c.OnSelectCompany(sym)
	}
}

// OnSelectCompany loads symbol over the selected range and redraws the single view.
// Results of a request superseded by a newer selection are dropped, failures
// included.
func (c *Controller) OnSelectCompany(symbol string) error {
	days := c.rangeDays()
	gen := c.selectGen.Add(1)

	series, err := c.API.Series(c.Ctx, symbol, days)
	if err == nil {
		err = c.showSeries(gen, symbol, series, days)
	}
	if err == nil {
		return nil
	}
	if c.selectGen.Load() != gen {
		log.Printf("[INFO] dropping stale failure for %s: %v", symbol, err)
		return nil
	}
	log.Printf("[ERROR] failed to load data for %s: %v", symbol, err)
	c.UI.Alerts.Alert("Failed to load data: " + err.Error())
	return err
}

// showSeries redraws the single view unless gen is stale. The alert for a
// failed render is left to the caller so it never runs under mu.
func (c *Controller) showSeries(gen uint64, symbol string, series *model.Series, days int) error {
	if series.Symbol == "" {
		series.Symbol = symbol
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selectGen.Load() != gen {
		log.Printf("[INFO] dropping stale response for %s", symbol)
		return nil
	}
	if err := c.renderPriceChart(series.Symbol, series.Data); err != nil {
		return fmt.Errorf("render %s: %w", series.Symbol, err)
	}
	c.UI.ChartTitle.SetText(fmt.Sprintf("%s — last %d days", series.Symbol, days))
	c.updateSummary(series.Data)
	c.recordView(series, days)
	return nil
}

// RenderPriceChart replaces the single-view chart with symbol's close and MA-7 lines.
func (c *Controller) RenderPriceChart(symbol string, data []model.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderPriceChart(symbol, data)
}

func (c *Controller) renderPriceChart(symbol string, data []model.Point) error {
	labels, closes, ma7 := priceSeries(data)

	if c.priceChart != nil {
		if err := c.priceChart.Destroy(); err != nil {
			log.Printf("[WARN] destroy price chart: %v", err)
		}
		c.priceChart = nil
	}

	ch, err := chart.New(c.UI.PriceCanvas, chart.Config{
		Type:   "line",
		Labels: labels,
		Datasets: []chart.Dataset{
			{Label: symbol + " Close", Data: closes, BorderWidth: 2, Tension: 0.2},
			{Label: "7-day MA", Data: ma7, BorderWidth: 1, Tension: 0.2, BorderDash: []float64{6, 4}},
		},
		Options: chart.Options{Responsive: true, InteractionMode: "index", Legend: true},
	})
	if err != nil {
		return err
	}
	c.priceChart = ch
	return nil
}

// UpdateSummary writes the latest point's MA-7, close and return. Empty data is a no-op.
func (c *Controller) UpdateSummary(data []model.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateSummary(data)
}

func (c *Controller) updateSummary(data []model.Point) {
	if len(data) == 0 {
		return
	}
	s := Summarize(data[len(data)-1])
	c.UI.MAValue.SetText(s.MA7)
	c.UI.LastClose.SetText(s.LastClose)
	c.UI.LastReturn.SetText(s.LastReturn)
}

// CompareStocks overlays the closes of the two compare selections. Nothing is
// drawn unless both series load.
func (c *Controller) CompareStocks() error {
	a := c.UI.CompareA.Value()
	b := c.UI.CompareB.Value()
	days := c.rangeDays()
	if a == "" || b == "" {
		return nil
	}
	gen := c.compareGen.Add(1)

	pa, err := c.API.Series(c.Ctx, a, days)
	if err != nil {
		log.Printf("[ERROR] compare failed: %v", err)
		return err
	}
	pb, err := c.API.Series(c.Ctx, b, days)
	if err != nil {
		log.Printf("[ERROR] compare failed: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.compareGen.Load() != gen {
		log.Printf("[INFO] dropping stale comparison %s/%s", a, b)
		return nil
	}

	labels, closesA, _ := priceSeries(pa.Data)
	_, closesB, _ := priceSeries(pb.Data)

	if c.compareChart != nil {
		if err := c.compareChart.Destroy(); err != nil {
			log.Printf("[WARN] destroy compare chart: %v", err)
		}
		c.compareChart = nil
	}

	ch, err := chart.New(c.UI.CompareCanvas, chart.Config{
		Type:   "line",
		Labels: labels,
		Datasets: []chart.Dataset{
			{Label: a, Data: closesA, BorderWidth: 2, Tension: 0.2},
			{Label: b, Data: closesB, BorderWidth: 2, Tension: 0.2},
		},
		Options: chart.Options{Responsive: true},
	})
	if err != nil {
		log.Printf("[ERROR] compare failed: %v", err)
		return err
	}
	c.compareChart = ch

	if err := c.Recorder.RecordCompare(&recorder.CompareEvent{SymbolA: a, SymbolB: b, Days: days}); err != nil {
		log.Printf("[ERROR] record compare: %v", err)
	}
	return nil
}

// TriggerRefresh asks the server to regenerate data. The refresh button is
// disabled for the duration of the request and always re-enabled.
func (c *Controller) TriggerRefresh() error {
	c.UI.RefreshButton.SetDisabled(true)
	defer c.UI.RefreshButton.SetDisabled(false)

	err := c.API.Refresh(c.Ctx)
	c.recordRefresh(err)
	if err != nil {
		log.Printf("[ERROR] refresh: %v", err)
		c.UI.Alerts.Alert("Refresh error: " + err.Error())
		return err
	}
	log.Println("[INFO] refresh started on server")
	c.UI.Alerts.Alert(refreshStartedMsg)
	return nil
}

func (c *Controller) rangeDays() int {
	v := strings.TrimSpace(c.UI.RangeSelect.Value())
	if v == "" {
		return DefaultDays
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		return DefaultDays
	}
	return days
}

func (c *Controller) recordView(s *model.Series, days int) {
	evt := &recorder.ViewEvent{Symbol: s.Symbol, Days: days, Points: len(s.Data)}
	if last, ok := s.Last(); ok {
		evt.LastClose = last.Close.ValueOrZero()
		evt.MA7 = last.MA7.ValueOrZero()
		evt.DailyReturn = last.DailyReturn.ValueOrZero()
	}
	if err := c.Recorder.RecordView(evt); err != nil {
		log.Printf("[ERROR] record view: %v", err)
	}
}

func (c *Controller) recordRefresh(err error) {
	evt := &recorder.RefreshEvent{Source: refreshSource, OK: err == nil}
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := c.Recorder.RecordRefresh(evt); rerr != nil {
		log.Printf("[ERROR] record refresh: %v", rerr)
	}
}
