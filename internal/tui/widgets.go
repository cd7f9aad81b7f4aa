package tui

import (
	"context"
	"strconv"
	"sync"

	"StockDash/internal/chart"
	"StockDash/internal/dashboard"
)

// Options configures the terminal surface.
type Options struct {
	ChartDir     string
	ChartWidth   int
	ChartHeight  int
	Ranges       []int
	DefaultRange int
	// Recent lists recently viewed symbols, newest first.
	Recent []string
}

// Surface owns every widget the dashboard controller drives. Widgets are safe
// for use from handler goroutines; each mutation asks the program to redraw.
type Surface struct {
	CompanyList   *List
	SymbolSelect  *Select
	CompareA      *Select
	CompareB      *Select
	RangeSelect   *Select
	ChartTitle    *Label
	MAValue       *Label
	LastClose     *Label
	LastReturn    *Label
	PriceCanvas   *Canvas
	CompareCanvas *Canvas
	CompareButton *Button
	RefreshButton *Button
	Alerts        *Alerts
	Recent        []string

	mu     sync.Mutex
	notify func()
}

// NewSurface builds the widget tree. ctx releases blocked alerts on shutdown.
func NewSurface(ctx context.Context, opts Options) *Surface {
	s := &Surface{Recent: opts.Recent}
	redraw := s.redraw

	s.CompanyList = &List{redraw: redraw}
	s.SymbolSelect = &Select{Name: "Symbol", redraw: redraw}
	s.CompareA = &Select{Name: "A", redraw: redraw}
	s.CompareB = &Select{Name: "B", redraw: redraw}
	s.RangeSelect = &Select{Name: "Range", redraw: redraw}
	for _, r := range opts.Ranges {
		s.RangeSelect.AddOption(strconv.Itoa(r))
	}
	s.RangeSelect.SetValue(strconv.Itoa(opts.DefaultRange))

	s.ChartTitle = &Label{redraw: redraw}
	s.MAValue = &Label{text: "-", redraw: redraw}
	s.LastClose = &Label{text: "-", redraw: redraw}
	s.LastReturn = &Label{text: "-", redraw: redraw}
	s.PriceCanvas = &Canvas{FileCanvas: chart.NewFileCanvas(opts.ChartDir, "price_chart", opts.ChartWidth, opts.ChartHeight), redraw: redraw}
	s.CompareCanvas = &Canvas{FileCanvas: chart.NewFileCanvas(opts.ChartDir, "compare_chart", opts.ChartWidth, opts.ChartHeight), redraw: redraw}
	s.CompareButton = &Button{Text: "Compare", redraw: redraw}
	s.RefreshButton = &Button{Text: "Refresh data", redraw: redraw}
	s.Alerts = &Alerts{ctx: ctx, redraw: redraw}
	return s
}

// Widgets returns the handles in the shape the controller expects.
func (s *Surface) Widgets() dashboard.Widgets {
	return dashboard.Widgets{
		CompanyList:   s.CompanyList,
		SymbolSelect:  s.SymbolSelect,
		CompareA:      s.CompareA,
		CompareB:      s.CompareB,
		RangeSelect:   s.RangeSelect,
		ChartTitle:    s.ChartTitle,
		MAValue:       s.MAValue,
		LastClose:     s.LastClose,
		LastReturn:    s.LastReturn,
		PriceCanvas:   s.PriceCanvas,
		CompareCanvas: s.CompareCanvas,
		CompareButton: s.CompareButton,
		RefreshButton: s.RefreshButton,
		Alerts:        s.Alerts,
	}
}

// OnRedraw sets the function called after every widget mutation.
func (s *Surface) OnRedraw(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

func (s *Surface) redraw() {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type listItem struct {
	text       string
	onActivate func()
}

// List is the company browse list with a cursor.
type List struct {
	mu     sync.Mutex
	items  []listItem
	cursor int
	redraw func()
}

func (l *List) Clear() {
	l.mu.Lock()
	l.items, l.cursor = nil, 0
	l.mu.Unlock()
	l.redraw()
}

func (l *List) Append(text string, onActivate func()) {
	l.mu.Lock()
	l.items = append(l.items, listItem{text: text, onActivate: onActivate})
	l.mu.Unlock()
	l.redraw()
}

// Move shifts the cursor by delta, clamped to the list.
func (l *List) Move(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cursor = clamp(l.cursor+delta, len(l.items))
}

// Activated returns the handler of the entry under the cursor.
func (l *List) Activated() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor >= len(l.items) {
		return nil
	}
	return l.items[l.cursor].onActivate
}

// Snapshot returns the entries and the cursor position.
func (l *List) Snapshot() ([]string, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.items))
	for i, it := range l.items {
		out[i] = it.text
	}
	return out, l.cursor
}

// Select cycles through options. Like an HTML select, the first option is
// selected once options exist and no explicit value is set.
type Select struct {
	Name string

	mu       sync.Mutex
	options  []string
	selected int
	onChange func(string)
	redraw   func()
}

func (s *Select) Clear() {
	s.mu.Lock()
	s.options, s.selected = nil, 0
	s.mu.Unlock()
	s.redraw()
}

func (s *Select) AddOption(v string) {
	s.mu.Lock()
	s.options = append(s.options, v)
	s.mu.Unlock()
	s.redraw()
}

func (s *Select) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected >= len(s.options) {
		return ""
	}
	return s.options[s.selected]
}

func (s *Select) SetValue(v string) {
	s.mu.Lock()
	for i, o := range s.options {
		if o == v {
			s.selected = i
			break
		}
	}
	s.mu.Unlock()
	s.redraw()
}

func (s *Select) OnChange(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Step moves the selection by delta and returns the change handler bound to
// the new value, or nil when nothing changed.
func (s *Select) Step(delta int) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.options) == 0 {
		return nil
	}
	next := clamp(s.selected+delta, len(s.options))
	if next == s.selected {
		return nil
	}
	s.selected = next
	fn, v := s.onChange, s.options[next]
	if fn == nil {
		return nil
	}
	return func() { fn(v) }
}

// Label is a line of text.
type Label struct {
	mu     sync.Mutex
	text   string
	redraw func()
}

func (l *Label) SetText(t string) {
	l.mu.Lock()
	l.text = t
	l.mu.Unlock()
	l.redraw()
}

func (l *Label) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Button is a clickable control.
type Button struct {
	Text string

	mu       sync.Mutex
	disabled bool
	onClick  func()
	redraw   func()
}

func (b *Button) SetDisabled(d bool) {
	b.mu.Lock()
	b.disabled = d
	b.mu.Unlock()
	b.redraw()
}

func (b *Button) Disabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}

func (b *Button) OnClick(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClick = fn
}

// Pressed returns the click handler, or nil while disabled.
func (b *Button) Pressed() func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disabled {
		return nil
	}
	return b.onClick
}

// Canvas is a FileCanvas that redraws the screen when painted or cleared.
type Canvas struct {
	*chart.FileCanvas
	redraw func()
}

func (c *Canvas) Paint(png []byte) error {
	defer c.redraw()
	return c.FileCanvas.Paint(png)
}

func (c *Canvas) Clear() error {
	defer c.redraw()
	return c.FileCanvas.Clear()
}

type pendingAlert struct {
	msg  string
	done chan struct{}
}

// Alerts is a modal queue. Alert blocks the calling handler until the user
// dismisses the message.
type Alerts struct {
	ctx    context.Context
	mu     sync.Mutex
	queue  []pendingAlert
	redraw func()
}

func (a *Alerts) Alert(msg string) {
	done := make(chan struct{})
	a.mu.Lock()
	a.queue = append(a.queue, pendingAlert{msg: msg, done: done})
	a.mu.Unlock()
	a.redraw()

	select {
	case <-done:
	case <-a.ctx.Done():
	}
}

// Current returns the alert on screen.
func (a *Alerts) Current() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) == 0 {
		return "", false
	}
	return a.queue[0].msg, true
}

// Dismiss closes the alert on screen and releases its caller.
func (a *Alerts) Dismiss() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) == 0 {
		return
	}
	close(a.queue[0].done)
	a.queue = a.queue[1:]
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
