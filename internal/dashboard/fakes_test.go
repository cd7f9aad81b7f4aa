package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"StockDash/internal/api"
)

type fakeList struct {
	mu      sync.Mutex
	items   []string
	handles []func()
}

func (l *fakeList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items, l.handles = nil, nil
}

func (l *fakeList) Append(text string, onActivate func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, text)
	l.handles = append(l.handles, onActivate)
}

func (l *fakeList) Items() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.items...)
}

func (l *fakeList) Activate(i int) {
	l.mu.Lock()
	fn := l.handles[i]
	l.mu.Unlock()
	fn()
}

type fakeSelect struct {
	mu       sync.Mutex
	options  []string
	value    string
	onChange func(string)
}

func (s *fakeSelect) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options, s.value = nil, ""
}

func (s *fakeSelect) AddOption(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = append(s.options, v)
}

func (s *fakeSelect) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *fakeSelect) SetValue(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

func (s *fakeSelect) OnChange(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *fakeSelect) Options() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.options...)
}

// Change simulates the user picking v.
func (s *fakeSelect) Change(v string) {
	s.mu.Lock()
	s.value = v
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}

type fakeLabel struct {
	mu   sync.Mutex
	text string
	sets int
}

func (l *fakeLabel) SetText(t string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = t
	l.sets++
}

func (l *fakeLabel) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

type fakeButton struct {
	mu      sync.Mutex
	history []bool
	onClick func()
}

func (b *fakeButton) SetDisabled(d bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history, d)
}

func (b *fakeButton) OnClick(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClick = fn
}

func (b *fakeButton) Click() {
	b.mu.Lock()
	fn := b.onClick
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type fakeAlerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *fakeAlerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

func (a *fakeAlerts) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

// blockingAlerts holds each Alert call open until release is closed.
type blockingAlerts struct {
	fakeAlerts
	shown   chan struct{}
	release chan struct{}
}

func (a *blockingAlerts) Alert(msg string) {
	a.fakeAlerts.Alert(msg)
	close(a.shown)
	<-a.release
}

type fakeCanvas struct {
	mu       sync.Mutex
	id       string
	paints   int
	clears   int
	paintErr error
}

func (c *fakeCanvas) ID() string       { return c.id }
func (c *fakeCanvas) Size() (int, int) { return 480, 240 }

func (c *fakeCanvas) Paint([]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paintErr != nil {
		return c.paintErr
	}
	c.paints++
	return nil
}

func (c *fakeCanvas) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
	return nil
}

func (c *fakeCanvas) Counts() (paints, clears int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paints, c.clears
}

type harness struct {
	list                       *fakeList
	symbol, compareA, compareB *fakeSelect
	rangeSel                   *fakeSelect
	title, ma, lastClose, ret  *fakeLabel
	price, compare             *fakeCanvas
	compareBtn, refreshBtn     *fakeButton
	alerts                     *fakeAlerts
	ctrl                       *Controller
}

func newHarness(t *testing.T, api DataSource) *harness {
	t.Helper()
	h := &harness{
		list:       &fakeList{},
		symbol:     &fakeSelect{},
		compareA:   &fakeSelect{},
		compareB:   &fakeSelect{},
		rangeSel:   &fakeSelect{value: "90"},
		title:      &fakeLabel{},
		ma:         &fakeLabel{},
		lastClose:  &fakeLabel{},
		ret:        &fakeLabel{},
		price:      &fakeCanvas{id: t.Name() + "/price"},
		compare:    &fakeCanvas{id: t.Name() + "/compare"},
		compareBtn: &fakeButton{},
		refreshBtn: &fakeButton{},
		alerts:     &fakeAlerts{},
	}
	ctrl, err := NewController(context.Background(), api, Widgets{
		CompanyList:   h.list,
		SymbolSelect:  h.symbol,
		CompareA:      h.compareA,
		CompareB:      h.compareB,
		RangeSelect:   h.rangeSel,
		ChartTitle:    h.title,
		MAValue:       h.ma,
		LastClose:     h.lastClose,
		LastReturn:    h.ret,
		PriceCanvas:   h.price,
		CompareCanvas: h.compare,
		CompareButton: h.compareBtn,
		RefreshButton: h.refreshBtn,
		Alerts:        h.alerts,
	}, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(func() {
		if ctrl.priceChart != nil {
			ctrl.priceChart.Destroy()
		}
		if ctrl.compareChart != nil {
			ctrl.compareChart.Destroy()
		}
	})
	h.ctrl = ctrl
	return h
}

// backend is an httptest server speaking the dashboard API.
type backend struct {
	mu        sync.Mutex
	requests  []string
	companies string
	series    map[string]string
	failData  map[string]int
	refresh   int
}

func newBackend() *backend {
	return &backend{
		companies: `{"companies":[]}`,
		series:    map[string]string{},
		failData:  map[string]int{},
		refresh:   http.StatusOK,
	}
}

func (b *backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
	b.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/companies":
		w.Write([]byte(b.companies))
	case r.Method == http.MethodGet && r.URL.Path == "/api/data":
		sym := r.URL.Query().Get("symbol")
		if code, ok := b.failData[sym]; ok {
			http.Error(w, "boom for "+sym, code)
			return
		}
		body, ok := b.series[sym]
		if !ok {
			http.Error(w, `{"detail":"Symbol not found or no data"}`, http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	case r.Method == http.MethodPost && r.URL.Path == "/refresh":
		w.WriteHeader(b.refresh)
		w.Write([]byte(`{"status":"refresh started"}`))
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) client(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, "", 5*time.Second)
}

func dataRequests(reqs []string) []string {
	var out []string
	for _, r := range reqs {
		if strings.HasPrefix(r, "GET /api/data") {
			out = append(out, r)
		}
	}
	return out
}
