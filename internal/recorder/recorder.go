package recorder

import "time"

// ViewEvent records a single-symbol chart load.
type ViewEvent struct {
	Symbol      string
	Days        int
	Points      int
	LastClose   float64
	MA7         float64
	DailyReturn float64
	At          time.Time
}

// CompareEvent records a two-symbol comparison.
type CompareEvent struct {
	SymbolA string
	SymbolB string
	Days    int
}

// RefreshEvent records a refresh request and its outcome.
type RefreshEvent struct {
	Source string // "manual" or "scheduled"
	OK     bool
	Error  string
}

// Recorder persists dashboard history for later analysis.
type Recorder interface {
	RecordView(evt *ViewEvent) error
	RecordCompare(evt *CompareEvent) error
	RecordRefresh(evt *RefreshEvent) error
	RecentViews(limit int) ([]ViewEvent, error)
	Close() error
}
