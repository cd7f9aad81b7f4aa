package chart

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ErrCanvasInUse is returned by New when the canvas still holds a live chart.
var ErrCanvasInUse = errors.New("canvas is already in use; destroy the existing chart first")

// Canvas is a drawing surface that holds at most one chart.
type Canvas interface {
	ID() string
	Size() (width, height int)
	Paint(png []byte) error
	Clear() error
}

// Dataset is one line on a chart. NaN values are skipped.
type Dataset struct {
	Label       string
	Data        []float64
	BorderWidth float64
	Tension     float64
	BorderDash  []float64
}

// Options mirrors the subset of chart options the dashboard uses.
type Options struct {
	Responsive      bool
	InteractionMode string // "index" for cross-series tooltips
	Legend          bool
}

// Config describes a chart for New.
type Config struct {
	Type     string // only "line" is supported
	Labels   []string
	Datasets []Dataset
	Options  Options
}

// Chart is a live chart bound to a canvas.
type Chart struct {
	canvas    Canvas
	config    Config
	destroyed bool
}

var (
	mu   sync.Mutex
	live = map[Canvas]*Chart{}
)

// New renders cfg onto canvas and registers the chart as the canvas' live chart.
func New(canvas Canvas, cfg Config) (*Chart, error) {
	if canvas == nil {
		return nil, errors.New("nil canvas")
	}
	if cfg.Type != "" && cfg.Type != "line" {
		return nil, fmt.Errorf("unsupported chart type %q", cfg.Type)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, ok := live[canvas]; ok {
		return nil, fmt.Errorf("canvas %s: %w", canvas.ID(), ErrCanvasInUse)
	}

	w, h := canvas.Size()
	png, err := Render(cfg, w, h)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", canvas.ID(), err)
	}
	if png == nil {
		err = canvas.Clear()
	} else {
		err = canvas.Paint(png)
	}
	if err != nil {
		return nil, fmt.Errorf("paint %s: %w", canvas.ID(), err)
	}

	c := &Chart{canvas: canvas, config: cfg}
	live[canvas] = c
	return c, nil
}

// Get returns the live chart on canvas, or nil.
func Get(canvas Canvas) *Chart {
	mu.Lock()
	defer mu.Unlock()
	return live[canvas]
}

// Config returns the configuration the chart was built from.
func (c *Chart) Config() Config { return c.config }

// Destroy releases the canvas. Calling it more than once is a no-op.
func (c *Chart) Destroy() error {
	mu.Lock()
	defer mu.Unlock()
	if c.destroyed {
		return nil
	}
	c.destroyed = true
	if live[c.canvas] == c {
		delete(live, c.canvas)
	}
	return c.canvas.Clear()
}

// FormatDate returns the UTC calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Missing marks an absent value in Dataset.Data.
func Missing() float64 { return math.NaN() }
