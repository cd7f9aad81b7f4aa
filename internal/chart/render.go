package chart

import (
	"bytes"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxTicks = 8

var palette = []drawing.Color{
	gochart.ColorBlue,
	gochart.ColorOrange,
	gochart.ColorGreen,
	gochart.ColorAlternateGray,
}

// Render draws cfg as a PNG. It returns nil bytes when there is nothing to plot.
func Render(cfg Config, width, height int) ([]byte, error) {
	var series []gochart.Series
	yMin, yMax := math.Inf(1), math.Inf(-1)

	for i, ds := range cfg.Datasets {
		xs := make([]float64, 0, len(ds.Data))
		ys := make([]float64, 0, len(ds.Data))
		for x, y := range ds.Data {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			xs = append(xs, float64(x))
			ys = append(ys, y)
			yMin = math.Min(yMin, y)
			yMax = math.Max(yMax, y)
		}
		if len(xs) == 0 {
			continue
		}
		if len(xs) == 1 {
			// a single point has no segment to stroke; draw it as a dot
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		col := palette[i%len(palette)]
		series = append(series, gochart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor:     col,
				StrokeWidth:     ds.BorderWidth,
				StrokeDashArray: ds.BorderDash,
				DotColor:        col,
				DotWidth:        1.5,
			},
		})
	}
	if len(series) == 0 {
		return nil, nil
	}

	n := len(cfg.Labels)
	for _, ds := range cfg.Datasets {
		if len(ds.Data) > n {
			n = len(ds.Data)
		}
	}
	if yMin == yMax {
		yMin, yMax = yMin-1, yMax+1
	}

	graph := gochart.Chart{
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: -0.5, Max: math.Max(float64(n)-0.5, 0.5)},
			Ticks: categoryTicks(cfg.Labels),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	if cfg.Options.Legend {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// categoryTicks places at most maxTicks evenly spaced labels on the index axis.
func categoryTicks(labels []string) []gochart.Tick {
	if len(labels) == 0 {
		return nil
	}
	step := 1
	if len(labels) > maxTicks {
		step = (len(labels) + maxTicks - 1) / maxTicks
	}
	ticks := make([]gochart.Tick, 0, maxTicks+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}
