package dashboard

import (
	"math"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"StockDash/internal/chart"
	"StockDash/internal/model"
)

const placeholder = "-"

// Summary holds the three formatted values of the summary panel.
type Summary struct {
	MA7        string
	LastClose  string
	LastReturn string
}

// Summarize formats the most recent point. Zero, null and absent values all
// render as "-".
func Summarize(last model.Point) Summary {
	return Summary{
		MA7:        formatFixed(last.MA7),
		LastClose:  formatFixed(last.Close),
		LastReturn: formatPercent(last.DailyReturn),
	}
}

func present(v null.Float) bool {
	return v.Valid && v.Float64 != 0 && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0)
}

func formatFixed(v null.Float) string {
	if !present(v) {
		return placeholder
	}
	return fixed2(v.Float64)
}

func formatPercent(v null.Float) string {
	if !present(v) {
		return placeholder
	}
	return fixed2(v.Float64*100) + "%"
}

// fixed2 rounds the exact binary value of v, so 1.005 (stored as
// 1.00499999...) formats as "1.00".
func fixed2(v float64) string {
	return decimal.NewFromFloatWithExponent(v, -20).StringFixed(2)
}

// priceSeries splits points into date labels, closes and MA-7 values.
func priceSeries(data []model.Point) (labels []string, closes, ma7 []float64) {
	labels = make([]string, len(data))
	closes = make([]float64, len(data))
	ma7 = make([]float64, len(data))
	for i, p := range data {
		labels[i] = chart.FormatDate(p.Date.Time)
		closes[i] = value(p.Close)
		ma7[i] = value(p.MA7)
	}
	return labels, closes, ma7
}

func value(v null.Float) float64 {
	if !v.Valid {
		return chart.Missing()
	}
	return v.Float64
}
