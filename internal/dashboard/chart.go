// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dashboard

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-trends/internal/trends"
)

// Chart geometry. The SVG is rendered server-side; the template only
// stamps out precomputed coordinates.
const (
	chartWidth   = 880
	chartHeight  = 340
	marginLeft   = 56
	marginRight  = 16
	marginTop    = 16
	marginBottom = 32
)

// seriesColors is the line palette, cycled when more terms are plotted.
var seriesColors = []string{
	"#0066cc", "#cc3300", "#2e8b57", "#9932cc",
	"#e6a700", "#008b8b", "#b22222", "#556b2f",
}

type chartLabel struct {
	X, Y int
	Text string
}

type chartSeries struct {
	Term   string
	Color  string
	Points string // SVG polyline points attribute
}

type chart struct {
	Width, Height int
	PlotLeft      int
	PlotRight     int
	PlotTop       int
	PlotBottom    int
	Series        []chartSeries
	XLabels       []chartLabel
	YLabels       []chartLabel
	YAxisTitle    string
}

// buildChart lays out the trend series as polylines over a shared time
// axis. Returns nil when there is nothing to plot.
func buildChart(res trends.Result, normalized bool) *chart {
	if len(res.Series) == 0 || res.MaxYear == 0 {
		return nil
	}

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBottom)

	maxVal := 0.0
	for _, s := range res.Series {
		for _, p := range s.Points {
			if p.Value > maxVal {
				maxVal = p.Value
			}
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	years := res.MaxYear - res.MinYear
	xAt := func(year int) float64 {
		if years == 0 {
			return marginLeft + plotW/2
		}
		return marginLeft + float64(year-res.MinYear)/float64(years)*plotW
	}
	yAt := func(v float64) float64 {
		return marginTop + (1-v/maxVal)*plotH
	}

	c := &chart{
		Width:      chartWidth,
		Height:     chartHeight,
		PlotLeft:   marginLeft,
		PlotRight:  chartWidth - marginRight,
		PlotTop:    marginTop,
		PlotBottom: chartHeight - marginBottom,
		YAxisTitle: "papers",
	}
	if normalized {
		c.YAxisTitle = "% of papers"
	}

	for i, s := range res.Series {
		var b strings.Builder
		for _, p := range s.Points {
			fmt.Fprintf(&b, "%.1f,%.1f ", xAt(p.Year), yAt(p.Value))
		}
		c.Series = append(c.Series, chartSeries{
			Term:   s.Term,
			Color:  seriesColors[i%len(seriesColors)],
			Points: strings.TrimSpace(b.String()),
		})
	}

	for _, year := range yearTicks(res.MinYear, res.MaxYear) {
		c.XLabels = append(c.XLabels, chartLabel{
			X:    int(xAt(year)),
			Y:    chartHeight - marginBottom + 18,
			Text: fmt.Sprintf("%d", year),
		})
	}
	for _, frac := range []float64{0, 0.5, 1} {
		v := maxVal * frac
		c.YLabels = append(c.YLabels, chartLabel{
			X:    marginLeft - 8,
			Y:    int(yAt(v)) + 4,
			Text: formatValue(v, normalized),
		})
	}
	return c
}

// yearTicks picks up to six evenly spaced year labels.
func yearTicks(minYear, maxYear int) []int {
	span := maxYear - minYear
	if span == 0 {
		return []int{minYear}
	}
	step := 1
	for span/step > 5 {
		step *= 2
		if step == 4 {
			step = 5
		}
		if step == 40 {
			step = 50
		}
	}
	var ticks []int
	for y := minYear; y <= maxYear; y += step {
		ticks = append(ticks, y)
	}
	if ticks[len(ticks)-1] != maxYear {
		ticks = append(ticks, maxYear)
	}
	return ticks
}

func formatValue(v float64, normalized bool) string {
	if normalized {
		return fmt.Sprintf("%.1f%%", v)
	}
	return fmt.Sprintf("%.0f", v)
}
