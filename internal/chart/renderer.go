// Package chart renders a monthly report as a PNG bar chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"budgetbot/internal/core"
)

var ErrEmptyReport = errors.New("empty report")

type Renderer struct {
	width  int
	height int
}

func NewRenderer() *Renderer {
	return &Renderer{width: 900, height: 512}
}

// Render produces a PNG bar chart with one bar per category: income bars
// green, expense bars red (as positive magnitudes). Callers must not invoke
// it for a no-activity month; that state is rendered as text instead.
func (r *Renderer) Render(report core.MonthlyReport) ([]byte, error) {
	bars := make([]chart.Value, 0, len(report.Income)+len(report.Expense))

	for _, ct := range report.Income {
		bars = append(bars, chart.Value{
			Label: "Income: " + ct.Category,
			Value: ct.Amount.InexactFloat64(),
			Style: barStyle(drawing.ColorGreen),
		})
	}
	for _, ct := range report.Expense {
		bars = append(bars, chart.Value{
			Label: "Expense: " + ct.Category,
			Value: ct.Amount.InexactFloat64(),
			Style: barStyle(drawing.ColorRed),
		})
	}

	if len(bars) == 0 {
		return nil, ErrEmptyReport
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Income and expenses for %s", report.Month),
		Width:    r.width,
		Height:   r.height,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barStyle(fill drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   fill,
		StrokeColor: fill,
		StrokeWidth: 0,
	}
}
