package report

import (
	"bytes"
	"fmt"

	"github.com/iwvelando/finplan/pkg/finance"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderGrowthChart renders a PNG line chart of a growth ledger.
// Two series: Balance (blue solid) and Contributions (gray dashed), plotted
// against the period number. Returns raw PNG bytes.
func RenderGrowthChart(result *finance.GrowthResult) ([]byte, error) {
	if result == nil || len(result.Periods) < 2 {
		n := 0
		if result != nil {
			n = len(result.Periods)
		}
		return nil, fmt.Errorf("need at least 2 periods, got %d", n)
	}

	xValues := make([]float64, len(result.Periods))
	balanceY := make([]float64, len(result.Periods))
	contributedY := result.CumulativeContributions()

	for i, p := range result.Periods {
		xValues[i] = float64(p.Period)
		balanceY[i] = p.ClosingBalance
	}

	balanceSeries := chart.ContinuousSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: balanceY,
	}

	contributedSeries := chart.ContinuousSeries{
		Name: "Contributions",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: contributedY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio Growth (%s)", result.Frequency),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Period",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			balanceSeries,
			contributedSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
