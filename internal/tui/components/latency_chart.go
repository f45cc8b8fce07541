package components

import (
	"fmt"

	"diggercli/digger/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// chartHeight is the fixed height for the latency sparkline.
const chartHeight = 5

// LatencyChart renders a sparkline of query times in milliseconds with a
// label header and a cur/min/max summary line.
func LatencyChart(label string, data []float64, width int) string {
	if len(data) == 0 {
		return styles.MutedText.Render(label + ": no data")
	}

	// Reserve space for Y-axis labels (number + " ┤" ≈ 9 chars).
	plotWidth := width - 9
	if plotWidth < 10 {
		plotWidth = 10
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DodgerBlue),
		asciigraph.LabelColor(asciigraph.Default),
	)

	// Summary line: current (latest), min, max.
	current := data[len(data)-1]
	min, max := minMax(data)
	summary := styles.MutedText.Render(
		fmt.Sprintf("  cur: %s  min: %s  max: %s",
			formatMs(current), formatMs(min), formatMs(max)),
	)

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart, summary)
}

// minMax returns the minimum and maximum values from a slice.
func minMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	min, max := data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// formatMs renders a millisecond value, switching to seconds at 1000.
func formatMs(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1fs", v/1000)
	}
	return fmt.Sprintf("%.0fms", v)
}
