package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline draws values as a block sparkline exactly width runes wide,
// scaled between the minimum and maximum so small price moves stay visible.
// Longer input is averaged into width buckets so the whole range stays on
// screen; shorter input is left-padded.
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = downsample(values, width)
	}

	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * 7)
		}
		idx = max(0, min(idx, 7))
		sb.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// downsample averages values into n contiguous buckets of near-equal size.
func downsample(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range n {
		start, end := i*len(values)/n, (i+1)*len(values)/n
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
