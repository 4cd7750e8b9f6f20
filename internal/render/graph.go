package render

import (
	"fmt"

	"tsdash/internal/model"
)

// Density bands over the value normalized by the series max.
var bandGlyphs = []struct {
	Above float64
	Glyph rune
}{
	{0.8, '█'},
	{0.6, '▓'},
	{0.4, '▒'},
	{0.2, '░'},
	{0.0, '.'},
}

const noDataPlaceholder = "( no data )"

// Graph renders a numeric series as a bar graph with adaptive scaling.
// Row 0 carries the title (when present), row 1 the right-aligned series
// max as a scale reference; the remaining rows are the plot area. An empty
// or all-zero series renders a centered placeholder instead.
func Graph(series []float64, width, height int, title string) *Canvas {
	c := NewCanvas(width, height)

	if title != "" {
		c.Text(0, 0, truncate(title, width))
	}

	max := seriesMax(series)
	if max == 0 {
		c.TextCentered(width/2, height/2, noDataPlaceholder)
		return c
	}

	scale := fmt.Sprintf("%.1f", max)
	c.Text(width-len(scale), 1, scale)

	top := 2
	plotHeight := height - top
	if plotHeight < 1 {
		return c
	}

	for col := 0; col < width; col++ {
		// Nearest-index resample: one column per (possibly repeated) point.
		idx := col * len(series) / width
		norm := series[idx] / max
		if norm <= 0 {
			continue
		}
		glyph := glyphForBand(norm)
		bar := int(norm*float64(plotHeight) + 0.5)
		if bar < 1 {
			bar = 1
		}
		for row := 0; row < bar; row++ {
			c.Set(col, height-1-row, glyph)
		}
	}
	return c
}

// PingGraph renders a host's rolling latency history. Failed attempts
// contribute zero-height columns, leaving visible gaps in the plot.
func PingGraph(history []model.PingRecord, width, height int, title string) *Canvas {
	series := make([]float64, 0, len(history))
	for _, rec := range history {
		if rec.Success {
			series = append(series, rec.AvgLatencyMs)
		} else {
			series = append(series, 0)
		}
	}
	return Graph(series, width, height, title)
}

func glyphForBand(norm float64) rune {
	for _, b := range bandGlyphs {
		if norm > b.Above {
			return b.Glyph
		}
	}
	return bandGlyphs[len(bandGlyphs)-1].Glyph
}

func seriesMax(series []float64) float64 {
	var max float64
	for _, v := range series {
		if v > max {
			max = v
		}
	}
	return max
}
