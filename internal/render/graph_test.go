package render

import (
	"strings"
	"testing"

	"tsdash/internal/model"
)

func TestGraph_NoData(t *testing.T) {
	t.Parallel()

	for _, series := range [][]float64{nil, {}, {0, 0, 0, 0}} {
		grid := Graph(series, 40, 8, "ping").String()
		if !strings.Contains(grid, noDataPlaceholder) {
			t.Fatalf("series=%v grid=%q", series, grid)
		}
	}
}

func TestGraph_TitleAndScale(t *testing.T) {
	t.Parallel()

	c := Graph([]float64{10, 20, 40}, 20, 8, "latency ms")
	lines := c.Lines()
	if !strings.HasPrefix(lines[0], "latency ms") {
		t.Fatalf("title row=%q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "40.0") {
		t.Fatalf("scale row=%q", lines[1])
	}
}

func TestGraph_TitleTruncated(t *testing.T) {
	t.Parallel()

	c := Graph([]float64{1}, 5, 6, "a very long title")
	if got := c.Lines()[0]; got != "a ver" {
		t.Fatalf("title row=%q", got)
	}
}

func TestGraph_BarsScaleWithValues(t *testing.T) {
	t.Parallel()

	width, height := 4, 10
	c := Graph([]float64{25, 50, 75, 100}, width, height, "")

	barHeight := func(col int) int {
		n := 0
		for y := 0; y < height; y++ {
			if c.At(col, y) != ' ' && y >= 2 {
				n++
			}
		}
		return n
	}
	if !(barHeight(0) < barHeight(1) && barHeight(1) < barHeight(2) && barHeight(2) < barHeight(3)) {
		t.Fatalf("bars=%d,%d,%d,%d", barHeight(0), barHeight(1), barHeight(2), barHeight(3))
	}
	// Max column fills the plot area with the top band glyph.
	if c.At(3, 2) != '█' || c.At(3, height-1) != '█' {
		t.Fatalf("max column=%q %q", c.At(3, 2), c.At(3, height-1))
	}
}

func TestGraph_BandGlyphs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		norm float64
		want rune
	}{
		{1.0, '█'},
		{0.7, '▓'},
		{0.5, '▒'},
		{0.3, '░'},
		{0.1, '.'},
	}
	for _, tc := range cases {
		if got := glyphForBand(tc.norm); got != tc.want {
			t.Fatalf("norm=%.1f glyph=%q want %q", tc.norm, got, tc.want)
		}
	}
}

func TestGraph_Resample(t *testing.T) {
	t.Parallel()

	// More points than columns: nearest-index resampling, no panic.
	series := make([]float64, 500)
	for i := range series {
		series[i] = float64(i % 100)
	}
	c := Graph(series, 30, 8, "")
	if c.Width() != 30 || c.Height() != 8 {
		t.Fatalf("grid=%dx%d", c.Width(), c.Height())
	}
}

func TestPingGraph_FailuresLeaveGaps(t *testing.T) {
	t.Parallel()

	history := []model.PingRecord{
		{Success: true, AvgLatencyMs: 40},
		{Success: false},
		{Success: true, AvgLatencyMs: 40},
		{Success: true, AvgLatencyMs: 40},
	}
	c := PingGraph(history, 4, 6, "")
	if c.At(1, 5) != ' ' {
		t.Fatalf("failed attempt not a gap: %q", c.At(1, 5))
	}
	if c.At(0, 5) == ' ' || c.At(2, 5) == ' ' {
		t.Fatalf("successful columns empty")
	}
}

func TestPingGraph_AllFailuresIsNoData(t *testing.T) {
	t.Parallel()

	history := []model.PingRecord{{Success: false}, {Success: false}}
	grid := PingGraph(history, 40, 8, "ping").String()
	if !strings.Contains(grid, noDataPlaceholder) {
		t.Fatalf("grid=%q", grid)
	}
}

func TestBandwidth_Lines(t *testing.T) {
	t.Parallel()

	sample := model.BandwidthSample{
		Interface:       "tailscale0",
		UploadBps:       1536,
		DownloadBps:     3 << 20,
		UploadHistory:   []float64{100, 1536},
		DownloadHistory: []float64{1 << 20, 3 << 20},
	}
	lines := Bandwidth(sample, 40)
	if !strings.Contains(lines[0], "tailscale0") || !strings.Contains(lines[0], "1.5 KB/s") || !strings.Contains(lines[0], "3.0 MB/s") {
		t.Fatalf("header=%q", lines[0])
	}
	if len(lines) != 1+2*bandwidthGraphHeight {
		t.Fatalf("lines=%d", len(lines))
	}
}

func TestBandwidth_ErrorMarker(t *testing.T) {
	t.Parallel()

	lines := Bandwidth(model.BandwidthSample{Interface: "wg0", Err: "not found"}, 40)
	if !strings.Contains(lines[0], "unavailable") {
		t.Fatalf("header=%q", lines[0])
	}
	// History graphs degrade to the no-data placeholder.
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, noDataPlaceholder) {
		t.Fatalf("no placeholder:\n%s", joined)
	}
}

func TestFormatRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		bps  float64
		want string
	}{
		{0, "0 B/s"},
		{512, "512 B/s"},
		{2048, "2.0 KB/s"},
		{5 << 20, "5.0 MB/s"},
		{3 << 30, "3.0 GB/s"},
	}
	for _, tc := range cases {
		if got := FormatRate(tc.bps); got != tc.want {
			t.Fatalf("FormatRate(%g)=%q want %q", tc.bps, got, tc.want)
		}
	}
}
