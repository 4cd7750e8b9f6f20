package render

import (
	"fmt"

	"tsdash/internal/model"
)

const bandwidthGraphHeight = 6

// Bandwidth renders one bandwidth sample as text lines: a rate header plus
// upload and download history graphs. A sample carrying an error marker
// renders a placeholder header instead of rates.
func Bandwidth(sample model.BandwidthSample, width int) []string {
	var lines []string
	if sample.Err != "" {
		lines = append(lines, truncate(fmt.Sprintf("%s: unavailable (%s)", sample.Interface, sample.Err), width))
	} else {
		lines = append(lines, truncate(fmt.Sprintf("%s  ↑ %s  ↓ %s",
			sample.Interface,
			FormatRate(sample.UploadBps),
			FormatRate(sample.DownloadBps)), width))
	}

	lines = append(lines, Graph(sample.UploadHistory, width, bandwidthGraphHeight, "upload").Lines()...)
	lines = append(lines, Graph(sample.DownloadHistory, width, bandwidthGraphHeight, "download").Lines()...)
	return lines
}

// FormatRate renders a bytes-per-second rate with a binary unit prefix.
func FormatRate(bps float64) string {
	switch {
	case bps >= 1<<30:
		return fmt.Sprintf("%.1f GB/s", bps/(1<<30))
	case bps >= 1<<20:
		return fmt.Sprintf("%.1f MB/s", bps/(1<<20))
	case bps >= 1<<10:
		return fmt.Sprintf("%.1f KB/s", bps/(1<<10))
	default:
		return fmt.Sprintf("%.0f B/s", bps)
	}
}
