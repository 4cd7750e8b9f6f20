package pingstat

import (
	"regexp"
	"strconv"
)

// The external probe reports per-probe latency either in the tailscale
// form ("pong from nas (100.64.0.3) via DERP(fra) in 23ms") or the classic
// ping form ("time=23.4 ms"). Packet loss, when present, follows the
// "N% packet loss" convention. No match means no data, never an error.
var (
	latencyTailscaleRe = regexp.MustCompile(`\bin\s+([0-9]+(?:\.[0-9]+)?)\s*ms\b`)
	latencyClassicRe   = regexp.MustCompile(`\btime[=<]([0-9]+(?:\.[0-9]+)?)\s*ms\b`)
	packetLossRe       = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)%\s*packet loss`)
)

// parsePing extracts per-probe latencies and the packet-loss percentage
// from raw probe output. When the output carries no loss line, loss is
// derived from the expected probe count.
func parsePing(raw string, expected int) (latencies []float64, lossPct float64) {
	for _, m := range latencyTailscaleRe.FindAllStringSubmatch(raw, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			latencies = append(latencies, v)
		}
	}
	if len(latencies) == 0 {
		for _, m := range latencyClassicRe.FindAllStringSubmatch(raw, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				latencies = append(latencies, v)
			}
		}
	}

	if m := packetLossRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return latencies, v
		}
	}
	if expected <= 0 {
		expected = 1
	}
	missed := expected - len(latencies)
	if missed < 0 {
		missed = 0
	}
	return latencies, float64(missed) / float64(expected) * 100
}
