package pingstat

import (
	"math"
	"time"

	"tsdash/internal/model"
)

// Trend classifies the direction of recent latency movement.
type Trend string

const (
	TrendImproving    Trend = "improving"
	TrendWorsening    Trend = "worsening"
	TrendStable       Trend = "stable"
	TrendInsufficient Trend = "insufficient_data"
)

// trendWindow bounds how many recent successful samples feed the trend.
const trendWindow = 10

// Stats is a derived snapshot over one host's full history. Latency fields
// cover the successful subset only.
type Stats struct {
	Hostname       string
	TotalAttempts  int
	Successes      int
	SuccessRatePct float64
	AvgLossPct     float64

	AvgLatencyMs float64
	MinLatencyMs float64
	MaxLatencyMs float64
	StdDevMs     float64
	Trend        Trend

	Availability1hPct  float64
	Availability24hPct float64
	Availability7dPct  float64
}

// Statistics recomputes derived statistics from the host's history.
// An empty history yields a zero Stats with TrendInsufficient.
func (s *Store) Statistics(hostname string) Stats {
	recs := s.History(hostname)
	now := s.now()

	st := Stats{Hostname: hostname, TotalAttempts: len(recs), Trend: TrendInsufficient}
	if len(recs) == 0 {
		return st
	}

	var lossSum float64
	var successAvgs []float64
	st.MinLatencyMs = math.MaxFloat64
	for _, rec := range recs {
		lossSum += rec.PacketLossPct
		if !rec.Success {
			continue
		}
		st.Successes++
		successAvgs = append(successAvgs, rec.AvgLatencyMs)
		if rec.MinLatencyMs < st.MinLatencyMs {
			st.MinLatencyMs = rec.MinLatencyMs
		}
		if rec.MaxLatencyMs > st.MaxLatencyMs {
			st.MaxLatencyMs = rec.MaxLatencyMs
		}
	}
	st.SuccessRatePct = float64(st.Successes) / float64(len(recs)) * 100
	st.AvgLossPct = lossSum / float64(len(recs))

	if st.Successes == 0 {
		st.MinLatencyMs = 0
	} else {
		st.AvgLatencyMs = mean(successAvgs)
		st.StdDevMs = stddev(successAvgs, st.AvgLatencyMs)
		st.Trend = classifyTrend(successAvgs)
	}

	st.Availability1hPct = availability(recs, now, time.Hour)
	st.Availability24hPct = availability(recs, now, 24*time.Hour)
	st.Availability7dPct = availability(recs, now, 7*24*time.Hour)
	return st
}

// classifyTrend compares the first-half mean against the second-half mean
// of the most recent successful latencies (at most trendWindow). A shift
// beyond ±10% is a trend; fewer than 3 points is insufficient data.
func classifyTrend(successAvgs []float64) Trend {
	recent := successAvgs
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}
	if len(recent) < 3 {
		return TrendInsufficient
	}
	half := len(recent) / 2
	first := mean(recent[:half])
	second := mean(recent[half:])
	if first == 0 {
		return TrendStable
	}
	change := (second - first) / first
	switch {
	case change > 0.10:
		return TrendWorsening
	case change < -0.10:
		return TrendImproving
	default:
		return TrendStable
	}
}

// availability is the success percentage over records within the trailing
// window; no records in the window yields 0.
func availability(recs []model.PingRecord, now time.Time, window time.Duration) float64 {
	cutoff := now.Add(-window)
	var total, ok int
	for _, rec := range recs {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		total++
		if rec.Success {
			ok++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ok) / float64(total) * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - avg
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
