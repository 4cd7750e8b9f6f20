package pingstat

import (
	"context"
	"sync"
	"time"

	"tsdash/internal/model"
)

// HostResult is one host's outcome within a comparison run.
type HostResult struct {
	Hostname string
	Record   model.PingRecord
}

// Summary aggregates a comparison over hosts that produced a successful
// average latency.
type Summary struct {
	Successful   int
	Failed       int
	Fastest      string
	FastestAvgMs float64
	Slowest      string
	SlowestAvgMs float64
	OverallAvgMs float64
	RangeMs      float64
}

// Comparison holds per-host results in input order plus the aggregate.
type Comparison struct {
	Results []HostResult
	Summary Summary
}

// Compare probes every host concurrently and aggregates the outcome.
// History appends stay serialized inside the store.
func (s *Store) Compare(ctx context.Context, hostnames []string, count int, timeout time.Duration) Comparison {
	results := make([]HostResult, len(hostnames))
	var wg sync.WaitGroup
	for i, host := range hostnames {
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			results[i] = HostResult{
				Hostname: host,
				Record:   s.ProbeWithStats(ctx, host, count, timeout),
			}
		}(i, host)
	}
	wg.Wait()

	cmp := Comparison{Results: results}
	var sum float64
	for _, res := range results {
		if !res.Record.Success {
			cmp.Summary.Failed++
			continue
		}
		avg := res.Record.AvgLatencyMs
		if cmp.Summary.Successful == 0 || avg < cmp.Summary.FastestAvgMs {
			cmp.Summary.Fastest = res.Hostname
			cmp.Summary.FastestAvgMs = avg
		}
		if cmp.Summary.Successful == 0 || avg > cmp.Summary.SlowestAvgMs {
			cmp.Summary.Slowest = res.Hostname
			cmp.Summary.SlowestAvgMs = avg
		}
		cmp.Summary.Successful++
		sum += avg
	}
	if cmp.Summary.Successful > 0 {
		cmp.Summary.OverallAvgMs = sum / float64(cmp.Summary.Successful)
		cmp.Summary.RangeMs = cmp.Summary.SlowestAvgMs - cmp.Summary.FastestAvgMs
	}
	return cmp
}
