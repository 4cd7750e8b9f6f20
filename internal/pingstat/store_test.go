package pingstat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// scriptedPinger replays canned outputs per host, in call order. Safe for
// concurrent use so Compare can probe hosts in parallel.
type scriptedPinger struct {
	mu      sync.Mutex
	outputs map[string][]string
	errs    map[string][]error
	calls   map[string]int
}

func newScriptedPinger() *scriptedPinger {
	return &scriptedPinger{
		outputs: map[string][]string{},
		errs:    map[string][]error{},
		calls:   map[string]int{},
	}
}

func (p *scriptedPinger) add(host, out string, err error) {
	p.outputs[host] = append(p.outputs[host], out)
	p.errs[host] = append(p.errs[host], err)
}

func (p *scriptedPinger) Ping(_ context.Context, host string, _ int, _ time.Duration) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls[host]
	p.calls[host]++
	outs := p.outputs[host]
	if i >= len(outs) {
		return "", errors.New("unscripted call")
	}
	return outs[i], p.errs[host][i]
}

func pong(ms float64) string {
	return fmt.Sprintf("pong from nas (100.64.0.3) via DERP(fra) in %gms", ms)
}

func TestProbeWithStats_Success(t *testing.T) {
	t.Parallel()

	p := newScriptedPinger()
	p.add("nas", pong(12)+"\n"+pong(18)+"\n"+pong(15), nil)
	s := NewStore(p, 0)

	rec := s.ProbeWithStats(context.Background(), "nas", 3, time.Second)
	if !rec.Success {
		t.Fatalf("success=false")
	}
	if len(rec.Latencies) != 3 {
		t.Fatalf("latencies=%v", rec.Latencies)
	}
	if rec.AvgLatencyMs != 15 || rec.MinLatencyMs != 12 || rec.MaxLatencyMs != 18 {
		t.Fatalf("avg/min/max=%.1f/%.1f/%.1f", rec.AvgLatencyMs, rec.MinLatencyMs, rec.MaxLatencyMs)
	}
	if rec.PacketLossPct != 0 {
		t.Fatalf("loss=%.1f", rec.PacketLossPct)
	}
}

func TestProbeWithStats_TimeoutRecorded(t *testing.T) {
	t.Parallel()

	p := newScriptedPinger()
	p.add("dead", "", context.DeadlineExceeded)
	s := NewStore(p, 0)

	rec := s.ProbeWithStats(context.Background(), "dead", 3, time.Second)
	if rec.Success || rec.PacketLossPct != 100 {
		t.Fatalf("rec=%+v", rec)
	}
	if got := len(s.History("dead")); got != 1 {
		t.Fatalf("history=%d", got)
	}
}

func TestProbeWithStats_AlwaysOneRecord(t *testing.T) {
	t.Parallel()

	p := newScriptedPinger()
	p.add("mix", pong(10), nil)
	p.add("mix", "", errors.New("transport"))
	p.add("mix", pong(20), nil)
	s := NewStore(p, 0)

	for i := 0; i < 3; i++ {
		s.ProbeWithStats(context.Background(), "mix", 1, time.Second)
	}
	if got := len(s.History("mix")); got != 3 {
		t.Fatalf("history=%d", got)
	}
}

func TestHistory_CapacityFIFO(t *testing.T) {
	t.Parallel()

	p := newScriptedPinger()
	for i := 0; i < 7; i++ {
		p.add("nas", pong(float64(10+i)), nil)
	}
	s := NewStore(p, 5)
	for i := 0; i < 7; i++ {
		s.ProbeWithStats(context.Background(), "nas", 1, time.Second)
	}
	recs := s.History("nas")
	if len(recs) != 5 {
		t.Fatalf("len=%d", len(recs))
	}
	if recs[0].AvgLatencyMs != 12 || recs[4].AvgLatencyMs != 16 {
		t.Fatalf("window=%.0f..%.0f", recs[0].AvgLatencyMs, recs[4].AvgLatencyMs)
	}
}

func TestParsePing_ClassicAndLoss(t *testing.T) {
	t.Parallel()

	raw := "64 bytes from 100.64.0.3: icmp_seq=1 time=23.4 ms\n" +
		"64 bytes from 100.64.0.3: icmp_seq=2 time=25.0 ms\n" +
		"2 packets transmitted, 2 received, 0% packet loss"
	lats, loss := parsePing(raw, 2)
	if len(lats) != 2 || lats[0] != 23.4 {
		t.Fatalf("lats=%v", lats)
	}
	if loss != 0 {
		t.Fatalf("loss=%.1f", loss)
	}
}

func TestParsePing_DerivedLoss(t *testing.T) {
	t.Parallel()

	lats, loss := parsePing(pong(12), 4)
	if len(lats) != 1 || loss != 75 {
		t.Fatalf("lats=%v loss=%.1f", lats, loss)
	}
	if lats, loss = parsePing("no usable output", 2); len(lats) != 0 || loss != 100 {
		t.Fatalf("lats=%v loss=%.1f", lats, loss)
	}
}
