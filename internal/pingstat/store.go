// Package pingstat maintains per-host rolling ping histories and derives
// statistics from them. Histories are bounded, FIFO-evicted, in-memory
// only, and reset on process start.
package pingstat

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tsdash/internal/model"
)

// DefaultCapacity bounds each host's history.
const DefaultCapacity = 100

// Pinger issues one probe burst and returns the raw text output.
type Pinger interface {
	Ping(ctx context.Context, hostname string, count int, timeout time.Duration) (string, error)
}

// Store owns the rolling histories. Appends for any host are serialized
// through the store mutex; probe execution happens outside the lock.
type Store struct {
	pinger   Pinger
	capacity int
	logger   logrus.FieldLogger

	mu      sync.Mutex
	history map[string][]model.PingRecord
	loops   map[string]chan struct{}

	now func() time.Time
}

func NewStore(pinger Pinger, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		pinger:   pinger,
		capacity: capacity,
		logger:   logrus.WithField("service", "pingstat"),
		history:  make(map[string][]model.PingRecord),
		loops:    make(map[string]chan struct{}),
		now:      time.Now,
	}
}

// ProbeWithStats issues count probes against hostname and appends exactly
// one record to its history, including on timeout or transport error
// (Success=false, PacketLossPct=100).
func (s *Store) ProbeWithStats(ctx context.Context, hostname string, count int, timeout time.Duration) model.PingRecord {
	if count <= 0 {
		count = 1
	}
	raw, err := s.pinger.Ping(ctx, hostname, count, timeout)

	rec := model.PingRecord{
		Timestamp:     s.now(),
		Hostname:      hostname,
		PacketLossPct: 100,
	}
	if err == nil {
		lats, loss := parsePing(raw, count)
		rec.Latencies = lats
		rec.PacketLossPct = loss
		rec.Success = len(lats) > 0
		if rec.Success {
			rec.AvgLatencyMs, rec.MinLatencyMs, rec.MaxLatencyMs = summarize(lats)
		}
	} else {
		s.logger.WithField("host", hostname).Debugf("probe failed: %v", err)
	}

	s.append(hostname, rec)
	return rec
}

// History returns a copy of the host's records, oldest first.
func (s *Store) History(hostname string) []model.PingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.history[hostname]
	out := make([]model.PingRecord, len(recs))
	copy(out, recs)
	return out
}

// StartContinuous begins a periodic probe loop for hostname. Only one loop
// per host is active: starting again stops the previous loop. The stop
// condition is checked between rounds, never mid-round. The returned
// function stops this loop.
func (s *Store) StartContinuous(ctx context.Context, hostname string, interval time.Duration, count int, timeout time.Duration) func() {
	stop := make(chan struct{})

	s.mu.Lock()
	s.stopLocked(hostname)
	s.loops[hostname] = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ProbeWithStats(ctx, hostname, count, timeout)
			}
		}
	}()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A channel is closed only while registered, so a stale handle
		// from a superseded loop is a no-op instead of a double close.
		if s.loops[hostname] == stop {
			s.stopLocked(hostname)
		}
	}
}

func (s *Store) stopLocked(hostname string) {
	if ch, ok := s.loops[hostname]; ok {
		close(ch)
		delete(s.loops, hostname)
	}
}

func (s *Store) append(hostname string, rec model.PingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := append(s.history[hostname], rec)
	if len(recs) > s.capacity {
		recs = recs[len(recs)-s.capacity:]
	}
	s.history[hostname] = recs
}

func summarize(values []float64) (avg, min, max float64) {
	min = values[0]
	max = values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return sum / float64(len(values)), min, max
}
