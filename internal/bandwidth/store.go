// Package bandwidth derives upload/download rates from cumulative
// per-interface byte counters and keeps a bounded rate history per
// interface. History is in-memory only and resets on process start.
package bandwidth

import (
	"fmt"
	"sync"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/sirupsen/logrus"

	"tsdash/internal/model"
)

// DefaultCapacity bounds each interface's rate history.
const DefaultCapacity = 50

// CounterReader reads cumulative byte counters for a named interface.
type CounterReader interface {
	Counters(name string) (bytesSent, bytesRecv uint64, err error)
}

// GopsutilReader reads counters through gopsutil.
type GopsutilReader struct{}

func (GopsutilReader) Counters(name string) (uint64, uint64, error) {
	stats, err := psnet.IOCounters(true)
	if err != nil {
		return 0, 0, err
	}
	for _, st := range stats {
		if st.Name == name {
			return st.BytesSent, st.BytesRecv, nil
		}
	}
	return 0, 0, fmt.Errorf("interface %q not found", name)
}

type counters struct {
	bytesSent uint64
	bytesRecv uint64
	timestamp time.Time
}

// Store owns previous counters and rate histories per interface. Sample
// calls for any interface are serialized through the store mutex.
type Store struct {
	reader   CounterReader
	capacity int
	logger   logrus.FieldLogger

	mu      sync.Mutex
	prev    map[string]counters
	history map[string][]model.BandwidthPoint

	now func() time.Time
}

func NewStore(reader CounterReader, capacity int) *Store {
	if reader == nil {
		reader = GopsutilReader{}
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		reader:   reader,
		capacity: capacity,
		logger:   logrus.WithField("service", "bandwidth"),
		prev:     make(map[string]counters),
		history:  make(map[string][]model.BandwidthPoint),
		now:      time.Now,
	}
}

// Sample reads the interface's counters and returns the derived rates plus
// the rate history. The first sample for an interface is a cold start and
// yields zero rates. Reader failures are surfaced on the Err field with
// zero rates, never as a Go error.
func (s *Store) Sample(iface string) model.BandwidthSample {
	sent, recv, err := s.reader.Counters(iface)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sample := model.BandwidthSample{Interface: iface}
	if err != nil {
		s.logger.WithField("iface", iface).Debugf("counter read failed: %v", err)
		sample.Err = err.Error()
		sample.UploadHistory, sample.DownloadHistory = s.historiesLocked(iface)
		return sample
	}

	cur := counters{bytesSent: sent, bytesRecv: recv, timestamp: now}
	prev, seen := s.prev[iface]
	s.prev[iface] = cur
	if !seen {
		sample.UploadHistory, sample.DownloadHistory = s.historiesLocked(iface)
		return sample
	}

	elapsed := cur.timestamp.Sub(prev.timestamp).Seconds()
	if elapsed > 0 {
		// Floor at zero: counter resets must not surface as negative rates.
		sample.UploadBps = rate(cur.bytesSent, prev.bytesSent, elapsed)
		sample.DownloadBps = rate(cur.bytesRecv, prev.bytesRecv, elapsed)
	}

	points := append(s.history[iface], model.BandwidthPoint{
		Timestamp:   now,
		UploadBps:   sample.UploadBps,
		DownloadBps: sample.DownloadBps,
	})
	if len(points) > s.capacity {
		points = points[len(points)-s.capacity:]
	}
	s.history[iface] = points

	sample.UploadHistory, sample.DownloadHistory = s.historiesLocked(iface)
	return sample
}

// History returns a copy of the interface's rate points, oldest first.
func (s *Store) History(iface string) []model.BandwidthPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := s.history[iface]
	out := make([]model.BandwidthPoint, len(points))
	copy(out, points)
	return out
}

func (s *Store) historiesLocked(iface string) (up, down []float64) {
	for _, p := range s.history[iface] {
		up = append(up, p.UploadBps)
		down = append(down, p.DownloadBps)
	}
	return up, down
}

func rate(cur, prev uint64, elapsed float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / elapsed
}
