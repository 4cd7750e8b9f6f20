package bandwidth

import (
	"errors"
	"testing"
	"time"
)

// fakeReader returns scripted counters in call order.
type fakeReader struct {
	sent []uint64
	recv []uint64
	err  error
	i    int
}

func (f *fakeReader) Counters(string) (uint64, uint64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	if f.i >= len(f.sent) {
		return f.sent[len(f.sent)-1], f.recv[len(f.recv)-1], nil
	}
	s, r := f.sent[f.i], f.recv[f.i]
	f.i++
	return s, r, nil
}

func testStore(reader CounterReader, capacity int) *Store {
	s := NewStore(reader, capacity)
	tick := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return s
}

func TestSample_ColdStart(t *testing.T) {
	t.Parallel()

	s := testStore(&fakeReader{sent: []uint64{1000}, recv: []uint64{2000}}, 0)
	sample := s.Sample("eth0")
	if sample.UploadBps != 0 || sample.DownloadBps != 0 {
		t.Fatalf("up/down=%.1f/%.1f", sample.UploadBps, sample.DownloadBps)
	}
	if sample.Err != "" {
		t.Fatalf("err=%q", sample.Err)
	}
}

func TestSample_Rates(t *testing.T) {
	t.Parallel()

	s := testStore(&fakeReader{
		sent: []uint64{1000, 2500},
		recv: []uint64{2000, 10000},
	}, 0)
	s.Sample("eth0")
	sample := s.Sample("eth0")
	// 1 second between fake clock ticks.
	if sample.UploadBps != 1500 || sample.DownloadBps != 8000 {
		t.Fatalf("up/down=%.1f/%.1f", sample.UploadBps, sample.DownloadBps)
	}
	if len(sample.UploadHistory) != 1 || sample.UploadHistory[0] != 1500 {
		t.Fatalf("history=%v", sample.UploadHistory)
	}
}

func TestSample_CounterResetFloorsAtZero(t *testing.T) {
	t.Parallel()

	s := testStore(&fakeReader{
		sent: []uint64{5000, 100},
		recv: []uint64{5000, 100},
	}, 0)
	s.Sample("eth0")
	sample := s.Sample("eth0")
	if sample.UploadBps != 0 || sample.DownloadBps != 0 {
		t.Fatalf("up/down=%.1f/%.1f", sample.UploadBps, sample.DownloadBps)
	}
}

func TestSample_HistoryCapacity(t *testing.T) {
	t.Parallel()

	var sent, recv []uint64
	for i := uint64(0); i <= 60; i++ {
		sent = append(sent, i*1000)
		recv = append(recv, i*2000)
	}
	s := testStore(&fakeReader{sent: sent, recv: recv}, 50)
	for i := 0; i <= 60; i++ {
		s.Sample("eth0")
	}

	points := s.History("eth0")
	if len(points) != 50 {
		t.Fatalf("len=%d", len(points))
	}
	// All deltas are equal; oldest entries must have been evicted in order.
	for _, p := range points {
		if p.UploadBps != 1000 || p.DownloadBps != 2000 {
			t.Fatalf("point=%+v", p)
		}
	}
}

func TestSample_ReaderError(t *testing.T) {
	t.Parallel()

	s := testStore(&fakeReader{err: errors.New("no such interface")}, 0)
	sample := s.Sample("wg0")
	if sample.Err == "" {
		t.Fatalf("expected error marker")
	}
	if sample.UploadBps != 0 || sample.DownloadBps != 0 {
		t.Fatalf("up/down=%.1f/%.1f", sample.UploadBps, sample.DownloadBps)
	}
	if len(s.History("wg0")) != 0 {
		t.Fatalf("history grew on error")
	}
}
