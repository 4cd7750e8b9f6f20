// Package topology assembles mesh snapshots: nodes from the status source,
// measured center-to-peer edges from latency probes. Each build is one
// immutable snapshot; a bounded TTL cache lets the presentation layer
// refresh cheaply.
package topology

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tsdash/internal/geo"
	"tsdash/internal/model"
	"tsdash/internal/quality"
	"tsdash/internal/tailscale"
)

// DefaultConcurrency bounds in-flight probes during one build.
const DefaultConcurrency = 8

// StatusSource provides the current mesh status snapshot.
type StatusSource interface {
	Status(ctx context.Context) (tailscale.Status, error)
}

// Prober measures latency to one peer. ok=false means the probe failed or
// timed out; latencyMs is nil in that case.
type Prober interface {
	Probe(ctx context.Context, hostname string) (ok bool, latencyMs *float64)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, hostname string) (bool, *float64)

func (f ProberFunc) Probe(ctx context.Context, hostname string) (bool, *float64) {
	return f(ctx, hostname)
}

// Builder constructs topology snapshots. It is safe for concurrent use;
// concurrent Build calls each produce their own snapshot, and the cache is
// published atomically under the mutex.
type Builder struct {
	status       StatusSource
	prober       Prober
	selfLocation func(ctx context.Context) model.Location
	concurrency  int
	ttl          time.Duration
	logger       logrus.FieldLogger

	mu       sync.Mutex
	cached   *model.TopologyGraph
	cachedAt time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithSelfLocation supplies a resolver for the local node's location
// (netcheck-based). Without it the center gets an all-Unknown location.
func WithSelfLocation(fn func(ctx context.Context) model.Location) Option {
	return func(b *Builder) { b.selfLocation = fn }
}

// WithConcurrency bounds in-flight probes per build.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithTTL sets the snapshot cache lifetime for Cached.
func WithTTL(ttl time.Duration) Option {
	return func(b *Builder) { b.ttl = ttl }
}

func NewBuilder(status StatusSource, prober Prober, opts ...Option) *Builder {
	b := &Builder{
		status:      status,
		prober:      prober,
		concurrency: DefaultConcurrency,
		ttl:         10 * time.Second,
		logger:      logrus.WithField("service", "topology"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build fetches the current status, probes every online peer through a
// bounded worker pool, and assembles one snapshot. A failing status source
// degrades to an empty graph; callers treat an empty connection map as
// "no data yet".
func (b *Builder) Build(ctx context.Context) *model.TopologyGraph {
	graph := &model.TopologyGraph{
		Connections: make(map[string]model.Edge),
		BuiltAt:     time.Now(),
	}

	st, err := b.status.Status(ctx)
	if err != nil {
		b.logger.Warnf("status fetch failed, returning empty graph: %v", err)
		return graph
	}
	if st.Self == nil {
		return graph
	}

	center := model.Node{
		Hostname:   st.Self.Hostname,
		IP:         st.Self.IP(),
		Online:     true,
		IsExitNode: st.Self.ExitNode,
		OS:         st.Self.OS,
		Location:   model.UnknownLocation(),
	}
	if b.selfLocation != nil {
		center.Location = b.selfLocation(ctx)
	}
	graph.CenterHostname = center.Hostname
	graph.Nodes = append(graph.Nodes, center)

	for _, peer := range st.Peers {
		graph.Nodes = append(graph.Nodes, model.Node{
			Hostname:   peer.Hostname,
			IP:         peer.IP(),
			Online:     peer.Online,
			IsExitNode: peer.ExitNode || peer.ExitNodeOption,
			OS:         peer.OS,
			Location:   geo.Resolve(peer.Relay, peer.Endpoints, peer.Hostname),
		})
	}

	b.probeOnline(ctx, st, graph)
	return graph
}

// Cached returns the last snapshot if it is younger than the TTL, building
// a fresh one otherwise. The result is published atomically: readers never
// see a partially built graph.
func (b *Builder) Cached(ctx context.Context) *model.TopologyGraph {
	b.mu.Lock()
	if b.cached != nil && time.Since(b.cachedAt) < b.ttl {
		cached := b.cached
		b.mu.Unlock()
		return cached
	}
	b.mu.Unlock()

	graph := b.Build(ctx)

	b.mu.Lock()
	b.cached = graph
	b.cachedAt = time.Now()
	b.mu.Unlock()
	return graph
}

func (b *Builder) probeOnline(ctx context.Context, st tailscale.Status, graph *model.TopologyGraph) {
	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, peer := range st.Peers {
		if !peer.Online {
			continue
		}
		wg.Add(1)
		go func(peer tailscale.Device) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ok, latency := b.prober.Probe(ctx, peer.Hostname)

			edge := model.Edge{
				Source:         graph.CenterHostname,
				Target:         peer.Hostname,
				Status:         model.EdgeUnreachable,
				ConnectionType: connectionType(peer),
				Quality:        quality.Classify(nil),
			}
			if ok {
				edge.Status = model.EdgeConnected
				edge.LatencyMs = latency
				edge.Quality = quality.Classify(latency)
			}

			mu.Lock()
			graph.Connections[model.EdgeKey(edge.Source, edge.Target)] = edge
			mu.Unlock()
		}(peer)
	}
	wg.Wait()
}

func connectionType(peer tailscale.Device) model.ConnectionType {
	switch {
	case peer.Relay != "":
		return model.ConnectionRelay
	case len(peer.Endpoints) > 0 || peer.CurAddr != "":
		return model.ConnectionDirect
	default:
		return model.ConnectionUnknown
	}
}
