package model

import "time"

// Unknown is the sentinel for unresolved location fields. Location fields
// are always set, never empty.
const (
	Unknown     = "Unknown"
	UnknownCode = "??"
)

// Quality is a discrete latency classification.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityUnknown   Quality = "unknown"
)

// ConnectionType describes how a peer is reached.
type ConnectionType string

const (
	ConnectionDirect  ConnectionType = "direct"
	ConnectionRelay   ConnectionType = "relay"
	ConnectionUnknown ConnectionType = "unknown"
)

// EdgeStatus is the reachability outcome of a probe.
type EdgeStatus string

const (
	EdgeConnected   EdgeStatus = "connected"
	EdgeUnreachable EdgeStatus = "unreachable"
)

// Location is a heuristic geographic record. All string fields carry the
// Unknown sentinel when unresolved.
type Location struct {
	City        string
	Country     string
	CountryCode string
	Region      string
	Latitude    *float64
	Longitude   *float64
	Timezone    string
}

// UnknownLocation returns a Location with every field at its sentinel.
func UnknownLocation() Location {
	return Location{
		City:        Unknown,
		Country:     Unknown,
		CountryCode: UnknownCode,
		Region:      Unknown,
		Timezone:    Unknown,
	}
}

// Node is a read-only snapshot of one device in the mesh. Nodes are rebuilt
// on every topology refresh, never mutated in place.
type Node struct {
	Hostname   string
	IP         string
	Online     bool
	IsExitNode bool
	OS         string
	Location   Location
}

// Edge is a measured connection from the center node to a peer, keyed by
// "source->target". Edges live for one topology build only.
type Edge struct {
	Source         string
	Target         string
	Status         EdgeStatus
	LatencyMs      *float64
	ConnectionType ConnectionType
	Quality        Quality
}

// EdgeKey builds the connection-map key for a source/target pair.
func EdgeKey(source, target string) string {
	return source + "->" + target
}

// TopologyGraph is one immutable snapshot of the mesh: the local node, its
// peers, and the measured center-to-peer edges.
type TopologyGraph struct {
	Nodes          []Node
	Connections    map[string]Edge
	CenterHostname string
	BuiltAt        time.Time
}

// Center returns the center node, or nil for an empty graph.
func (g *TopologyGraph) Center() *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Hostname == g.CenterHostname {
			return &g.Nodes[i]
		}
	}
	return nil
}

// BandwidthPoint is one derived rate sample for an interface.
type BandwidthPoint struct {
	Timestamp   time.Time
	UploadBps   float64
	DownloadBps float64
}

// BandwidthSample is the result of one bandwidth store sample call.
// Err marks collaborator failures; rates are zero in that case.
type BandwidthSample struct {
	Interface       string
	UploadBps       float64
	DownloadBps     float64
	UploadHistory   []float64
	DownloadHistory []float64
	Err             string
}

// PingRecord is one ping attempt appended to a host's rolling history.
// Exactly one record is appended per attempt, including timeouts and
// transport errors (Success=false, PacketLossPct=100).
type PingRecord struct {
	Timestamp     time.Time
	Hostname      string
	Success       bool
	Latencies     []float64
	PacketLossPct float64
	AvgLatencyMs  float64
	MinLatencyMs  float64
	MaxLatencyMs  float64
}
