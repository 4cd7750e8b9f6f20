// Package tailscale wraps the external tailscale CLI: status snapshots,
// ping probes, and netcheck diagnostics. All output parsing lives here so
// the rest of the dashboard only sees typed records.
package tailscale

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"tsdash/internal/execx"
)

// Client runs tailscale subcommands through an execx.Runner.
type Client struct {
	run    execx.Runner
	binary string
	logger logrus.FieldLogger
}

func NewClient(run execx.Runner, binary string) *Client {
	if binary == "" {
		binary = "tailscale"
	}
	return &Client{
		run:    run,
		binary: binary,
		logger: logrus.WithField("service", "tailscale"),
	}
}

// Status fetches and parses `tailscale status --json`. Peers are returned
// in stable hostname order.
func (c *Client) Status(ctx context.Context) (Status, error) {
	raw, err := c.run.Output(ctx, c.binary, "status", "--json")
	if err != nil {
		return Status{}, fmt.Errorf("status: %w", err)
	}

	var parsed statusJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Status{}, fmt.Errorf("status: parse: %w", err)
	}

	st := Status{BackendState: parsed.BackendState}
	if parsed.Self != nil {
		self := fromJSON(*parsed.Self)
		st.Self = &self
	}
	for _, dev := range parsed.Peer {
		st.Peers = append(st.Peers, fromJSON(dev))
	}
	sort.Slice(st.Peers, func(i, j int) bool {
		return st.Peers[i].Hostname < st.Peers[j].Hostname
	})
	return st, nil
}

// Ping runs one probe burst against a host and returns the raw text output
// for pattern extraction. A non-nil error with partial output is possible
// on timeout.
func (c *Client) Ping(ctx context.Context, hostname string, count int, timeout time.Duration) (string, error) {
	if count <= 0 {
		count = 1
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, err := c.run.Output(ctx, c.binary, "ping", "-c", strconv.Itoa(count), hostname)
	if err != nil {
		c.logger.WithField("host", hostname).Debugf("ping failed: %v", err)
		return out, err
	}
	return out, nil
}

// Netcheck returns the raw free-text diagnostic report.
func (c *Client) Netcheck(ctx context.Context) (string, error) {
	out, err := c.run.Output(ctx, c.binary, "netcheck")
	if err != nil {
		return out, fmt.Errorf("netcheck: %w", err)
	}
	return out, nil
}

// LocalIP reports the client's own mesh address, "?" when unavailable.
func (c *Client) LocalIP(ctx context.Context) string {
	out, err := c.run.Output(ctx, c.binary, "ip", "-4")
	if err != nil || out == "" {
		return "?"
	}
	return out
}

// ExitNodes summarizes advertised exit nodes and whether one is in use.
func (s Status) ExitNodes() ExitNodeSummary {
	var sum ExitNodeSummary
	for _, peer := range s.Peers {
		if peer.ExitNodeOption || peer.ExitNode {
			sum.Advertised = append(sum.Advertised, peer.Hostname)
		}
		if peer.ExitNode {
			sum.InUse = true
		}
	}
	if s.Self != nil && s.Self.ExitNode {
		sum.InUse = true
	}
	return sum
}

func fromJSON(d deviceJSON) Device {
	host := d.HostName
	if host == "" {
		host = "?"
	}
	return Device{
		Hostname:       host,
		OS:             d.OS,
		IPs:            d.TailscaleIPs,
		Online:         d.Online,
		ExitNode:       d.ExitNode,
		ExitNodeOption: d.ExitNodeOption,
		Relay:          d.Relay,
		Endpoints:      d.Addrs,
		CurAddr:        d.CurAddr,
	}
}
