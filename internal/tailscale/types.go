package tailscale

// statusJSON mirrors the subset of `tailscale status --json` the dashboard
// consumes. Unknown fields are ignored.
type statusJSON struct {
	BackendState string                `json:"BackendState"`
	Self         *deviceJSON           `json:"Self"`
	Peer         map[string]deviceJSON `json:"Peer"`
}

type deviceJSON struct {
	HostName       string   `json:"HostName"`
	DNSName        string   `json:"DNSName"`
	OS             string   `json:"OS"`
	TailscaleIPs   []string `json:"TailscaleIPs"`
	Online         bool     `json:"Online"`
	ExitNode       bool     `json:"ExitNode"`
	ExitNodeOption bool     `json:"ExitNodeOption"`
	Relay          string   `json:"Relay"`
	Addrs          []string `json:"Addrs"`
	CurAddr        string   `json:"CurAddr"`
}

// Device is one node record from the status source.
type Device struct {
	Hostname       string
	OS             string
	IPs            []string
	Online         bool
	ExitNode       bool
	ExitNodeOption bool
	Relay          string
	Endpoints      []string
	CurAddr        string
}

// IP returns the device's first address or "?" when none is known.
func (d Device) IP() string {
	if len(d.IPs) == 0 {
		return "?"
	}
	return d.IPs[0]
}

// Status is one parsed snapshot from the status source.
type Status struct {
	BackendState string
	Self         *Device
	Peers        []Device
}

// ExitNodeSummary describes exit-node usage at snapshot time.
type ExitNodeSummary struct {
	Advertised []string
	InUse      bool
}
