// tsdash renders live mesh VPN diagnostics in the terminal: peer topology,
// bandwidth, and ping statistics derived from the tailscale CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tsdash/internal/bandwidth"
	"tsdash/internal/config"
	"tsdash/internal/execx"
	"tsdash/internal/model"
	"tsdash/internal/netdiag"
	"tsdash/internal/pingstat"
	"tsdash/internal/render"
	"tsdash/internal/tailscale"
	"tsdash/internal/topology"
)

// app wires the dashboard session: one explicitly owned store set per
// process, injected into the components that need it.
type app struct {
	cfg       config.Config
	client    *tailscale.Client
	checker   *netdiag.Checker
	pings     *pingstat.Store
	bandwidth *bandwidth.Store
	builder   *topology.Builder
}

func newApp(cfg config.Config) *app {
	client := tailscale.NewClient(execx.NewOSRunner(), cfg.Binary)
	checker := netdiag.NewChecker(client, cfg.STUNServers, time.Duration(cfg.PingTimeoutSec)*time.Second)
	pings := pingstat.NewStore(client, cfg.PingHistory)

	timeout := time.Duration(cfg.PingTimeoutSec) * time.Second
	prober := topology.ProberFunc(func(ctx context.Context, host string) (bool, *float64) {
		rec := pings.ProbeWithStats(ctx, host, 1, timeout)
		if !rec.Success {
			return false, nil
		}
		avg := rec.AvgLatencyMs
		return true, &avg
	})

	return &app{
		cfg:       cfg,
		client:    client,
		checker:   checker,
		pings:     pings,
		bandwidth: bandwidth.NewStore(nil, cfg.BandwidthHistory),
		builder: topology.NewBuilder(client, prober,
			topology.WithConcurrency(cfg.ProbeConcurrency),
			topology.WithTTL(time.Duration(cfg.SnapshotTTLSec)*time.Second),
			topology.WithSelfLocation(checker.SelfLocation),
		),
	}
}

func main() {
	var configPath string
	var a *app

	root := &cobra.Command{
		Use:           "tsdash",
		Short:         "terminal dashboard for a tailscale mesh",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			a = newApp(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config")

	root.AddCommand(
		topologyCmd(&a),
		statusCmd(&a),
		bandwidthCmd(&a),
		pingCmd(&a),
		compareCmd(&a),
		netcheckCmd(&a),
		watchCmd(&a),
	)

	if err := root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func topologyCmd(a **app) *cobra.Command {
	var mode string
	var width, height int
	cmd := &cobra.Command{
		Use:   "topology",
		Short: "render the mesh topology map",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if width == 0 {
				width = app.cfg.CanvasWidth
			}
			if height == 0 {
				height = app.cfg.CanvasHeight
			}
			graph := app.builder.Build(cmd.Context())
			grid := render.Topology(graph, width, height, render.Mode(mode))
			fmt.Println(grid.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(render.ModeStandard), "layout: standard|geo")
	cmd.Flags().IntVar(&width, "width", 0, "canvas width")
	cmd.Flags().IntVar(&height, "height", 0, "canvas height")
	return cmd
}

func statusCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "show the peer table and exit-node summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			st, err := app.client.Status(cmd.Context())
			if err != nil {
				fmt.Println("no data: status source unavailable")
				return nil
			}
			printStatus(st, app.client.LocalIP(cmd.Context()))
			return nil
		},
	}
}

func bandwidthCmd(a **app) *cobra.Command {
	var iface string
	cmd := &cobra.Command{
		Use:   "bandwidth",
		Short: "sample interface bandwidth and render its history",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if iface == "" {
				iface = app.cfg.Interface
			}
			sample := app.bandwidth.Sample(iface)
			for _, line := range render.Bandwidth(sample, app.cfg.CanvasWidth) {
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&iface, "iface", "", "interface name")
	return cmd
}

func pingCmd(a **app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "ping <hostname>",
		Short: "probe a peer and show its rolling statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if count == 0 {
				count = app.cfg.PingCount
			}
			host := args[0]
			timeout := time.Duration(app.cfg.PingTimeoutSec) * time.Second

			rec := app.pings.ProbeWithStats(cmd.Context(), host, count, timeout)
			printRecord(rec)
			printStats(app.pings.Statistics(host))

			fmt.Println(render.PingGraph(app.pings.History(host), app.cfg.CanvasWidth, 8, "latency ms").String())
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "probes per burst")
	return cmd
}

func compareCmd(a **app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "compare <hostname>...",
		Short: "probe several peers and rank them by latency",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if count == 0 {
				count = app.cfg.PingCount
			}
			timeout := time.Duration(app.cfg.PingTimeoutSec) * time.Second
			cmp := app.pings.Compare(cmd.Context(), args, count, timeout)

			for _, res := range cmp.Results {
				if res.Record.Success {
					fmt.Printf("%-20s %8.1f ms  loss %.0f%%\n", res.Hostname, res.Record.AvgLatencyMs, res.Record.PacketLossPct)
				} else {
					fmt.Printf("%-20s   unreachable\n", res.Hostname)
				}
			}
			sum := cmp.Summary
			fmt.Printf("\nok=%d failed=%d", sum.Successful, sum.Failed)
			if sum.Successful > 0 {
				fmt.Printf("  fastest=%s (%.1f ms)  slowest=%s (%.1f ms)  avg=%.1f ms  range=%.1f ms",
					sum.Fastest, sum.FastestAvgMs, sum.Slowest, sum.SlowestAvgMs, sum.OverallAvgMs, sum.RangeMs)
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "probes per host")
	return cmd
}

func netcheckCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "netcheck",
		Short: "run network diagnostics and show the resolved location",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			rep := app.checker.Check(cmd.Context())
			if rep.Raw != "" {
				fmt.Println(rep.Raw)
				fmt.Println()
			}
			loc := rep.Location
			fmt.Printf("location: %s, %s (%s)  region=%s\n", loc.City, loc.Country, loc.CountryCode, loc.Region)
			if rep.PublicAddr != "" {
				fmt.Printf("public addr: %s  nat=%s\n", rep.PublicAddr, rep.NATType)
			}
			return nil
		},
	}
}

func watchCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "continuously refresh topology and bandwidth",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ticker := time.NewTicker(time.Duration(app.cfg.RefreshSec) * time.Second)
			defer ticker.Stop()

			for {
				renderDashboard(ctx, app)
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
}

func renderDashboard(ctx context.Context, app *app) {
	fmt.Print("\033[2J\033[H")
	st, err := app.client.Status(ctx)
	if err == nil {
		printStatus(st, app.client.LocalIP(ctx))
	} else {
		fmt.Println("no data: status source unavailable")
	}
	fmt.Println()

	graph := app.builder.Cached(ctx)
	fmt.Println(render.Topology(graph, app.cfg.CanvasWidth, app.cfg.CanvasHeight, render.ModeStandard).String())
	fmt.Println()

	sample := app.bandwidth.Sample(app.cfg.Interface)
	for _, line := range render.Bandwidth(sample, app.cfg.CanvasWidth) {
		fmt.Println(line)
	}
}

func printStatus(st tailscale.Status, localIP string) {
	fmt.Printf("backend: %s  local ip: %s\n", st.BackendState, localIP)

	sum := st.ExitNodes()
	exits := "none"
	if len(sum.Advertised) > 0 {
		exits = strings.Join(sum.Advertised, ", ")
	}
	using := "not using exit node"
	if sum.InUse {
		using = "using exit node"
	}
	fmt.Printf("exit nodes: %s (%s)\n\n", exits, using)

	fmt.Printf("%-20s %-16s %-7s %-5s %s\n", "HOSTNAME", "IP", "ONLINE", "EXIT", "OS")
	for _, peer := range st.Peers {
		online := "no"
		if peer.Online {
			online = "yes"
		}
		exit := ""
		if peer.ExitNode || peer.ExitNodeOption {
			exit = "yes"
		}
		fmt.Printf("%-20s %-16s %-7s %-5s %s\n", peer.Hostname, peer.IP(), online, exit, peer.OS)
	}
}

func printRecord(rec model.PingRecord) {
	if !rec.Success {
		fmt.Printf("%s: unreachable (loss %.0f%%)\n", rec.Hostname, rec.PacketLossPct)
		return
	}
	fmt.Printf("%s: avg %.1f ms  min %.1f ms  max %.1f ms  loss %.0f%%\n",
		rec.Hostname, rec.AvgLatencyMs, rec.MinLatencyMs, rec.MaxLatencyMs, rec.PacketLossPct)
}

func printStats(st pingstat.Stats) {
	if st.TotalAttempts == 0 {
		return
	}
	fmt.Printf("history: %d attempts, %.0f%% success, trend %s\n", st.TotalAttempts, st.SuccessRatePct, st.Trend)
	fmt.Printf("availability: 1h %.0f%%  24h %.0f%%  7d %.0f%%\n",
		st.Availability1hPct, st.Availability24hPct, st.Availability7dPct)
}
