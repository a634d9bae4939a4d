package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/logging"
	"github.com/muurk/arpsweep/internal/server"
	"github.com/muurk/arpsweep/internal/tui"
	"github.com/muurk/arpsweep/internal/ui"
)

// Serve and browse flags
var (
	listenAddr      string
	refreshInterval time.Duration
	serveRef        string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address (default: server.listen setting)")
	serveCmd.Flags().DurationVar(&refreshInterval, "refresh-interval", 0, "Time between background sweeps, 0 disables them (default: server.refresh setting)")
	serveCmd.Flags().StringVar(&serveRef, "ref", "", "Any address in the subnet swept in the background (default: local subnet)")
}

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sweep results over HTTP and WebSocket",
	Long: `Serve the discovery engine over a JSON HTTP API.

Routes:
  GET /api/hosts?ref=IP                 hosts on a subnet
  GET /api/self                         the local interface
  GET /api/search/ip?ip=A&ip=B&ref=IP   hosts by address
  GET /api/search/mac?mac=F&ref=IP      hosts by MAC fragment
  GET /api/search/type?type=T&ref=IP    hosts by vendor type
  GET /ws                               live snapshots after every background sweep

The server stops gracefully on Ctrl+C or SIGTERM.`,
	Example: `  # Serve on the configured address
  arpsweep serve

  # Listen on all interfaces and sweep every 30 seconds
  arpsweep serve --listen :8680 --refresh-interval 30s`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	engine, err := newEngine(settings)
	if err != nil {
		return fail(printer, "Setup failed", err)
	}

	cfg := server.Config{
		Listen:          settings.Server.Listen,
		RefreshInterval: settings.RefreshInterval(),
		RefIP:           serveRef,
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen = listenAddr
	}
	if cmd.Flags().Changed("refresh-interval") {
		cfg.RefreshInterval = refreshInterval
	}

	refreshText := "disabled"
	if cfg.RefreshInterval > 0 {
		refreshText = cfg.RefreshInterval.String()
	}
	printer.PrintHeader("HTTP Server", "arpsweep serve",
		ui.Detail{Key: "Listen", Value: "http://" + cfg.Listen},
		ui.Detail{Key: "WebSocket", Value: "ws://" + cfg.Listen + "/ws"},
		ui.Detail{Key: "Refresh", Value: refreshText},
	)

	srv := server.New(cfg, engine, logging.Named("server"))
	if err := srv.Start(cmd.Context()); err != nil {
		return fail(printer, "Server failed", err)
	}
	return nil
}

// browseCmd runs the interactive host browser
var browseCmd = &cobra.Command{
	Use:   "browse [ref-ip]",
	Short: "Browse hosts interactively",
	Long: `Sweep a subnet and browse its hosts in a full-screen terminal interface.

Keys: / filter, enter details, r rescan, s sweep another subnet, q quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	refIP := ""
	if len(args) > 0 {
		refIP = args[0]
	}

	engine, err := newEngine(settings)
	if err != nil {
		return fail(printer, "Setup failed", err)
	}

	// The browser runs one sweep at a time, so the engine needs no lock here.
	sweep := func(ctx context.Context, ref string, refresh bool) ([]discovery.HostRecord, discovery.SweepInfo, error) {
		if refresh {
			engine.Invalidate()
		}
		hosts, err := engine.Discover(ctx, ref)
		return hosts, engine.LastSweep(), err
	}

	// Probes run in parallel, so a sweep takes about one probe timeout plus
	// resolution.
	expected := 2*settings.EngineConfig().Timeout() + time.Second

	model := tui.NewBrowserModel(cmd.Context(), sweep, refIP, expected)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
