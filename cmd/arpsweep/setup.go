package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/arpsweep/internal/config"
	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/logging"
	"github.com/muurk/arpsweep/internal/mdns"
	"github.com/muurk/arpsweep/internal/platform"
	"github.com/muurk/arpsweep/internal/probe"
	"github.com/muurk/arpsweep/internal/vendor"
)

// runnerSlack is added to the probe timeout to bound each external command,
// so ping gets to report on its own before it is killed.
const runnerSlack = 2 * time.Second

// Global flags, applied over the settings file
var (
	configPath      string
	flagTimeout     int
	flagEndpoints   bool
	flagNoCache     bool
	flagCacheTTL    int
	flagProbeMode   string
	flagResolveMode string
	flagSelfMode    string
	flagNames       bool
	flagLogLevel    string
	flagInterface   string
)

// settings is loaded once per invocation by loadSettings.
var settings *config.Settings

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Settings file (default: per-user config directory)")
	flags.IntVar(&flagTimeout, "timeout", 0, "Per-probe timeout in seconds (1-60)")
	flags.BoolVar(&flagEndpoints, "include-endpoints", false, "Also sweep .1 and .255")
	flags.BoolVar(&flagNoCache, "no-cache", false, "Never reuse an earlier sweep")
	flags.IntVar(&flagCacheTTL, "cache-ttl", 0, "Seconds a sweep result may be reused")
	flags.StringVar(&flagProbeMode, "probe-mode", "", "Reachability check: command (system ping) or icmp")
	flags.StringVar(&flagResolveMode, "resolve-mode", "", "MAC resolution: command (system arp) or arping")
	flags.StringVar(&flagSelfMode, "self-mode", "", "Local interface lookup: command or native")
	flags.StringVar(&flagInterface, "interface", "", "Restrict native lookups and arping to one interface")
	flags.BoolVar(&flagNames, "names", false, "Add hostnames announced over mDNS")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+" or silent)")
}

// loadSettings reads the settings file, applies flags over it and sets up
// logging. It runs before every command except version.
func loadSettings(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(flagLogLevel); err != nil {
		return err
	}

	s, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, s); err != nil {
		return err
	}
	settings = s

	logging.Debug("Settings loaded",
		zap.String("config", configPath),
		zap.Int("timeout", s.Timeout),
		zap.String("probe_mode", s.Probe.Mode),
		zap.String("resolve_mode", s.Resolve.Mode),
		zap.String("self_mode", s.Self.Mode),
		zap.Bool("names", s.Names.Enabled),
	)
	return nil
}

// applyFlags overrides settings with every flag set on the command line and
// validates the result.
func applyFlags(cmd *cobra.Command, s *config.Settings) error {
	changed := cmd.Flags().Changed

	if changed("timeout") {
		s.Timeout = flagTimeout
	}
	if changed("include-endpoints") {
		s.IncludeEndpoints = flagEndpoints
	}
	if changed("no-cache") {
		s.UseCache = !flagNoCache
	}
	if changed("cache-ttl") {
		s.CacheTTL = flagCacheTTL
	}
	if changed("probe-mode") {
		s.Probe.Mode = flagProbeMode
	}
	if changed("resolve-mode") {
		s.Resolve.Mode = flagResolveMode
	}
	if changed("self-mode") {
		s.Self.Mode = flagSelfMode
	}
	if changed("interface") {
		s.Self.Interface = flagInterface
	}
	if changed("names") {
		s.Names.Enabled = flagNames
	}
	return s.Validate()
}

// newEngine builds a discovery engine from the settings.
func newEngine(s *config.Settings) (*discovery.Engine, error) {
	logger := logging.GetLogger()

	collab, err := newCollaborators(s, logger)
	if err != nil {
		return nil, err
	}
	return discovery.New(s.EngineConfig(), collab, logger.Named("discovery"))
}

// newCollaborators picks the probe, resolve and self implementations named by
// the settings. The platform adapter is only required by command modes.
func newCollaborators(s *config.Settings, logger *zap.Logger) (discovery.Collaborators, error) {
	var collab discovery.Collaborators
	timeout := s.EngineConfig().Timeout()

	needsAdapter := s.Probe.Mode == config.ProbeModeCommand ||
		s.Resolve.Mode == config.ResolveModeCommand ||
		s.Self.Mode == config.SelfModeCommand

	var (
		adapter platform.Adapter
		runner  probe.Runner
	)
	if needsAdapter {
		var err error
		adapter, err = platform.Current()
		if err != nil {
			return collab, fmt.Errorf("%w (use --probe-mode icmp --resolve-mode arping --self-mode native)", err)
		}
		runnerConfig := probe.DefaultConfig()
		runnerConfig.Timeout = max(runnerConfig.Timeout, timeout+runnerSlack)
		runner = probe.NewExecRunner(runnerConfig, logger.Named("exec"))
	}

	switch s.Probe.Mode {
	case config.ProbeModeICMP:
		collab.Pinger = probe.NewICMPPinger()
	default:
		collab.Pinger = probe.NewCommandPinger(runner, adapter)
	}

	switch s.Resolve.Mode {
	case config.ResolveModeARPing:
		collab.Resolver = probe.NewARPingResolver(s.Self.Interface, timeout)
	default:
		collab.Resolver = probe.NewCommandResolver(runner, adapter)
	}

	switch s.Self.Mode {
	case config.SelfModeNative:
		collab.Self = probe.NewInterfaceSelf(s.Self.Interface)
	default:
		collab.Self = probe.NewCommandSelf(runner, adapter)
	}

	vendors, err := newVendorTable(s.Vendors)
	if err != nil {
		return collab, err
	}
	collab.Vendors = vendors

	if s.Names.Enabled {
		collab.Namer = newNamer(s, logger)
	}

	logger.Debug("Collaborators configured",
		zap.String("os", runtime.GOOS),
		zap.String("probe", s.Probe.Mode),
		zap.String("resolve", s.Resolve.Mode),
		zap.String("self", s.Self.Mode),
		zap.Int("vendor_prefixes", vendors.Len()),
	)
	return collab, nil
}

// newVendorTable layers the IEEE registry file and user overrides over the
// built-in table. Overrides win over both.
func newVendorTable(vs config.VendorSettings) (*vendor.Table, error) {
	table := vendor.Default()
	if vs.OUIFile != "" {
		n, err := table.LoadFile(os.ExpandEnv(vs.OUIFile))
		if err != nil {
			return nil, err
		}
		logging.Debug("Loaded OUI registry", zap.String("path", vs.OUIFile), zap.Int("entries", n))
	}
	if len(vs.Overrides) > 0 {
		if err := table.Merge(vs.Overrides); err != nil {
			return nil, fmt.Errorf("vendors.overrides: %w", err)
		}
	}
	return table, nil
}

// newNamer builds the mDNS browser used for hostnames.
func newNamer(s *config.Settings, logger *zap.Logger) *mdns.Browser {
	cfg := mdns.DefaultConfig()
	if s.Names.Timeout > 0 {
		cfg.Timeout = s.NamesTimeout()
	}
	if len(s.Names.Services) > 0 {
		cfg.Services = s.Names.Services
	}
	return mdns.NewBrowser(cfg, logger.Named("mdns"))
}
