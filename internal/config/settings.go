package config

import (
	"fmt"
	"time"

	"github.com/muurk/arpsweep/internal/discovery"
)

// CurrentVersion is the settings file format version.
const CurrentVersion = 1

// Probe modes
const (
	// ProbeModeCommand runs the system ping tool
	ProbeModeCommand = "command"
	// ProbeModeICMP sends echo requests from the process
	ProbeModeICMP = "icmp"
)

// Resolve modes
const (
	// ResolveModeCommand reads the system arp table
	ResolveModeCommand = "command"
	// ResolveModeARPing sends ARP requests from the process
	ResolveModeARPing = "arping"
)

// Self modes
const (
	// SelfModeCommand parses ifconfig/ipconfig output
	SelfModeCommand = "command"
	// SelfModeNative reads the interface table through the net package
	SelfModeNative = "native"
)

// Settings represents the entire user configuration file.
type Settings struct {
	Version          int             `yaml:"version"`
	Timeout          int             `yaml:"timeout"`           // Per-probe timeout in seconds (1-60)
	IncludeEndpoints bool            `yaml:"include_endpoints"` // Sweep .1 and .255 as well
	UseCache         bool            `yaml:"use_cache"`         // Serve repeated sweeps from cache
	CacheTTL         int             `yaml:"cache_ttl"`         // Cache lifetime in seconds
	Probe            ProbeSettings   `yaml:"probe"`
	Resolve          ResolveSettings `yaml:"resolve"`
	Self             SelfSettings    `yaml:"self"`
	Vendors          VendorSettings  `yaml:"vendors"`
	Names            NameSettings    `yaml:"names"`
	Server           ServerSettings  `yaml:"server"`
}

// ProbeSettings selects how reachability is checked.
type ProbeSettings struct {
	Mode string `yaml:"mode"` // "command" or "icmp"
}

// ResolveSettings selects how hardware addresses are resolved.
type ResolveSettings struct {
	Mode string `yaml:"mode"` // "command" or "arping"
}

// SelfSettings selects how the local interface is found.
type SelfSettings struct {
	Mode      string `yaml:"mode"`                // "command" or "native"
	Interface string `yaml:"interface,omitempty"` // Restrict to one interface (native and arping modes)
}

// VendorSettings extends the built-in vendor table.
type VendorSettings struct {
	OUIFile   string            `yaml:"oui_file,omitempty"`  // IEEE oui.txt to load
	Overrides map[string]string `yaml:"overrides,omitempty"` // OUI prefix -> label, e.g. "B8:27:EB": "Lab Pi"
}

// NameSettings controls mDNS hostname enrichment.
type NameSettings struct {
	Enabled  bool     `yaml:"enabled"`
	Timeout  int      `yaml:"timeout"`            // Browse window in seconds
	Services []string `yaml:"services,omitempty"` // Service types to browse; empty uses the defaults
}

// ServerSettings configures "arpsweep serve".
type ServerSettings struct {
	Listen  string `yaml:"listen"`  // HTTP listen address
	Refresh int    `yaml:"refresh"` // Seconds between background sweeps; 0 disables them
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	engine := discovery.DefaultConfig()
	return &Settings{
		Version:          CurrentVersion,
		Timeout:          engine.TimeoutSeconds,
		IncludeEndpoints: engine.IncludeEndpoints,
		UseCache:         engine.UseCache,
		CacheTTL:         engine.CacheTTLSeconds,
		Probe:            ProbeSettings{Mode: ProbeModeCommand},
		Resolve:          ResolveSettings{Mode: ResolveModeCommand},
		Self:             SelfSettings{Mode: SelfModeCommand},
		Names: NameSettings{
			Enabled: false,
			Timeout: 3,
		},
		Server: ServerSettings{
			Listen:  "127.0.0.1:8680",
			Refresh: 60,
		},
	}
}

// Validate checks every field and returns the first problem found.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if err := s.EngineConfig().Validate(); err != nil {
		return err
	}
	if err := oneOf("probe.mode", s.Probe.Mode, ProbeModeCommand, ProbeModeICMP); err != nil {
		return err
	}
	if err := oneOf("resolve.mode", s.Resolve.Mode, ResolveModeCommand, ResolveModeARPing); err != nil {
		return err
	}
	if err := oneOf("self.mode", s.Self.Mode, SelfModeCommand, SelfModeNative); err != nil {
		return err
	}
	if s.Names.Timeout < 0 {
		return fmt.Errorf("names.timeout must not be negative, got %d", s.Names.Timeout)
	}
	if s.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if s.Server.Refresh < 0 {
		return fmt.Errorf("server.refresh must not be negative, got %d", s.Server.Refresh)
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (valid: %v)", field, value, allowed)
}

// EngineConfig returns the discovery engine configuration.
func (s *Settings) EngineConfig() discovery.Config {
	return discovery.Config{
		TimeoutSeconds:   s.Timeout,
		IncludeEndpoints: s.IncludeEndpoints,
		UseCache:         s.UseCache,
		CacheTTLSeconds:  s.CacheTTL,
	}
}

// NamesTimeout returns the mDNS browse window.
func (s *Settings) NamesTimeout() time.Duration {
	return time.Duration(s.Names.Timeout) * time.Second
}

// RefreshInterval returns the server's background sweep interval.
func (s *Settings) RefreshInterval() time.Duration {
	return time.Duration(s.Server.Refresh) * time.Second
}
