package discovery

import (
	"context"
	"time"
)

// Limits for Config.TimeoutSeconds.
const (
	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 60
)

// Config holds the engine configuration. It is fixed once the engine is built.
type Config struct {
	// TimeoutSeconds bounds every single reachability probe.
	// Default: 5
	TimeoutSeconds int

	// IncludeEndpoints adds .1 and .255 to the sweep range.
	// Default: false
	IncludeEndpoints bool

	// UseCache enables reuse of the last discovery result.
	// Default: true
	UseCache bool

	// CacheTTLSeconds is the maximum age of a reusable result.
	// Default: 60
	CacheTTLSeconds int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds:   5,
		IncludeEndpoints: false,
		UseCache:         true,
		CacheTTLSeconds:  60,
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		return &ConfigError{Field: "timeout", Value: c.TimeoutSeconds, Reason: "must be between 1 and 60 seconds"}
	}
	if c.CacheTTLSeconds < 0 {
		return &ConfigError{Field: "cache_ttl", Value: c.CacheTTLSeconds, Reason: "must not be negative"}
	}
	return nil
}

// Timeout returns TimeoutSeconds as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// HostRecord is one reachable host with a resolved hardware address.
type HostRecord struct {
	IP         string   `json:"ip"`
	MAC        string   `json:"mac"`
	VendorType string   `json:"type,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	IsSelf     bool     `json:"is_self"`
	Matched    []string `json:"matched,omitempty"` // set only on MAC search results
}

// SelfInfo describes the local machine's active interface.
type SelfInfo struct {
	Interface  string `json:"interface,omitempty"`
	IP         string `json:"ip"`
	MAC        string `json:"mac,omitempty"`
	Netmask    string `json:"netmask,omitempty"`
	VendorType string `json:"type,omitempty"`
}

// ProbeResult partitions a sweep range by reachability, both in input order.
type ProbeResult struct {
	Reachable   []string `json:"reachable"`
	Unreachable []string `json:"unreachable"`
}

// ResolveResult partitions reachable addresses by hardware-address resolution.
type ResolveResult struct {
	Hosts      []HostRecord `json:"hosts"`
	Unresolved []string     `json:"unresolved"`
}

// SearchResult is returned by IP and MAC searches. Missing holds every query
// term that matched no host.
type SearchResult struct {
	Hosts   []HostRecord `json:"hosts"`
	Missing []string     `json:"missing"`
}

// Pinger performs a single reachability check.
type Pinger interface {
	Ping(ctx context.Context, ip string, timeout time.Duration) (bool, error)
}

// ARPResolver resolves one IPv4 address to a hardware address. It returns
// ErrNoEntry when the address has no neighbour entry.
type ARPResolver interface {
	Resolve(ctx context.Context, ip string) (string, error)
}

// SelfResolver reports the local machine's active interface.
type SelfResolver interface {
	Self(ctx context.Context) (SelfInfo, error)
}

// VendorLookup maps a normalized MAC to a vendor label.
type VendorLookup interface {
	Lookup(mac string) (string, bool)
}

// Namer maps IPv4 addresses to hostnames. Optional.
type Namer interface {
	Names(ctx context.Context) (map[string]string, error)
}

// Collaborators bundles the external operations the engine drives.
// Pinger, Resolver and Self are required. Vendors and Namer may be nil.
type Collaborators struct {
	Pinger   Pinger
	Resolver ARPResolver
	Self     SelfResolver
	Vendors  VendorLookup
	Namer    Namer
}

// SweepInfo summarizes one completed sweep.
type SweepInfo struct {
	ID         string    `json:"sweep_id"`
	RefIP      string    `json:"ref_ip"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Probed     int       `json:"probed"`
	Reachable  int       `json:"reachable"`
	Hosts      int       `json:"hosts"`
}
