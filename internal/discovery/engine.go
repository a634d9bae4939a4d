package discovery

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// selfAttempts is the number of self-info lookups Discover makes before it
// gives up on finding the local address.
const selfAttempts = 2

// Engine sweeps the local /24 subnet and answers queries over the result.
// An Engine is not safe for concurrent use; callers serialize top-level calls.
type Engine struct {
	config Config
	collab Collaborators
	logger *zap.Logger
	cache  *resultCache
	selfIP string
	last   SweepInfo

	now func() time.Time
}

// New creates a discovery engine. It fails with *ConfigError when the
// configuration is out of range.
func New(config Config, collab Collaborators, logger *zap.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if collab.Pinger == nil || collab.Resolver == nil || collab.Self == nil {
		return nil, errors.New("discovery: pinger, resolver and self collaborators are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		config: config,
		collab: collab,
		logger: logger,
		cache:  newResultCache(config.UseCache, config.CacheTTL()),
		now:    time.Now,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// SelfIP returns the remembered local address, or "" before it is known.
func (e *Engine) SelfIP() string {
	return e.selfIP
}

// LastSweep describes the most recent completed sweep. The zero value means
// no sweep has completed yet.
func (e *Engine) LastSweep() SweepInfo {
	return e.last
}

// Invalidate drops every cached result.
func (e *Engine) Invalidate() {
	e.cache.reset()
}

// ResolveSelf looks up the local machine's active interface and remembers its
// address for later sweeps.
func (e *Engine) ResolveSelf(ctx context.Context) (SelfInfo, error) {
	info, err := e.collab.Self.Self(ctx)
	if err != nil {
		return SelfInfo{}, err
	}
	if !isIPv4(info.IP) {
		return SelfInfo{}, &ParseError{
			Platform: runtime.GOOS,
			Field:    "ipv4 address",
			Output:   info.IP,
			Err:      fmt.Errorf("interface %q reported no usable IPv4 address", info.Interface),
		}
	}

	if info.MAC != "" {
		if mac, err := NormalizeMAC(info.MAC); err == nil {
			info.MAC = mac
		} else {
			e.logger.Debug("self hardware address not normalizable",
				zap.String("mac", info.MAC),
				zap.Error(err),
			)
		}
		info.VendorType = e.vendorType(info.MAC)
	}

	e.selfIP = info.IP
	e.logger.Debug("resolved self info",
		zap.String("interface", info.Interface),
		zap.String("ip", info.IP),
		zap.String("mac", info.MAC),
	)
	return info, nil
}

// Discover returns the hosts on the /24 subnet of refIP, or of the local
// address when refIP is empty. A cached result younger than the cache TTL is
// returned as is, without probing.
//
// Steps:
//  1. Return a live cache entry
//  2. Resolve the self IP when neither refIP nor a remembered self IP exists
//  3. Build the sweep range
//  4. Probe the range
//  5. Resolve hardware addresses of reachable addresses
//  6. Cache and return the hosts
func (e *Engine) Discover(ctx context.Context, refIP string) ([]HostRecord, error) {
	if refIP != "" && !isIPv4(refIP) {
		return nil, &AddressError{Address: refIP}
	}
	if hosts, ok := e.cache.get(e.cacheKey(refIP), e.now()); ok {
		e.logger.Debug("serving discovery from cache",
			zap.String("ref_ip", refIP),
			zap.Int("hosts", len(hosts)),
		)
		return hosts, nil
	}

	if refIP == "" && e.selfIP == "" {
		if err := e.findSelfIP(ctx); err != nil {
			return nil, err
		}
		return e.Discover(ctx, e.selfIP)
	}

	if refIP == "" {
		refIP = e.selfIP
	}
	return e.sweep(ctx, refIP)
}

func (e *Engine) findSelfIP(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= selfAttempts; attempt++ {
		if _, err := e.ResolveSelf(ctx); err != nil {
			lastErr = err
			e.logger.Warn("self info lookup failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return nil
	}
	return &SelfIPError{Err: lastErr}
}

func (e *Engine) sweep(ctx context.Context, refIP string) ([]HostRecord, error) {
	addrs, err := BuildRange(refIP, e.config.IncludeEndpoints)
	if err != nil {
		return nil, err
	}

	sweepID := newSweepID()
	start := e.now()
	logger := e.logger.With(zap.String("sweep_id", sweepID), zap.String("ref_ip", refIP))
	logger.Info("starting sweep",
		zap.Int("addresses", len(addrs)),
		zap.Duration("probe_timeout", e.config.Timeout()),
	)

	probed := e.probe(ctx, addrs)
	logger.Debug("probe phase complete",
		zap.Int("reachable", len(probed.Reachable)),
		zap.Int("unreachable", len(probed.Unreachable)),
	)

	resolved, err := e.Resolve(ctx, probed.Reachable)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	finished := e.now()
	if err := e.cache.put(prefixOrEmpty(refIP), resolved.Hosts, finished); err != nil {
		logger.Warn("sweep result not cached", zap.Error(err))
	}
	e.last = SweepInfo{
		ID:         sweepID,
		RefIP:      refIP,
		StartedAt:  start,
		FinishedAt: finished,
		Probed:     len(addrs),
		Reachable:  len(probed.Reachable),
		Hosts:      len(resolved.Hosts),
	}

	logger.Info("sweep complete",
		zap.Int("hosts", len(resolved.Hosts)),
		zap.Int("unresolved", len(resolved.Unresolved)),
		zap.Duration("duration", finished.Sub(start)),
	)
	return resolved.Hosts, nil
}

// cacheKey selects the cache slot for a Discover call.
func (e *Engine) cacheKey(refIP string) string {
	if refIP != "" {
		return prefixOrEmpty(refIP)
	}
	if e.selfIP != "" {
		return prefixOrEmpty(e.selfIP)
	}
	return ""
}

func (e *Engine) vendorType(mac string) string {
	if e.collab.Vendors == nil || mac == "" {
		return ""
	}
	if v, ok := e.collab.Vendors.Lookup(mac); ok {
		return v
	}
	return ""
}

func prefixOrEmpty(ip string) string {
	p, err := subnetPrefix(ip)
	if err != nil {
		return ""
	}
	return p
}

func newSweepID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
