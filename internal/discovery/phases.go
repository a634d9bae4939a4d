package discovery

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Probe checks every address for reachability concurrently and returns once
// all checks have finished. An empty list sweeps the local subnet, resolving
// the self IP first when it is not yet known.
//
// Individual probe failures never fail the call; the address is reported
// unreachable.
func (e *Engine) Probe(ctx context.Context, addrs []string) (ProbeResult, error) {
	if len(addrs) == 0 {
		if e.selfIP == "" {
			if _, err := e.ResolveSelf(ctx); err != nil {
				return ProbeResult{}, err
			}
		}
		full, err := BuildRange(e.selfIP, e.config.IncludeEndpoints)
		if err != nil {
			return ProbeResult{}, err
		}
		addrs = full
	}
	return e.probe(ctx, addrs), nil
}

func (e *Engine) probe(ctx context.Context, addrs []string) ProbeResult {
	timeout := e.config.Timeout()
	alive := make([]bool, len(addrs))

	var g errgroup.Group
	for i, ip := range addrs {
		if !isIPv4(ip) {
			e.logger.Debug("skipping malformed address", zap.String("ip", ip))
			continue
		}
		g.Go(func() error {
			ok, err := e.collab.Pinger.Ping(ctx, ip, timeout)
			if err != nil {
				e.logger.Debug("probe failed", zap.Error(&ProbeError{IP: ip, Err: err}))
				return nil
			}
			alive[i] = ok
			return nil
		})
	}
	_ = g.Wait()

	result := ProbeResult{
		Reachable:   make([]string, 0, len(addrs)),
		Unreachable: make([]string, 0, len(addrs)),
	}
	for i, ip := range addrs {
		if alive[i] {
			result.Reachable = append(result.Reachable, ip)
		} else {
			result.Unreachable = append(result.Unreachable, ip)
		}
	}
	return result
}

// Resolve looks up the hardware address of every address concurrently and
// returns once all lookups have finished. Every entry must be an IPv4
// address; an empty list returns an empty result without any lookups.
func (e *Engine) Resolve(ctx context.Context, addrs []string) (ResolveResult, error) {
	for _, ip := range addrs {
		if !isIPv4(ip) {
			return ResolveResult{}, &InputError{Operation: "resolve", Input: ip, Reason: "expected an IPv4 address"}
		}
	}
	if len(addrs) == 0 {
		return ResolveResult{Hosts: []HostRecord{}, Unresolved: []string{}}, nil
	}

	names := e.hostnames(ctx)
	selfIP := e.selfIP
	records := make([]*HostRecord, len(addrs))

	var g errgroup.Group
	for i, ip := range addrs {
		g.Go(func() error {
			raw, err := e.collab.Resolver.Resolve(ctx, ip)
			if err != nil {
				if !errors.Is(err, ErrNoEntry) {
					e.logger.Debug("resolve failed", zap.Error(&ResolveError{IP: ip, Err: err}))
				}
				return nil
			}
			mac, err := NormalizeMAC(raw)
			if err != nil {
				e.logger.Debug("resolve failed", zap.Error(&ResolveError{IP: ip, Err: err}))
				return nil
			}
			records[i] = &HostRecord{
				IP:         ip,
				MAC:        mac,
				VendorType: e.vendorType(mac),
				Hostname:   names[ip],
				IsSelf:     ip == selfIP,
			}
			return nil
		})
	}
	_ = g.Wait()

	result := ResolveResult{
		Hosts:      make([]HostRecord, 0, len(addrs)),
		Unresolved: make([]string, 0),
	}
	for i, ip := range addrs {
		if records[i] != nil {
			result.Hosts = append(result.Hosts, *records[i])
		} else {
			result.Unresolved = append(result.Unresolved, ip)
		}
	}
	return result, nil
}

// hostnames asks the optional Namer for names. Failures only lose the names.
func (e *Engine) hostnames(ctx context.Context) map[string]string {
	if e.collab.Namer == nil {
		return nil
	}
	names, err := e.collab.Namer.Names(ctx)
	if err != nil {
		e.logger.Warn("hostname lookup failed", zap.Error(err))
		return nil
	}
	return names
}
