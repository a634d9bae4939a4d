// Package discovery finds the hosts on the local /24 subnet.
//
// An Engine enumerates the subnet of a reference address (or of the local
// machine's own address), probes every address for reachability, resolves the
// hardware address of each reachable host and classifies it by vendor. The
// result is cached per subnet for a configurable time and can be searched by
// IP, MAC fragment or vendor type.
//
// # Sweep
//
// A discovery cycle runs in phases:
//  1. Serve a cached result if it is younger than the cache TTL
//  2. Resolve the self IP if no reference address is known
//  3. Build the sweep range (prefix.2 to prefix.254 by default)
//  4. Probe every address concurrently
//  5. Resolve hardware addresses of the reachable addresses concurrently
//  6. Cache the host list
//
// Each fan-out waits for every probe before it returns. Per-address failures
// are logged and reported as unreachable or unresolved, never as call errors.
//
// # Collaborators
//
// The engine never runs commands itself. Reachability checks, neighbour table
// lookups, interface listing, vendor lookup and hostname lookup are injected
// through the Pinger, ARPResolver, SelfResolver, VendorLookup and Namer
// interfaces:
//
//	engine, err := discovery.New(discovery.DefaultConfig(), discovery.Collaborators{
//	    Pinger:   probe.NewCommandPinger(runner, adapter),
//	    Resolver: probe.NewCommandResolver(runner, adapter),
//	    Self:     probe.NewCommandSelf(runner, adapter),
//	    Vendors:  vendor.Default(),
//	}, logger)
//	if err != nil {
//	    return err
//	}
//
//	hosts, err := engine.Discover(ctx, "")
//
// # Errors
//
// Construction fails with *ConfigError. Query calls fail with *InputError for
// malformed arguments and *AddressError for a bad reference address. A sweep
// fails with *SelfIPError when the local address cannot be found after one
// retry; the underlying *NoActiveInterfaceError or *ParseError is wrapped.
package discovery
