package discovery

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/projectdiscovery/gcache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.TimeoutSeconds != 5 {
		t.Errorf("expected TimeoutSeconds to be 5, got %d", config.TimeoutSeconds)
	}
	if config.IncludeEndpoints {
		t.Error("expected IncludeEndpoints to be false")
	}
	if !config.UseCache {
		t.Error("expected UseCache to be true")
	}
	if config.CacheTTLSeconds != 60 {
		t.Errorf("expected CacheTTLSeconds to be 60, got %d", config.CacheTTLSeconds)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{name: "timeout zero", mutate: func(c *Config) { c.TimeoutSeconds = 0 }, wantField: "timeout"},
		{name: "timeout above max", mutate: func(c *Config) { c.TimeoutSeconds = 61 }, wantField: "timeout"},
		{name: "negative ttl", mutate: func(c *Config) { c.CacheTTLSeconds = -1 }, wantField: "cache_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			_, err := newSubnetFixture().engine(config)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestNew_BoundaryTimeouts(t *testing.T) {
	for _, timeout := range []int{1, 60} {
		config := DefaultConfig()
		config.TimeoutSeconds = timeout
		if _, err := newSubnetFixture().engine(config); err != nil {
			t.Errorf("timeout %d should be accepted, got %v", timeout, err)
		}
	}
}

func TestNew_MissingCollaborators(t *testing.T) {
	_, err := New(DefaultConfig(), Collaborators{Pinger: &fakePinger{}}, nil)
	if err == nil {
		t.Fatal("expected error for missing collaborators")
	}
}

func TestDiscover_ResolvesSelfWhenNoReference(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	hosts, err := e.Discover(context.Background(), "")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if f.self.calls != 1 {
		t.Errorf("self lookups = %d, want 1", f.self.calls)
	}
	if e.SelfIP() != "10.0.0.42" {
		t.Errorf("SelfIP() = %q, want 10.0.0.42", e.SelfIP())
	}
	if f.pinger.callCount() != 253 {
		t.Errorf("probes = %d, want 253", f.pinger.callCount())
	}

	want := []HostRecord{
		{IP: "10.0.0.5", MAC: "aa:bb:cc:00:00:05"},
		{IP: "10.0.0.20", MAC: "b8:27:eb:12:34:56", VendorType: "Raspberry Pi"},
		{IP: "10.0.0.42", MAC: "00:1b:63:0a:0b:0c", VendorType: "Apple", IsSelf: true},
	}
	if !reflect.DeepEqual(hosts, want) {
		t.Errorf("hosts = %+v\nwant %+v", hosts, want)
	}

	last := e.LastSweep()
	if last.ID == "" || last.Hosts != 3 || last.Reachable != 3 || last.Probed != 253 {
		t.Errorf("LastSweep() = %+v", last)
	}
}

func TestDiscover_RetriesSelfOnce(t *testing.T) {
	f := newSubnetFixture()
	f.self.errs = []error{&NoActiveInterfaceError{Platform: "linux"}}
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	if _, err := e.Discover(context.Background(), ""); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.self.calls != 2 {
		t.Errorf("self lookups = %d, want 2", f.self.calls)
	}
}

func TestDiscover_SelfIPError(t *testing.T) {
	f := newSubnetFixture()
	noIface := &NoActiveInterfaceError{Platform: "linux", Checked: []string{"lo"}}
	f.self.errs = []error{noIface, noIface, noIface}
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	hosts, err := e.Discover(context.Background(), "")
	var selfErr *SelfIPError
	if !errors.As(err, &selfErr) {
		t.Fatalf("expected *SelfIPError, got %v", err)
	}
	var ifaceErr *NoActiveInterfaceError
	if !errors.As(err, &ifaceErr) {
		t.Errorf("expected wrapped *NoActiveInterfaceError, got %v", err)
	}
	if hosts != nil {
		t.Errorf("expected no hosts, got %v", hosts)
	}
	if f.self.calls != 2 {
		t.Errorf("self lookups = %d, want 2", f.self.calls)
	}
	if f.pinger.callCount() != 0 {
		t.Errorf("no probes expected, got %d", f.pinger.callCount())
	}
}

func TestDiscover_SelfWithoutIPv4IsParseError(t *testing.T) {
	f := newSubnetFixture()
	f.self.results = []SelfInfo{{Interface: "en0"}}
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	_, err = e.Discover(context.Background(), "")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected wrapped *ParseError, got %v", err)
	}
}

func TestDiscover_CacheWithinTTL(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx := context.Background()

	first, err := e.Discover(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	probes := f.pinger.callCount()

	f.clock.advance(59 * time.Second)
	second, err := e.Discover(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.pinger.callCount() != probes {
		t.Errorf("cached discover issued %d new probes", f.pinger.callCount()-probes)
	}
	if len(first) == 0 || &first[0] != &second[0] {
		t.Error("expected the identical cached snapshot")
	}

	f.clock.advance(time.Second)
	third, err := e.Discover(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.pinger.callCount() != 2*probes {
		t.Errorf("expected a fresh sweep after TTL, probes = %d", f.pinger.callCount())
	}
	if &third[0] == &first[0] {
		t.Error("expected a new snapshot after TTL")
	}
}

func TestDiscover_CacheSharedWithSelfSubnet(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx := context.Background()

	if _, err := e.Discover(ctx, ""); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	probes := f.pinger.callCount()

	if _, err := e.Discover(ctx, "10.0.0.200"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if _, err := e.Discover(ctx, ""); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.pinger.callCount() != probes {
		t.Errorf("same subnet should be served from cache, probes = %d", f.pinger.callCount())
	}
}

func TestDiscover_CachePerSubnet(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx := context.Background()

	if _, err := e.Discover(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	other, err := e.Discover(ctx, "192.168.7.1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other subnet should have no hosts, got %v", other)
	}
	if f.pinger.callCount() != 2*253 {
		t.Errorf("probes = %d, want %d", f.pinger.callCount(), 2*253)
	}
}

func TestDiscover_CacheDisabled(t *testing.T) {
	f := newSubnetFixture()
	config := DefaultConfig()
	config.UseCache = false
	e, err := f.engine(config)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := e.Discover(context.Background(), "10.0.0.1"); err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
	}
	if f.pinger.callCount() != 2*253 {
		t.Errorf("probes = %d, want %d", f.pinger.callCount(), 2*253)
	}
}

func TestDiscover_EmptyResultNotServedFromCache(t *testing.T) {
	f := newSubnetFixture()
	f.pinger.reachable = nil
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := e.Discover(context.Background(), "10.0.0.1"); err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
	}
	if f.pinger.callCount() != 2*253 {
		t.Errorf("empty results must not be reused, probes = %d", f.pinger.callCount())
	}
}

func TestDiscover_Invalidate(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx := context.Background()

	if _, err := e.Discover(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	e.Invalidate()
	if _, err := e.Discover(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.pinger.callCount() != 2*253 {
		t.Errorf("probes = %d, want %d", f.pinger.callCount(), 2*253)
	}
}

func TestDiscover_InvalidReference(t *testing.T) {
	e, err := newSubnetFixture().engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	_, err = e.Discover(context.Background(), "not-an-ip")
	var addrErr *AddressError
	if !errors.As(err, &addrErr) {
		t.Fatalf("expected *AddressError, got %v", err)
	}
}

func TestDiscover_ResolvesOnlyReachable(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	if _, err := e.Discover(context.Background(), "10.0.0.1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"10.0.0.20", "10.0.0.42", "10.0.0.5"}
	if got := f.resolver.sortedCalls(); !reflect.DeepEqual(got, want) {
		t.Errorf("resolver calls = %v, want %v", got, want)
	}
}

func TestDiscover_IncludeEndpoints(t *testing.T) {
	f := newSubnetFixture()
	config := DefaultConfig()
	config.IncludeEndpoints = true
	e, err := f.engine(config)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if _, err := e.Discover(context.Background(), "10.0.0.1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.pinger.callCount() != 255 {
		t.Errorf("probes = %d, want 255", f.pinger.callCount())
	}
}

func TestDiscover_CancelledContextNotCached(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Discover(ctx, "10.0.0.1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := e.Discover(context.Background(), "10.0.0.1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.pinger.callCount() != 2*253 {
		t.Errorf("cancelled sweep must not be cached, probes = %d", f.pinger.callCount())
	}
}

func TestDiscover_CacheStoreFailureIsLogged(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	core, logs := observer.New(zapcore.WarnLevel)
	e.logger = zap.New(core)
	e.cache.store = gcache.New[string, *cacheEntry](cacheSize).LRU().
		SerializeFunc(func(string, *cacheEntry) (*cacheEntry, error) {
			return nil, errors.New("store full")
		}).
		Build()

	hosts, err := e.Discover(context.Background(), "10.0.0.1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(hosts) != 3 {
		t.Errorf("expected 3 hosts despite the cache failure, got %d", len(hosts))
	}

	warnings := logs.FilterMessage("sweep result not cached").All()
	if len(warnings) != 1 {
		t.Fatalf("expected one cache warning, got %d", len(warnings))
	}
	if got := warnings[0].ContextMap()["error"]; got != "caching 10.0.0: store full" {
		t.Errorf("error field = %v", got)
	}

	if _, err := e.Discover(context.Background(), "10.0.0.1"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if f.pinger.callCount() != 2*253 {
		t.Errorf("a failed store must not serve cached results, probes = %d", f.pinger.callCount())
	}
}

func TestResolveSelf(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	info, err := e.ResolveSelf(context.Background())
	if err != nil {
		t.Fatalf("ResolveSelf() error = %v", err)
	}
	if info.MAC != "00:1b:63:0a:0b:0c" {
		t.Errorf("MAC = %q", info.MAC)
	}
	if info.VendorType != "Apple" {
		t.Errorf("VendorType = %q, want Apple", info.VendorType)
	}
	if e.SelfIP() != "10.0.0.42" {
		t.Errorf("SelfIP() = %q", e.SelfIP())
	}
}
