package discovery

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type fakePinger struct {
	mu        sync.Mutex
	reachable map[string]bool
	errs      map[string]error
	calls     []string
}

func (f *fakePinger) Ping(ctx context.Context, ip string, timeout time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ip)
	if err := f.errs[ip]; err != nil {
		return false, err
	}
	return f.reachable[ip], nil
}

func (f *fakePinger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeResolver struct {
	mu    sync.Mutex
	macs  map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeResolver) Resolve(ctx context.Context, ip string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ip)
	if err := f.errs[ip]; err != nil {
		return "", err
	}
	mac, ok := f.macs[ip]
	if !ok {
		return "", ErrNoEntry
	}
	return mac, nil
}

func (f *fakeResolver) sortedCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

// fakeSelf returns results in order, repeating the last one.
type fakeSelf struct {
	results []SelfInfo
	errs    []error
	calls   int
}

func (f *fakeSelf) Self(ctx context.Context) (SelfInfo, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return SelfInfo{}, f.errs[i]
	}
	if len(f.results) == 0 {
		return SelfInfo{}, errors.New("no self info configured")
	}
	return f.results[min(i, len(f.results)-1)], nil
}

type fakeVendors map[string]string

func (f fakeVendors) Lookup(mac string) (string, bool) {
	if len(mac) < 8 {
		return "", false
	}
	v, ok := f[strings.ToLower(mac[:8])]
	return v, ok
}

type fakeNamer map[string]string

func (f fakeNamer) Names(ctx context.Context) (map[string]string, error) {
	return f, nil
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// subnetFixture is a 10.0.0.0/24 network with three live hosts.
type subnetFixture struct {
	pinger   *fakePinger
	resolver *fakeResolver
	self     *fakeSelf
	clock    *testClock
}

func newSubnetFixture() *subnetFixture {
	return &subnetFixture{
		pinger: &fakePinger{reachable: map[string]bool{
			"10.0.0.5":  true,
			"10.0.0.20": true,
			"10.0.0.42": true,
		}},
		resolver: &fakeResolver{macs: map[string]string{
			"10.0.0.5":  "AA:BB:CC:00:00:05",
			"10.0.0.20": "b8-27-eb-12-34-56",
			"10.0.0.42": "0:1b:63:a:b:c",
		}},
		self: &fakeSelf{results: []SelfInfo{
			{Interface: "wlan0", IP: "10.0.0.42", MAC: "00:1B:63:0A:0B:0C"},
		}},
		clock: &testClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func (f *subnetFixture) engine(config Config) (*Engine, error) {
	e, err := New(config, Collaborators{
		Pinger:   f.pinger,
		Resolver: f.resolver,
		Self:     f.self,
		Vendors: fakeVendors{
			"b8:27:eb": "Raspberry Pi",
			"00:1b:63": "Apple",
		},
	}, zap.NewNop())
	if err != nil {
		return nil, err
	}
	e.now = f.clock.now
	return e, nil
}
