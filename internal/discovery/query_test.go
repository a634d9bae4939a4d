package discovery

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSearchByIP(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	got, err := e.SearchByIP(context.Background(), []string{"10.0.0.5", "10.0.0.250"}, "")
	if err != nil {
		t.Fatalf("SearchByIP() error = %v", err)
	}

	wantHosts := []HostRecord{{IP: "10.0.0.5", MAC: "aa:bb:cc:00:00:05"}}
	if !reflect.DeepEqual(got.Hosts, wantHosts) {
		t.Errorf("Hosts = %+v, want %+v", got.Hosts, wantHosts)
	}
	if !reflect.DeepEqual(got.Missing, []string{"10.0.0.250"}) {
		t.Errorf("Missing = %v, want [10.0.0.250]", got.Missing)
	}
	if f.self.calls != 0 {
		t.Errorf("first queried IP should select the subnet, self lookups = %d", f.self.calls)
	}
}

func TestSearchByIP_DuplicatesReportedOnce(t *testing.T) {
	e, err := newSubnetFixture().engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	got, err := e.SearchByIP(context.Background(), []string{"10.0.0.9", "10.0.0.20", "10.0.0.9"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("SearchByIP() error = %v", err)
	}
	if len(got.Hosts) != 1 || got.Hosts[0].IP != "10.0.0.20" {
		t.Errorf("Hosts = %+v", got.Hosts)
	}
	if !reflect.DeepEqual(got.Missing, []string{"10.0.0.9"}) {
		t.Errorf("Missing = %v", got.Missing)
	}
}

func TestSearchByIP_InvalidInput(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	for name, ips := range map[string][]string{
		"nil":         nil,
		"empty":       {},
		"blank entry": {"10.0.0.5", ""},
		"hostname":    {"router.local"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := e.SearchByIP(context.Background(), ips, "")
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("expected *InputError, got %v", err)
			}
		})
	}
	if f.pinger.callCount() != 0 {
		t.Errorf("invalid input must not sweep, probes = %d", f.pinger.callCount())
	}
}

func TestSearchByMAC(t *testing.T) {
	f := newSubnetFixture()
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx := context.Background()

	got, err := e.SearchByMAC(ctx, []string{"aa:bb"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("SearchByMAC() error = %v", err)
	}
	want := []HostRecord{{IP: "10.0.0.5", MAC: "aa:bb:cc:00:00:05", Matched: []string{"aa:bb"}}}
	if !reflect.DeepEqual(got.Hosts, want) {
		t.Errorf("Hosts = %+v, want %+v", got.Hosts, want)
	}
	if len(got.Missing) != 0 {
		t.Errorf("Missing = %v, want none", got.Missing)
	}

	cached, err := e.Discover(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	for _, h := range cached {
		if h.Matched != nil {
			t.Errorf("cached record %s was annotated: %v", h.IP, h.Matched)
		}
	}
}

func TestSearchByMAC_MultipleFragments(t *testing.T) {
	e, err := newSubnetFixture().engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	got, err := e.SearchByMAC(context.Background(), []string{"B8-27-EB", "0a:0b", "56", "ff:ff:ff"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("SearchByMAC() error = %v", err)
	}

	want := []HostRecord{
		{IP: "10.0.0.20", MAC: "b8:27:eb:12:34:56", VendorType: "Raspberry Pi", Matched: []string{"B8-27-EB", "56"}},
		{IP: "10.0.0.42", MAC: "00:1b:63:0a:0b:0c", VendorType: "Apple", Matched: []string{"0a:0b"}},
	}
	if !reflect.DeepEqual(got.Hosts, want) {
		t.Errorf("Hosts = %+v\nwant %+v", got.Hosts, want)
	}
	if !reflect.DeepEqual(got.Missing, []string{"ff:ff:ff"}) {
		t.Errorf("Missing = %v, want [ff:ff:ff]", got.Missing)
	}
}

func TestSearchByMAC_InvalidInput(t *testing.T) {
	e, err := newSubnetFixture().engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	for _, frags := range [][]string{nil, {"  "}} {
		_, err := e.SearchByMAC(context.Background(), frags, "")
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("SearchByMAC(%q) expected *InputError, got %v", frags, err)
		}
	}
}

func TestSearchByType(t *testing.T) {
	e, err := newSubnetFixture().engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx := context.Background()

	got, err := e.SearchByType(ctx, "raspberry PI", "10.0.0.1")
	if err != nil {
		t.Fatalf("SearchByType() error = %v", err)
	}
	if len(got) != 1 || got[0].IP != "10.0.0.20" {
		t.Errorf("SearchByType() = %+v", got)
	}

	none, err := e.SearchByType(ctx, "Sonos", "10.0.0.1")
	if err != nil {
		t.Fatalf("SearchByType() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", none)
	}

	_, err = e.SearchByType(ctx, "", "10.0.0.1")
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("expected *InputError, got %v", err)
	}
}

func TestSearch_PropagatesDiscoverFailure(t *testing.T) {
	f := newSubnetFixture()
	f.self.errs = []error{errors.New("ifconfig: not found"), errors.New("ifconfig: not found")}
	e, err := f.engine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	_, err = e.SearchByMAC(context.Background(), []string{"aa"}, "")
	var selfErr *SelfIPError
	if !errors.As(err, &selfErr) {
		t.Fatalf("expected *SelfIPError, got %v", err)
	}
}
