package discovery

import (
	"errors"
	"testing"
)

func TestBuildRange(t *testing.T) {
	tests := []struct {
		name             string
		sampleIP         string
		includeEndpoints bool
		wantLen          int
		wantFirst        string
		wantLast         string
	}{
		{
			name:      "endpoints excluded",
			sampleIP:  "192.168.1.37",
			wantLen:   253,
			wantFirst: "192.168.1.2",
			wantLast:  "192.168.1.254",
		},
		{
			name:             "endpoints included",
			sampleIP:         "192.168.1.37",
			includeEndpoints: true,
			wantLen:          255,
			wantFirst:        "192.168.1.1",
			wantLast:         "192.168.1.255",
		},
		{
			name:      "sample is an endpoint itself",
			sampleIP:  "10.0.0.255",
			wantLen:   253,
			wantFirst: "10.0.0.2",
			wantLast:  "10.0.0.254",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildRange(tt.sampleIP, tt.includeEndpoints)
			if err != nil {
				t.Fatalf("BuildRange() error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[0] != tt.wantFirst {
				t.Errorf("first = %s, want %s", got[0], tt.wantFirst)
			}
			if got[len(got)-1] != tt.wantLast {
				t.Errorf("last = %s, want %s", got[len(got)-1], tt.wantLast)
			}
		})
	}
}

func TestBuildRange_InvalidAddress(t *testing.T) {
	for _, sample := range []string{"", "localhost", "10.0.0", "10.0.0.300", "fe80::1", "a.b.c.d"} {
		t.Run(sample, func(t *testing.T) {
			_, err := BuildRange(sample, false)
			var addrErr *AddressError
			if !errors.As(err, &addrErr) {
				t.Fatalf("BuildRange(%q) error = %v, want *AddressError", sample, err)
			}
			if addrErr.Address != sample {
				t.Errorf("Address = %q, want %q", addrErr.Address, sample)
			}
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "aa:bb:cc:dd:ee:ff", want: "aa:bb:cc:dd:ee:ff"},
		{raw: "AA:BB:CC:DD:EE:FF", want: "aa:bb:cc:dd:ee:ff"},
		{raw: "aa-bb-cc-dd-ee-ff", want: "aa:bb:cc:dd:ee:ff"},
		{raw: "0:1b:63:a:b:c", want: "00:1b:63:0a:0b:0c"},
		{raw: "  00:50:56:c0:00:08\n", want: "00:50:56:c0:00:08"},
		{raw: "(incomplete)", wantErr: true},
		{raw: "aa:bb:cc:dd:ee", wantErr: true},
		{raw: "aa:bb:cc:dd:ee:zz", wantErr: true},
		{raw: "aaa:bb:cc:dd:ee:ff", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeMAC(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeMAC(%q) = %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeMAC(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
