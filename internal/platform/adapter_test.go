package platform

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/muurk/arpsweep/internal/discovery"
)

func TestForOS(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "linux", want: "linux"},
		{goos: "darwin", want: "darwin"},
		{goos: "freebsd", want: "darwin"},
		{goos: "windows", want: "windows"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			a, err := ForOS(tt.goos)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s", tt.goos)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForOS() error = %v", err)
			}
			if a.OS() != tt.want {
				t.Errorf("OS() = %s, want %s", a.OS(), tt.want)
			}
		})
	}
}

func TestPingCommand(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
		timeout time.Duration
		want    []string
	}{
		{name: "linux", adapter: Linux{}, timeout: 5 * time.Second, want: []string{"-c", "1", "-w", "5", "10.0.0.5"}},
		{name: "darwin", adapter: Darwin{}, timeout: 2 * time.Second, want: []string{"-c", "1", "-t", "2", "10.0.0.5"}},
		{name: "windows milliseconds", adapter: Windows{}, timeout: 3 * time.Second, want: []string{"-n", "1", "-w", "3000", "10.0.0.5"}},
		{name: "sub-second rounds up", adapter: Linux{}, timeout: 300 * time.Millisecond, want: []string{"-c", "1", "-w", "1", "10.0.0.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.adapter.PingCommand("10.0.0.5", tt.timeout)
			if cmd.Name != "ping" {
				t.Errorf("Name = %s, want ping", cmd.Name)
			}
			if !reflect.DeepEqual(cmd.Args, tt.want) {
				t.Errorf("Args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}
}

func TestParseProbeResult(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
		output  string
		want    bool
	}{
		{
			name:    "linux reply",
			adapter: Linux{},
			output: `PING 10.0.0.5 (10.0.0.5) 56(84) bytes of data.
64 bytes from 10.0.0.5: icmp_seq=1 ttl=64 time=3.12 ms

--- 10.0.0.5 ping statistics ---
1 packets transmitted, 1 received, 0% packet loss, time 0ms`,
			want: true,
		},
		{
			name:    "linux total loss",
			adapter: Linux{},
			output: `--- 10.0.0.6 ping statistics ---
1 packets transmitted, 0 received, 100% packet loss, time 0ms`,
			want: false,
		},
		{
			name:    "darwin decimal loss",
			adapter: Darwin{},
			output: `--- 10.0.0.6 ping statistics ---
1 packets transmitted, 0 packets received, 100.0% packet loss`,
			want: false,
		},
		{
			name:    "darwin reply",
			adapter: Darwin{},
			output:  `1 packets transmitted, 1 packets received, 0.0% packet loss`,
			want:    true,
		},
		{
			name:    "windows reply",
			adapter: Windows{},
			output: `Reply from 10.0.0.5: bytes=32 time=2ms TTL=64

Ping statistics for 10.0.0.5:
    Packets: Sent = 1, Received = 1, Lost = 0 (0% loss),`,
			want: true,
		},
		{
			name:    "windows timeout",
			adapter: Windows{},
			output: `Request timed out.

Ping statistics for 10.0.0.6:
    Packets: Sent = 1, Received = 0, Lost = 1 (100% loss),`,
			want: false,
		},
		{
			name:    "windows unreachable counted as received",
			adapter: Windows{},
			output: `Reply from 10.0.0.42: Destination host unreachable.

Ping statistics for 10.0.0.6:
    Packets: Sent = 1, Received = 1, Lost = 0 (0% loss),`,
			want: false,
		},
		{
			name:    "no statistics",
			adapter: Linux{},
			output:  "",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.adapter.ParseProbeResult(tt.output); got != tt.want {
				t.Errorf("ParseProbeResult() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseResolveResult(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
		ip      string
		output  string
		want    string
		wantErr error
	}{
		{
			name:    "linux entry",
			adapter: Linux{},
			ip:      "192.168.1.20",
			output: `Address                  HWtype  HWaddress           Flags Mask            Iface
192.168.1.20             ether   b8:27:eb:12:34:56   C                     wlan0`,
			want: "b8:27:eb:12:34:56",
		},
		{
			name:    "linux no entry",
			adapter: Linux{},
			ip:      "192.168.1.21",
			output:  `192.168.1.21 (192.168.1.21) -- no entry`,
			wantErr: discovery.ErrNoEntry,
		},
		{
			name:    "linux incomplete",
			adapter: Linux{},
			ip:      "192.168.1.22",
			output: `Address                  HWtype  HWaddress           Flags Mask            Iface
192.168.1.22                     (incomplete)                              wlan0`,
			wantErr: discovery.ErrNoEntry,
		},
		{
			name:    "darwin entry with short octets",
			adapter: Darwin{},
			ip:      "192.168.1.20",
			output:  `? (192.168.1.20) at 0:1b:63:a:b:c on en0 ifscope [ethernet]`,
			want:    "0:1b:63:a:b:c",
		},
		{
			name:    "darwin no entry",
			adapter: Darwin{},
			ip:      "192.168.1.21",
			output:  `192.168.1.21 (192.168.1.21) -- no entry`,
			wantErr: discovery.ErrNoEntry,
		},
		{
			name:    "darwin unknown host",
			adapter: Darwin{},
			ip:      "192.168.1.23",
			output:  `arp: 192.168.1.23: No such host`,
			wantErr: discovery.ErrNoEntry,
		},
		{
			name:    "windows entry",
			adapter: Windows{},
			ip:      "192.168.1.20",
			output: "\r\nInterface: 192.168.1.42 --- 0xb\r\n" +
				"  Internet Address      Physical Address      Type\r\n" +
				"  192.168.1.20          b8-27-eb-12-34-56     dynamic\r\n",
			want: "b8:27:eb:12:34:56",
		},
		{
			name:    "windows no entries",
			adapter: Windows{},
			ip:      "192.168.1.21",
			output:  "No ARP Entries Found.\r\n",
			wantErr: discovery.ErrNoEntry,
		},
		{
			name:    "row for another address",
			adapter: Linux{},
			ip:      "192.168.1.30",
			output:  `192.168.1.3              ether   aa:bb:cc:dd:ee:ff   C                     wlan0`,
			wantErr: discovery.ErrNoEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.adapter.ParseResolveResult(tt.ip, tt.output)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %q, %v", tt.wantErr, got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResolveResult() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseResolveResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHexToNetmask(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0xffffff00", want: "255.255.255.0"},
		{in: "0xffff0000", want: "255.255.0.0"},
		{in: "0xff000000", want: "255.0.0.0"},
		{in: "255.255.255.0", want: "255.255.255.0"},
		{in: "", want: ""},
		{in: "0xfffff", wantErr: true},
		{in: "0xzzzzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := HexToNetmask(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("HexToNetmask(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("HexToNetmask(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("HexToNetmask(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
