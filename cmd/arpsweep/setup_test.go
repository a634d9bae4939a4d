package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/arpsweep/internal/config"
	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/mdns"
	"github.com/muurk/arpsweep/internal/probe"
)

// flagCommand returns a command carrying the global flags, with the given
// flags set as if typed on the command line.
func flagCommand(t *testing.T, set map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	for name, value := range set {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("setting --%s: %v", name, err)
		}
	}
	t.Cleanup(func() {
		for name := range set {
			f := cmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	return cmd
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		check   func(t *testing.T, s *config.Settings)
		wantErr bool
	}{
		{
			name:  "no flags keeps settings",
			flags: map[string]string{},
			check: func(t *testing.T, s *config.Settings) {
				if s.Timeout != 5 || !s.UseCache || s.Probe.Mode != config.ProbeModeCommand {
					t.Errorf("settings changed: %+v", s)
				}
			},
		},
		{
			name: "flags override file values",
			flags: map[string]string{
				"timeout":           "2",
				"include-endpoints": "true",
				"no-cache":          "true",
				"cache-ttl":         "30",
				"probe-mode":        "icmp",
				"resolve-mode":      "arping",
				"self-mode":         "native",
				"interface":         "en0",
				"names":             "true",
			},
			check: func(t *testing.T, s *config.Settings) {
				if s.Timeout != 2 || !s.IncludeEndpoints || s.UseCache || s.CacheTTL != 30 {
					t.Errorf("engine settings = %+v", s.EngineConfig())
				}
				if s.Probe.Mode != "icmp" || s.Resolve.Mode != "arping" || s.Self.Mode != "native" {
					t.Errorf("modes = %s/%s/%s", s.Probe.Mode, s.Resolve.Mode, s.Self.Mode)
				}
				if s.Self.Interface != "en0" || !s.Names.Enabled {
					t.Errorf("interface = %q, names = %v", s.Self.Interface, s.Names.Enabled)
				}
			},
		},
		{
			name:    "timeout out of range",
			flags:   map[string]string{"timeout": "61"},
			wantErr: true,
		},
		{
			name:    "unknown probe mode",
			flags:   map[string]string{"probe-mode": "telepathy"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.NewSettings()
			err := applyFlags(flagCommand(t, tt.flags), s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestApplyFlags_TimeoutIsConfigError(t *testing.T) {
	err := applyFlags(flagCommand(t, map[string]string{"timeout": "0"}), config.NewSettings())
	var cfgErr *discovery.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *discovery.ConfigError, got %v", err)
	}
}

func TestNewCollaborators_NativeModes(t *testing.T) {
	s := config.NewSettings()
	s.Probe.Mode = config.ProbeModeICMP
	s.Resolve.Mode = config.ResolveModeARPing
	s.Self.Mode = config.SelfModeNative
	s.Self.Interface = "eth1"

	collab, err := newCollaborators(s, zap.NewNop())
	if err != nil {
		t.Fatalf("newCollaborators() error = %v", err)
	}
	if _, ok := collab.Pinger.(*probe.ICMPPinger); !ok {
		t.Errorf("Pinger = %T", collab.Pinger)
	}
	if _, ok := collab.Resolver.(*probe.ARPingResolver); !ok {
		t.Errorf("Resolver = %T", collab.Resolver)
	}
	self, ok := collab.Self.(*probe.InterfaceSelf)
	if !ok || self.Name != "eth1" {
		t.Errorf("Self = %#v", collab.Self)
	}
	if collab.Vendors == nil {
		t.Error("Vendors should always be set")
	}
	if collab.Namer != nil {
		t.Error("Namer should be nil when names are disabled")
	}
}

func TestNewCollaborators_CommandModes(t *testing.T) {
	s := config.NewSettings()
	s.Names.Enabled = true
	s.Names.Services = []string{"_ssh._tcp"}

	collab, err := newCollaborators(s, zap.NewNop())
	if err != nil {
		// Only platforms without an adapter fail here.
		t.Skipf("no platform adapter: %v", err)
	}
	if _, ok := collab.Pinger.(*probe.CommandPinger); !ok {
		t.Errorf("Pinger = %T", collab.Pinger)
	}
	if _, ok := collab.Resolver.(*probe.CommandResolver); !ok {
		t.Errorf("Resolver = %T", collab.Resolver)
	}
	if _, ok := collab.Self.(*probe.CommandSelf); !ok {
		t.Errorf("Self = %T", collab.Self)
	}
	if _, ok := collab.Namer.(*mdns.Browser); !ok {
		t.Errorf("Namer = %T", collab.Namer)
	}
}

func TestNewVendorTable(t *testing.T) {
	dir := t.TempDir()
	ouiFile := filepath.Join(dir, "oui.txt")
	registry := "00-11-22   (hex)\t\tExample Networks\n001122     (base 16)\t\tExample Networks\n"
	if err := os.WriteFile(ouiFile, []byte(registry), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := newVendorTable(config.VendorSettings{
		OUIFile:   ouiFile,
		Overrides: map[string]string{"B8:27:EB": "Lab Pi"},
	})
	if err != nil {
		t.Fatalf("newVendorTable() error = %v", err)
	}
	if label, ok := table.Lookup("00:11:22:33:44:55"); !ok || label != "Example Networks" {
		t.Errorf("registry lookup = %q, %v", label, ok)
	}
	if label, _ := table.Lookup("b8:27:eb:01:02:03"); label != "Lab Pi" {
		t.Errorf("override lookup = %q, want Lab Pi", label)
	}
}

func TestNewVendorTable_Errors(t *testing.T) {
	if _, err := newVendorTable(config.VendorSettings{OUIFile: filepath.Join(t.TempDir(), "missing.txt")}); err == nil {
		t.Error("expected error for a missing OUI file")
	}

	_, err := newVendorTable(config.VendorSettings{Overrides: map[string]string{"zz:zz": "Bad"}})
	if err == nil || !strings.Contains(err.Error(), "vendors.overrides") {
		t.Errorf("expected overrides error, got %v", err)
	}
}

func TestTroubleshooting(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no interface", &discovery.NoActiveInterfaceError{Platform: "linux"}, "--self-mode native"},
		{"bad address", &discovery.AddressError{Address: "x"}, "dotted-quad"},
		{"config", &discovery.ConfigError{Field: "timeout", Value: 0, Reason: "range"}, "between 1 and 60"},
		{"other", errors.New("boom"), "--log-level debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := strings.Join(troubleshooting(tt.err), "\n")
			if !strings.Contains(hints, tt.want) {
				t.Errorf("troubleshooting() = %q, want it to mention %q", hints, tt.want)
			}
		})
	}
}
