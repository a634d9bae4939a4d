package mdns

import (
	"fmt"
	"strings"
	"time"
)

// Service is one announcement seen while browsing.
type Service struct {
	// Instance is the service instance name (e.g., "living-room")
	Instance string

	// Type is the browsed service type (e.g., "_workstation._tcp")
	Type string

	// Hostname is the advertised host without the trailing dot
	// (e.g., "nas.local")
	Hostname string

	// IP is the first advertised IPv4 address, or IPv6 if none
	IP string

	// Port is the advertised service port
	Port int

	// Text holds the TXT record key/value pairs
	Text map[string]string

	// SeenAt is when the announcement was received
	SeenAt time.Time
}

func (s *Service) String() string {
	return fmt.Sprintf("%s %s (%s) at %s:%d", s.Type, s.Instance, s.Hostname, s.IP, s.Port)
}

// Name returns the label shown for the host: the hostname without its
// ".local" suffix, or the instance name when no hostname was advertised.
func (s *Service) Name() string {
	if name := strings.TrimSuffix(s.Hostname, ".local"); name != "" {
		return name
	}
	return s.Instance
}

// GetText retrieves a TXT value by key, or returns empty string if not found.
func (s *Service) GetText(key string) string {
	if s.Text == nil {
		return ""
	}
	return s.Text[key]
}
