package mdns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
)

const (
	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultBrowseTimeout is how long announcements are collected
	DefaultBrowseTimeout = 3 * time.Second
)

// DefaultServices are the service types most hosts on a home or lab network
// announce.
var DefaultServices = []string{
	"_workstation._tcp",
	"_device-info._tcp",
	"_http._tcp",
	"_ssh._tcp",
	"_smb._tcp",
	"_googlecast._tcp",
	"_airplay._tcp",
	"_printer._tcp",
}

// Config holds the browse settings.
type Config struct {
	// Timeout bounds one browse across all service types
	Timeout time.Duration
	// Services lists the service types to browse
	Services []string
	// Domain is the mDNS domain
	Domain string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	services := make([]string, len(DefaultServices))
	copy(services, DefaultServices)
	return Config{
		Timeout:  DefaultBrowseTimeout,
		Services: services,
		Domain:   ServiceDomain,
	}
}

// resolver is the part of *zeroconf.Resolver the browser uses.
type resolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// Browser collects mDNS announcements and maps addresses to host names.
type Browser struct {
	config      Config
	logger      *zap.Logger
	newResolver func() (resolver, error)
}

// NewBrowser creates a browser with the given configuration.
func NewBrowser(config Config, logger *zap.Logger) *Browser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultBrowseTimeout
	}
	if len(config.Services) == 0 {
		config.Services = DefaultConfig().Services
	}
	if config.Domain == "" {
		config.Domain = ServiceDomain
	}
	return &Browser{
		config: config,
		logger: logger,
		newResolver: func() (resolver, error) {
			return zeroconf.NewResolver(nil)
		},
	}
}

// Browse listens for announcements of every configured service type until the
// timeout passes or ctx ends. Each service type gets its own resolver because
// a zeroconf resolver shuts its sockets down when its browse ends.
func (b *Browser) Browse(ctx context.Context) ([]*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		services []*Service
		started  int
		lastErr  error
	)

	for _, serviceType := range b.config.Services {
		r, err := b.newResolver()
		if err != nil {
			lastErr = fmt.Errorf("failed to create mDNS resolver: %w", err)
			continue
		}

		entries := make(chan *zeroconf.ServiceEntry, 16)
		if err := r.Browse(ctx, serviceType, b.config.Domain, entries); err != nil {
			lastErr = fmt.Errorf("failed to browse for %s: %w", serviceType, err)
			b.logger.Debug("mDNS browse failed", zap.String("service", serviceType), zap.Error(err))
			continue
		}
		started++

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case entry, ok := <-entries:
					if !ok {
						return
					}
					if s := parseEntry(serviceType, entry, time.Now()); s != nil {
						mu.Lock()
						services = append(services, s)
						mu.Unlock()
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	if started == 0 && lastErr != nil {
		return nil, lastErr
	}

	wg.Wait()
	b.logger.Debug("mDNS browse complete",
		zap.Int("service_types", started),
		zap.Int("announcements", len(services)),
	)
	return services, nil
}

// Names browses and returns IPv4 address to host name pairs. When several
// announcements name the same address, the first one seen wins.
func (b *Browser) Names(ctx context.Context) (map[string]string, error) {
	services, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(services))
	for _, s := range services {
		if net.ParseIP(s.IP).To4() == nil {
			continue
		}
		if _, seen := names[s.IP]; seen {
			continue
		}
		if name := s.Name(); name != "" {
			names[s.IP] = name
		}
	}
	return names, nil
}

// parseEntry converts a zeroconf entry to a Service. It returns nil for
// entries without an address or without any name.
func parseEntry(serviceType string, entry *zeroconf.ServiceEntry, seenAt time.Time) *Service {
	if entry == nil {
		return nil
	}

	hostname := strings.TrimSuffix(entry.HostName, ".")
	if hostname == "" && entry.Instance == "" {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	text := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		text[key] = value
	}

	return &Service{
		Instance: entry.Instance,
		Type:     serviceType,
		Hostname: hostname,
		IP:       ip,
		Port:     entry.Port,
		Text:     text,
		SeenAt:   seenAt,
	}
}
