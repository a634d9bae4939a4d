package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/go-ping/ping"
	"github.com/j-keck/arping"

	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/platform"
)

// ICMPPinger sends echo requests from the process itself.
type ICMPPinger struct {
	privileged bool
}

// NewICMPPinger creates an ICMP pinger. Raw sockets are used when the process
// may open them; otherwise unprivileged datagram ICMP is used.
func NewICMPPinger() *ICMPPinger {
	return &ICMPPinger{privileged: os.Geteuid() == 0 || canUseRawSocket()}
}

func (p *ICMPPinger) Ping(ctx context.Context, ip string, timeout time.Duration) (bool, error) {
	pinger, err := ping.NewPinger(ip)
	if err != nil {
		return false, fmt.Errorf("creating pinger: %w", err)
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(p.privileged || runtime.GOOS == "windows")

	done := make(chan error, 1)
	go func() {
		done <- pinger.Run()
	}()

	select {
	case <-ctx.Done():
		pinger.Stop()
		<-done
		return false, ctx.Err()
	case err := <-done:
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return false, &PrivilegeError{Operation: "icmp ping", Err: err}
			}
			return false, err
		}
	}
	return pinger.Statistics().PacketsRecv > 0, nil
}

func canUseRawSocket() bool {
	conn, err := net.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// ARPingResolver resolves hardware addresses by sending ARP requests.
// Requests are serialized because arping keeps its timeout in package state.
type ARPingResolver struct {
	mu        sync.Mutex
	iface     string
	timeout   time.Duration
	pingIface func(net.IP, string) (net.HardwareAddr, time.Duration, error)
	pingAny   func(net.IP) (net.HardwareAddr, time.Duration, error)
}

// NewARPingResolver creates a resolver that sends ARP requests over iface, or
// over the interface routing the target when iface is empty.
func NewARPingResolver(iface string, timeout time.Duration) *ARPingResolver {
	return &ARPingResolver{
		iface:     iface,
		timeout:   timeout,
		pingIface: arping.PingOverIfaceByName,
		pingAny:   arping.Ping,
	}
}

func (r *ARPingResolver) Resolve(ctx context.Context, ip string) (string, error) {
	dst := net.ParseIP(ip).To4()
	if dst == nil {
		return "", fmt.Errorf("not an IPv4 address: %q", ip)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	arping.SetTimeout(r.timeout)
	var (
		mac net.HardwareAddr
		err error
	)
	if r.iface != "" {
		mac, _, err = r.pingIface(dst, r.iface)
	} else {
		mac, _, err = r.pingAny(dst)
	}

	switch {
	case err == nil:
		return mac.String(), nil
	case errors.Is(err, arping.ErrTimeout):
		return "", discovery.ErrNoEntry
	case errors.Is(err, os.ErrPermission):
		return "", &PrivilegeError{Operation: "arping", Err: err}
	default:
		return "", fmt.Errorf("arping failed: %w", err)
	}
}

// InterfaceSelf reads the local interface table through the net package.
type InterfaceSelf struct {
	// Name restricts the lookup to one interface. Empty picks the first
	// usable interface.
	Name string

	interfaces func() ([]net.Interface, error)
	addrs      func(net.Interface) ([]net.Addr, error)
}

// NewInterfaceSelf creates a self resolver over net.Interfaces.
func NewInterfaceSelf(name string) *InterfaceSelf {
	return &InterfaceSelf{
		Name:       name,
		interfaces: net.Interfaces,
		addrs:      func(i net.Interface) ([]net.Addr, error) { return i.Addrs() },
	}
}

// Self returns the best ranked interface that is up, not loopback and carries
// a private IPv4 address. Wireless names win over wired ones, and bridge or
// container interfaces are used only when nothing else qualifies.
func (s *InterfaceSelf) Self(ctx context.Context) (discovery.SelfInfo, error) {
	ifaces, err := s.interfaces()
	if err != nil {
		return discovery.SelfInfo{}, fmt.Errorf("listing interfaces: %w", err)
	}

	checked := make([]string, 0, len(ifaces))
	var pick *discovery.SelfInfo
	for _, iface := range ifaces {
		if s.Name != "" && iface.Name != s.Name {
			continue
		}
		checked = append(checked, iface.Name)

		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		info, ok := s.privateAddr(iface)
		if !ok {
			continue
		}
		if pick == nil || platform.InterfaceRank(info.Interface) < platform.InterfaceRank(pick.Interface) {
			pick = &info
		}
	}
	if pick == nil {
		return discovery.SelfInfo{}, &discovery.NoActiveInterfaceError{Platform: runtime.GOOS, Checked: checked}
	}
	return *pick, nil
}

func (s *InterfaceSelf) privateAddr(iface net.Interface) (discovery.SelfInfo, bool) {
	addrs, err := s.addrs(iface)
	if err != nil {
		return discovery.SelfInfo{}, false
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || !ip.IsPrivate() {
			continue
		}
		mask := ""
		if len(ipNet.Mask) == net.IPv4len {
			mask = net.IP(ipNet.Mask).String()
		} else if len(ipNet.Mask) == net.IPv6len {
			mask = net.IP(ipNet.Mask[12:]).String()
		}
		return discovery.SelfInfo{
			Interface: iface.Name,
			IP:        ip.String(),
			MAC:       iface.HardwareAddr.String(),
			Netmask:   mask,
		}, true
	}
	return discovery.SelfInfo{}, false
}
