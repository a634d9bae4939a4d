package platform

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/arpsweep/internal/discovery"
)

// Windows drives ping.exe, arp.exe and ipconfig.exe.
type Windows struct{}

func (Windows) OS() string { return "windows" }

// PingCommand uses -w, which ping.exe reads as milliseconds per reply.
func (Windows) PingCommand(ip string, timeout time.Duration) Command {
	ms := timeoutSeconds(timeout) * 1000
	return Command{Name: "ping", Args: []string{"-n", "1", "-w", strconv.Itoa(ms), ip}}
}

func (Windows) ResolveCommand(ip string) Command {
	return Command{Name: "arp", Args: []string{"-a", ip}}
}

func (Windows) InterfaceCommand() Command {
	return Command{Name: "ipconfig", Args: []string{"/all"}}
}

// ParseProbeResult also rejects "Destination host unreachable" replies, which
// ping.exe counts as received packets.
func (Windows) ParseProbeResult(output string) bool {
	if strings.Contains(strings.ToLower(output), "destination host unreachable") {
		return false
	}
	return !totalLoss(windowsLossPattern, output)
}

// ParseResolveResult reads the table row for ip:
//
//	Interface: 192.168.1.42 --- 0xb
//	  Internet Address      Physical Address      Type
//	  192.168.1.20          b8-27-eb-12-34-56     dynamic
func (Windows) ParseResolveResult(ip, output string) (string, error) {
	if hasNoEntryMarker(output) {
		return "", discovery.ErrNoEntry
	}
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == ip {
			return strings.ReplaceAll(fields[1], "-", ":"), nil
		}
	}
	return "", discovery.ErrNoEntry
}

type ipconfigAdapter struct {
	name         string
	wireless     bool
	physical     string
	ipv4         string
	mask         string
	disconnected bool
}

func (a *ipconfigAdapter) rank() int {
	switch {
	case a.wireless:
		return 0
	case strings.HasPrefix(a.name, "vEthernet") || strings.Contains(a.name, "VirtualBox") || strings.Contains(a.name, "VMware"):
		return 2
	default:
		return 1
	}
}

// ParseInterfaceInfo reads "ipconfig /all". Each adapter section starts with
// an unindented "... adapter <name>:" line followed by dotted key/value rows.
func (Windows) ParseInterfaceInfo(output string) (discovery.SelfInfo, error) {
	var adapters []ipconfigAdapter
	var cur *ipconfigAdapter

	for _, raw := range strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if raw[0] != ' ' && raw[0] != '\t' {
			cur = nil
			header := strings.TrimSuffix(strings.TrimSpace(raw), ":")
			if idx := strings.Index(header, " adapter "); idx >= 0 {
				adapters = append(adapters, ipconfigAdapter{
					name:     header[idx+len(" adapter "):],
					wireless: strings.HasPrefix(header, "Wireless"),
				})
				cur = &adapters[len(adapters)-1]
			}
			continue
		}
		if cur == nil {
			continue
		}

		key, value, ok := strings.Cut(raw, " : ")
		if !ok {
			continue
		}
		key = strings.TrimRight(strings.TrimSpace(key), ". ")
		value = strings.TrimSpace(value)

		switch key {
		case "Physical Address":
			cur.physical = value
		case "IPv4 Address", "IP Address", "Autoconfiguration IPv4 Address":
			if cur.ipv4 == "" {
				v := strings.TrimSuffix(value, "(Preferred)")
				if ip := net.ParseIP(v); ip != nil && ip.To4() != nil {
					cur.ipv4 = v
				}
			}
		case "Subnet Mask":
			cur.mask = value
		case "Media State":
			cur.disconnected = strings.EqualFold(value, "Media disconnected")
		}
	}

	if len(adapters) == 0 {
		return discovery.SelfInfo{}, &discovery.ParseError{
			Platform: "windows",
			Field:    "adapter",
			Output:   output,
		}
	}

	names := make([]string, 0, len(adapters))
	var pick *ipconfigAdapter
	for i := range adapters {
		a := &adapters[i]
		names = append(names, a.name)
		if a.disconnected || a.ipv4 == "" || strings.HasPrefix(a.ipv4, "127.") {
			continue
		}
		if pick == nil || a.rank() < pick.rank() {
			pick = a
		}
	}
	if pick == nil {
		return discovery.SelfInfo{}, &discovery.NoActiveInterfaceError{Platform: "windows", Checked: names}
	}

	return discovery.SelfInfo{
		Interface: pick.name,
		IP:        pick.ipv4,
		MAC:       strings.ReplaceAll(pick.physical, "-", ":"),
		Netmask:   pick.mask,
	}, nil
}
