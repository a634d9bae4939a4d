package platform

import (
	"net"
	"strings"

	"github.com/muurk/arpsweep/internal/discovery"
)

// ifconfigBlock is one interface section of ifconfig output.
type ifconfigBlock struct {
	name     string
	flags    []string
	inet     string
	netmask  string
	ether    string
	inactive bool
	loopback bool
}

func (b ifconfigBlock) hasFlag(flag string) bool {
	for _, f := range b.flags {
		if f == flag {
			return true
		}
	}
	return false
}

func (b ifconfigBlock) usable() bool {
	if b.loopback || b.inactive || b.hasFlag("LOOPBACK") {
		return false
	}
	if !b.hasFlag("UP") || !b.hasFlag("RUNNING") {
		return false
	}
	ip := net.ParseIP(b.inet)
	return ip != nil && ip.To4() != nil && !ip.IsLoopback()
}

// splitIfconfig cuts ifconfig output into interface blocks. A block starts at
// every non-indented line. Both the BSD/net-tools 2.x layout
// ("en0: flags=8863<UP,...>") and the net-tools 1.x layout
// ("eth0      Link encap:Ethernet  HWaddr ...") are understood.
func splitIfconfig(output string) []ifconfigBlock {
	var blocks []ifconfigBlock
	var cur *ifconfigBlock

	for _, line := range strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indented := line[0] == ' ' || line[0] == '\t'
		fields := strings.Fields(line)

		if !indented {
			blocks = append(blocks, ifconfigBlock{name: strings.TrimSuffix(fields[0], ":")})
			cur = &blocks[len(blocks)-1]
		}
		if cur == nil {
			continue
		}
		parseIfconfigFields(cur, line, fields)
	}
	return blocks
}

func parseIfconfigFields(b *ifconfigBlock, line string, fields []string) {
	if strings.Contains(line, "Link encap:Local Loopback") {
		b.loopback = true
	}
	if strings.TrimSpace(line) == "status: inactive" {
		b.inactive = true
	}

	for i, f := range fields {
		next := ""
		if i+1 < len(fields) {
			next = fields[i+1]
		}

		switch {
		case strings.HasPrefix(f, "flags="):
			if open := strings.IndexByte(f, '<'); open >= 0 {
				b.flags = strings.Split(strings.TrimSuffix(f[open+1:], ">"), ",")
			}
		case f == "inet" && b.inet == "":
			b.inet = strings.TrimPrefix(next, "addr:")
		case f == "netmask" && b.netmask == "":
			b.netmask = next
		case strings.HasPrefix(f, "Mask:") && b.netmask == "":
			b.netmask = strings.TrimPrefix(f, "Mask:")
		case (f == "ether" || f == "HWaddr") && b.ether == "":
			b.ether = next
		case f == "UP" && i == 0:
			// net-tools 1.x prints flags as a bare word list
			b.flags = append(b.flags, fields...)
		}
	}
}

// looksLikeIfconfig reports whether any block carries a flags header or a
// net-tools link line.
func looksLikeIfconfig(output string) bool {
	return strings.Contains(output, "flags=") || strings.Contains(output, "Link encap:")
}

// isWirelessName reports interface names conventionally used for Wi-Fi.
func isWirelessName(name string) bool {
	return strings.HasPrefix(name, "wlan") || strings.HasPrefix(name, "wl") || name == "en0"
}

var virtualPrefixes = []string{"docker", "br-", "veth", "virbr", "vmnet", "vboxnet", "cni", "flannel", "tun", "tap", "utun", "bridge"}

// isVirtualName reports bridge, container and VPN interface names.
func isVirtualName(name string) bool {
	for _, prefix := range virtualPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// InterfaceRank orders candidate interfaces for self selection. Lower is
// better: wireless, then physical-looking names, then virtual bridges.
func InterfaceRank(name string) int {
	switch {
	case isWirelessName(name):
		return 0
	case isVirtualName(name):
		return 2
	default:
		return 1
	}
}

// parseIfconfig is shared by the Linux and BSD adapters.
func parseIfconfig(goos, output string) (discovery.SelfInfo, error) {
	if !looksLikeIfconfig(output) {
		return discovery.SelfInfo{}, &discovery.ParseError{
			Platform: goos,
			Field:    "flags",
			Output:   output,
		}
	}

	blocks := splitIfconfig(output)
	names := make([]string, 0, len(blocks))
	var pick *ifconfigBlock
	for i := range blocks {
		b := &blocks[i]
		names = append(names, b.name)
		if !b.usable() {
			continue
		}
		if pick == nil || InterfaceRank(b.name) < InterfaceRank(pick.name) {
			pick = b
		}
	}
	if pick == nil {
		return discovery.SelfInfo{}, &discovery.NoActiveInterfaceError{Platform: goos, Checked: names}
	}

	netmask, err := HexToNetmask(pick.netmask)
	if err != nil {
		netmask = ""
	}
	return discovery.SelfInfo{
		Interface: pick.name,
		IP:        pick.inet,
		MAC:       pick.ether,
		Netmask:   netmask,
	}, nil
}
