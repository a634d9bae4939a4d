package platform

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/arpsweep/internal/discovery"
)

// Command is a program name and its arguments.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Adapter knows one operating system's networking tools: how to invoke them
// and how to read their output.
type Adapter interface {
	// OS returns the GOOS value the adapter targets.
	OS() string

	// PingCommand builds a single-echo ping bounded by timeout.
	PingCommand(ip string, timeout time.Duration) Command
	// ResolveCommand builds a neighbour table lookup for one address.
	ResolveCommand(ip string) Command
	// InterfaceCommand lists the local network interfaces.
	InterfaceCommand() Command

	// ParseProbeResult reports whether ping output shows a reply.
	ParseProbeResult(output string) bool
	// ParseResolveResult extracts the raw hardware address for ip. It returns
	// discovery.ErrNoEntry when the table has no usable entry.
	ParseResolveResult(ip, output string) (string, error)
	// ParseInterfaceInfo picks the active non-loopback IPv4 interface.
	ParseInterfaceInfo(output string) (discovery.SelfInfo, error)
}

// ForOS returns the adapter for goos.
func ForOS(goos string) (Adapter, error) {
	switch goos {
	case "linux":
		return Linux{}, nil
	case "darwin", "freebsd", "openbsd", "netbsd":
		return Darwin{}, nil
	case "windows":
		return Windows{}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Current returns the adapter for the running operating system.
func Current() (Adapter, error) {
	return ForOS(runtime.GOOS)
}

var (
	unixLossPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)% packet loss`)
	windowsLossPattern = regexp.MustCompile(`\((\d+)% loss\)`)
)

// noEntryMarkers are the phrases arp prints instead of a hardware address.
var noEntryMarkers = []string{
	"no entry",
	"no such host",
	"no arp entries found",
	"incomplete",
}

func hasNoEntryMarker(output string) bool {
	lower := strings.ToLower(output)
	for _, m := range noEntryMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// totalLoss reports whether pattern finds a 100% loss figure. Output without
// any loss figure counts as a reply; a clean exit is the primary signal.
func totalLoss(pattern *regexp.Regexp, output string) bool {
	m := pattern.FindStringSubmatch(output)
	if len(m) < 2 {
		return false
	}
	loss, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return false
	}
	return loss >= 100
}

// timeoutSeconds rounds a probe timeout up to whole seconds, minimum one.
func timeoutSeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// HexToNetmask converts a BSD hexadecimal netmask ("0xffffff00") to dotted
// form. Values without the 0x prefix are returned unchanged.
func HexToNetmask(hex string) (string, error) {
	if !strings.HasPrefix(hex, "0x") {
		return hex, nil
	}
	v, err := strconv.ParseUint(hex[2:], 16, 32)
	if err != nil || len(hex) != 10 {
		return "", fmt.Errorf("invalid hex netmask %q", hex)
	}
	return fmt.Sprintf("%d.%d.%d.%d", byte(v>>24), byte(v>>16), byte(v>>8), byte(v)), nil
}
