package platform

import (
	"strconv"
	"strings"
	"time"

	"github.com/muurk/arpsweep/internal/discovery"
)

// Linux drives iputils ping, net-tools arp and ifconfig.
type Linux struct{}

func (Linux) OS() string { return "linux" }

// PingCommand uses -w, the deadline in seconds for the whole run.
func (Linux) PingCommand(ip string, timeout time.Duration) Command {
	return Command{Name: "ping", Args: []string{"-c", "1", "-w", strconv.Itoa(timeoutSeconds(timeout)), ip}}
}

func (Linux) ResolveCommand(ip string) Command {
	return Command{Name: "arp", Args: []string{"-n", ip}}
}

func (Linux) InterfaceCommand() Command {
	return Command{Name: "ifconfig", Args: []string{"-a"}}
}

func (Linux) ParseProbeResult(output string) bool {
	return !totalLoss(unixLossPattern, output)
}

// ParseResolveResult reads the table row for ip:
//
//	Address                  HWtype  HWaddress           Flags Mask            Iface
//	192.168.1.20             ether   b8:27:eb:12:34:56   C                     wlan0
func (Linux) ParseResolveResult(ip, output string) (string, error) {
	if hasNoEntryMarker(output) {
		return "", discovery.ErrNoEntry
	}
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == ip {
			return fields[2], nil
		}
	}
	return "", discovery.ErrNoEntry
}

func (Linux) ParseInterfaceInfo(output string) (discovery.SelfInfo, error) {
	return parseIfconfig("linux", output)
}
