package platform

import (
	"strconv"
	"strings"
	"time"

	"github.com/muurk/arpsweep/internal/discovery"
)

// Darwin drives the BSD ping, arp and ifconfig shipped with macOS.
type Darwin struct{}

func (Darwin) OS() string { return "darwin" }

// PingCommand uses -t, the BSD timeout in seconds.
func (Darwin) PingCommand(ip string, timeout time.Duration) Command {
	return Command{Name: "ping", Args: []string{"-c", "1", "-t", strconv.Itoa(timeoutSeconds(timeout)), ip}}
}

func (Darwin) ResolveCommand(ip string) Command {
	return Command{Name: "arp", Args: []string{"-n", ip}}
}

func (Darwin) InterfaceCommand() Command {
	return Command{Name: "ifconfig"}
}

func (Darwin) ParseProbeResult(output string) bool {
	return !totalLoss(unixLossPattern, output)
}

// ParseResolveResult reads the address after "at":
//
//	? (192.168.1.20) at b8:27:eb:12:34:56 on en0 ifscope [ethernet]
func (Darwin) ParseResolveResult(ip, output string) (string, error) {
	if hasNoEntryMarker(output) {
		return "", discovery.ErrNoEntry
	}
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[1] != "("+ip+")" {
			continue
		}
		for i := 2; i < len(fields)-1; i++ {
			if fields[i] == "at" {
				return fields[i+1], nil
			}
		}
	}
	return "", discovery.ErrNoEntry
}

func (Darwin) ParseInterfaceInfo(output string) (discovery.SelfInfo, error) {
	return parseIfconfig("darwin", output)
}
