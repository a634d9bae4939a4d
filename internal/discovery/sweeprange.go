package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// BuildRange returns the sweep range for the /24 subnet of sampleIP.
//
// Without endpoints the range is prefix.2 through prefix.254 (253 addresses),
// skipping the conventional gateway and the broadcast address. With endpoints
// it is prefix.1 through prefix.255.
func BuildRange(sampleIP string, includeEndpoints bool) ([]string, error) {
	prefix, err := subnetPrefix(sampleIP)
	if err != nil {
		return nil, err
	}

	first, last := 2, 254
	if includeEndpoints {
		first, last = 1, 255
	}

	addrs := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		addrs = append(addrs, prefix+"."+strconv.Itoa(i))
	}
	return addrs, nil
}

// subnetPrefix returns everything before the last dot of a valid IPv4 address.
func subnetPrefix(ip string) (string, error) {
	idx := strings.LastIndexByte(ip, '.')
	if idx < 0 || !isIPv4(ip) {
		return "", &AddressError{Address: ip}
	}
	return ip[:idx], nil
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && strings.Count(s, ".") == 3
}

// NormalizeMAC converts a hardware address to lowercase, colon separated,
// two-digit octets. It accepts hyphen separators and the single-digit octets
// printed by BSD arp ("0:1b:63:a:b:c").
func NormalizeMAC(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "-", ":")
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return "", fmt.Errorf("invalid hardware address %q", raw)
	}

	var b strings.Builder
	b.Grow(17)
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return "", fmt.Errorf("invalid hardware address %q", raw)
		}
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return "", fmt.Errorf("invalid hardware address %q: %w", raw, err)
		}
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02x", v)
	}
	return b.String(), nil
}
