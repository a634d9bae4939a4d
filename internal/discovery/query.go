package discovery

import (
	"context"
	"strings"
)

// SearchByIP discovers the subnet and partitions ips into found hosts and
// missing addresses by exact match. When refIP is empty the first queried
// address selects the subnet.
func (e *Engine) SearchByIP(ctx context.Context, ips []string, refIP string) (SearchResult, error) {
	if len(ips) == 0 {
		return SearchResult{}, &InputError{Operation: "search by ip", Reason: "at least one IP address is required"}
	}
	for _, ip := range ips {
		if !isIPv4(ip) {
			return SearchResult{}, &InputError{Operation: "search by ip", Input: ip, Reason: "expected an IPv4 address"}
		}
	}
	if refIP == "" {
		refIP = ips[0]
	}

	hosts, err := e.Discover(ctx, refIP)
	if err != nil {
		return SearchResult{}, err
	}

	byIP := make(map[string]HostRecord, len(hosts))
	for _, h := range hosts {
		byIP[h.IP] = h
	}

	result := SearchResult{Hosts: []HostRecord{}, Missing: []string{}}
	seen := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if seen[ip] {
			continue
		}
		seen[ip] = true
		if h, ok := byIP[ip]; ok {
			result.Hosts = append(result.Hosts, h)
		} else {
			result.Missing = append(result.Missing, ip)
		}
	}
	return result, nil
}

// SearchByMAC returns copies of every host whose MAC contains at least one of
// the fragments, case-insensitively. Each copy lists its matching fragments in
// Matched. A fragment is missing only when it matches no host at all.
func (e *Engine) SearchByMAC(ctx context.Context, fragments []string, refIP string) (SearchResult, error) {
	if len(fragments) == 0 {
		return SearchResult{}, &InputError{Operation: "search by mac", Reason: "at least one MAC fragment is required"}
	}
	needles := make([]string, len(fragments))
	for i, f := range fragments {
		n := normalizeFragment(f)
		if n == "" {
			return SearchResult{}, &InputError{Operation: "search by mac", Input: f, Reason: "empty MAC fragment"}
		}
		needles[i] = n
	}

	hosts, err := e.Discover(ctx, refIP)
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{Hosts: []HostRecord{}, Missing: []string{}}
	hit := make([]bool, len(fragments))
	for _, h := range hosts {
		var matched []string
		for i, n := range needles {
			if strings.Contains(h.MAC, n) {
				matched = append(matched, fragments[i])
				hit[i] = true
			}
		}
		if len(matched) > 0 {
			c := h
			c.Matched = matched
			result.Hosts = append(result.Hosts, c)
		}
	}
	for i, f := range fragments {
		if !hit[i] {
			result.Missing = append(result.Missing, f)
		}
	}
	return result, nil
}

// SearchByType returns the hosts whose vendor type equals vendorType,
// ignoring case.
func (e *Engine) SearchByType(ctx context.Context, vendorType, refIP string) ([]HostRecord, error) {
	vendorType = strings.TrimSpace(vendorType)
	if vendorType == "" {
		return nil, &InputError{Operation: "search by type", Reason: "vendor type is required"}
	}

	hosts, err := e.Discover(ctx, refIP)
	if err != nil {
		return nil, err
	}

	matches := []HostRecord{}
	for _, h := range hosts {
		if strings.EqualFold(h.VendorType, vendorType) {
			matches = append(matches, h)
		}
	}
	return matches, nil
}

func normalizeFragment(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	return strings.ReplaceAll(f, "-", ":")
}
