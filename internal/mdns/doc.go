// Package mdns names hosts from their multicast DNS announcements.
//
// A Browser listens for a fixed set of common service types (workstation,
// device-info, http, ssh, smb, googlecast, airplay, printer) for a short window
// and collects every announcement that carries an address. Names reduces the
// announcements to an IPv4 address to host name map, which the discovery
// engine uses to fill HostRecord.Hostname.
//
// # Usage Example
//
//	browser := mdns.NewBrowser(mdns.DefaultConfig(), logger)
//	names, err := browser.Names(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(names["192.168.1.20"]) // "nas"
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Hosts must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// Hosts that do not announce any of the browsed service types are simply
// absent from the map.
package mdns
