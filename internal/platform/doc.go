// Package platform isolates operating-system specific networking tools.
//
// Each Adapter builds the command lines for a single ping, a single neighbour
// table lookup and an interface listing, and parses their text output:
//
//	Linux:   ping -c 1 -w <s>      arp -n <ip>    ifconfig -a
//	Darwin:  ping -c 1 -t <s>      arp -n <ip>    ifconfig
//	Windows: ping -n 1 -w <ms>     arp -a <ip>    ipconfig /all
//
// Adapters are pure: they never run anything. The probe package executes the
// commands and hands the output back to the adapter.
package platform
