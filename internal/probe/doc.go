// Package probe supplies the collaborators the discovery engine uses to touch
// the network.
//
// Two families are provided:
//
//   - Command collaborators (CommandPinger, CommandResolver, CommandSelf) run
//     the operating system's ping, arp and ifconfig/ipconfig tools through a
//     Runner and hand the output to a platform.Adapter for parsing.
//   - Native collaborators (ICMPPinger, ARPingResolver, InterfaceSelf) send
//     ICMP echo and ARP requests from the process and read the interface table
//     through the net package. They need raw socket access; without it they
//     return a *PrivilegeError.
//
// ExecRunner bounds every command with a timeout and runs it with LC_ALL=C so
// tool output stays in the layout the parsers expect.
//
// # Error Types
//
//   - ExecutionError: the command could not start or exited non-zero
//   - TimeoutError: the command was killed at its deadline
//   - PrivilegeError: a native probe lacks raw socket access
//
// A non-zero exit from ping or arp is a normal negative answer and is not
// surfaced as an error by the command collaborators.
package probe
