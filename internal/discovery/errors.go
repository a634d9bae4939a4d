package discovery

import (
	"errors"
	"fmt"
)

// ErrNoEntry is returned by an ARPResolver when the neighbour table has no
// hardware address for the requested IP.
var ErrNoEntry = errors.New("no arp entry")

// ConfigError represents an engine configuration that failed validation.
// Construction of the engine is aborted when this is returned.
type ConfigError struct {
	// Field is the configuration field that is out of range
	Field string
	// Value is the rejected value
	Value int
	// Reason describes the accepted range
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s=%d (%s)", e.Field, e.Value, e.Reason)
}

// InputError represents malformed arguments to a query or resolve call.
type InputError struct {
	// Operation is the call that rejected the input
	Operation string
	// Input is the offending value, if a single one can be named
	Input string
	// Reason describes what was expected
	Reason string
}

func (e *InputError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid input to %s: %q: %s", e.Operation, e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid input to %s: %s", e.Operation, e.Reason)
}

// AddressError represents a sample address a sweep range cannot be built from.
type AddressError struct {
	Address string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid address %q: expected a dotted-quad IPv4 address", e.Address)
}

// NoActiveInterfaceError is returned when interface listing succeeds but no
// interface is up with an IPv4 address.
type NoActiveInterfaceError struct {
	// Platform is the GOOS the output was parsed for
	Platform string
	// Checked lists the interface names that were inspected
	Checked []string
}

func (e *NoActiveInterfaceError) Error() string {
	if len(e.Checked) == 0 {
		return fmt.Sprintf("no active network interface found (%s)", e.Platform)
	}
	return fmt.Sprintf("no active network interface found (%s, checked: %v)\n"+
		"Hint: Connect to a network or pass a reference IP explicitly.",
		e.Platform, e.Checked)
}

// ParseError represents interface-listing output that does not match the
// expected platform layout.
type ParseError struct {
	// Platform is the GOOS the output was parsed for
	Platform string
	// Field is the label that could not be located
	Field string
	// Output is the raw text that failed to parse
	Output string
	// Underlying error
	Err error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("failed to parse %s interface output, field %q", e.Platform, e.Field)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SelfIPError is returned by Discover when the local address could still not
// be determined after the single allowed retry.
type SelfIPError struct {
	// Err is the failure from the last self-info attempt
	Err error
}

func (e *SelfIPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to find your IP address: %v", e.Err)
	}
	return "failed to find your IP address"
}

func (e *SelfIPError) Unwrap() error {
	return e.Err
}

// ProbeError records a failed reachability check for one address. It is
// logged and folded into the unreachable partition.
type ProbeError struct {
	IP  string
	Err error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.IP, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// ResolveError records a failed hardware-address lookup for one address. It is
// logged and folded into the unresolved partition.
type ResolveError struct {
	IP  string
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.IP, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
