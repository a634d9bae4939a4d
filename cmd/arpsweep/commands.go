package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/ui"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command flags
var (
	outputFormat string
	refresh      bool
	searchRef    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatTable, "Output format (table, json)")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(selfCmd)
	rootCmd.AddCommand(searchCmd)

	discoverCmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore any cached result")
	searchCmd.PersistentFlags().StringVar(&searchRef, "ref", "", "Any address in the subnet to search (default: local subnet)")

	searchCmd.AddCommand(searchIPCmd)
	searchCmd.AddCommand(searchMACCmd)
	searchCmd.AddCommand(searchTypeCmd)
}

// discoverCmd sweeps a subnet and prints its hosts
var discoverCmd = &cobra.Command{
	Use:   "discover [ref-ip]",
	Short: "Sweep a /24 subnet and list its hosts",
	Long: `Sweep a /24 subnet and list the hosts that answered.

Every address of the subnet containing ref-ip is probed. Without ref-ip the
subnet of the local machine's active interface is swept. Hosts are listed in
address order with their MAC address and vendor type; the local machine is
marked.`,
	Example: `  # Sweep the local subnet
  arpsweep discover

  # Sweep another subnet
  arpsweep discover 10.0.0.1

  # JSON output for scripting
  arpsweep discover --format json

  # Faster sweep with a 1 second probe timeout
  arpsweep discover --timeout 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	refIP := ""
	if len(args) > 0 {
		refIP = args[0]
	}

	engine, err := newEngine(settings)
	if err != nil {
		return fail(printer, "Setup failed", err)
	}
	if refresh {
		engine.Invalidate()
	}

	before := engine.LastSweep().ID
	var hosts []discovery.HostRecord
	err = ui.RunWithSpinner(cmd.Context(), os.Stderr, sweepLabel(refIP), animate(), func(ctx context.Context) error {
		var err error
		hosts, err = engine.Discover(ctx, refIP)
		return err
	})
	if err != nil {
		return fail(printer, "Sweep failed", err)
	}

	if outputFormat == formatJSON {
		return printer.PrintJSON(nonNil(hosts))
	}
	sweep := engine.LastSweep()
	printer.PrintHosts(hosts, sweep, sweep.ID == before)
	return nil
}

// selfCmd prints the local machine's active interface
var selfCmd = &cobra.Command{
	Use:   "self",
	Short: "Show the local machine's active interface",
	Long: `Show the interface, IPv4 address, netmask and MAC address of the local
machine's active interface. This is the interface whose subnet is swept when
no reference address is given.`,
	Args: cobra.NoArgs,
	RunE: runSelf,
}

func runSelf(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	engine, err := newEngine(settings)
	if err != nil {
		return fail(printer, "Setup failed", err)
	}
	info, err := engine.ResolveSelf(cmd.Context())
	if err != nil {
		return fail(printer, "Interface lookup failed", err)
	}

	if outputFormat == formatJSON {
		return printer.PrintJSON(info)
	}
	printer.PrintSelf(info)
	return nil
}

// searchCmd groups the host queries
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find hosts by address, MAC fragment or vendor type",
	Long: `Find hosts on a subnet by IPv4 address, MAC address fragment or vendor type.

Searches run a sweep first, which is reused from the cache when a recent one
exists. Terms that match no host are reported as missing.`,
}

var searchIPCmd = &cobra.Command{
	Use:   "ip <ip>...",
	Short: "Find hosts by IPv4 address",
	Long: `Find hosts by IPv4 address. Without --ref the subnet of the first address
is swept.`,
	Example: `  arpsweep search ip 192.168.1.20 192.168.1.31`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, "addresses", func(ctx context.Context, e *discovery.Engine) (discovery.SearchResult, error) {
			return e.SearchByIP(ctx, args, searchRef)
		})
	},
}

var searchMACCmd = &cobra.Command{
	Use:   "mac <fragment>...",
	Short: "Find hosts whose MAC address contains a fragment",
	Long: `Find hosts whose MAC address contains any of the fragments. Fragments are
matched case-insensitively, with or without separators.`,
	Example: `  # All Raspberry Pi boards
  arpsweep search mac b8:27:eb dc:a6:32`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, "fragments", func(ctx context.Context, e *discovery.Engine) (discovery.SearchResult, error) {
			return e.SearchByMAC(ctx, args, searchRef)
		})
	},
}

var searchTypeCmd = &cobra.Command{
	Use:     "type <vendor>",
	Short:   "Find hosts with a vendor type",
	Example: `  arpsweep search type "Raspberry Pi"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, "", func(ctx context.Context, e *discovery.Engine) (discovery.SearchResult, error) {
			hosts, err := e.SearchByType(ctx, args[0], searchRef)
			return discovery.SearchResult{Hosts: hosts}, err
		})
	},
}

// runSearch runs query behind a spinner and prints the hosts found and, when
// kind is set, the query terms that matched nothing.
func runSearch(cmd *cobra.Command, kind string, query func(context.Context, *discovery.Engine) (discovery.SearchResult, error)) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	engine, err := newEngine(settings)
	if err != nil {
		return fail(printer, "Setup failed", err)
	}

	var result discovery.SearchResult
	err = ui.RunWithSpinner(cmd.Context(), os.Stderr, sweepLabel(searchRef), animate(), func(ctx context.Context) error {
		var err error
		result, err = query(ctx, engine)
		return err
	})
	if err != nil {
		return fail(printer, "Search failed", err)
	}

	if outputFormat == formatJSON {
		if kind == "" {
			return printer.PrintJSON(nonNil(result.Hosts))
		}
		if result.Missing == nil {
			result.Missing = []string{}
		}
		result.Hosts = nonNil(result.Hosts)
		return printer.PrintJSON(result)
	}

	printer.PrintHosts(result.Hosts, engine.LastSweep(), false)
	if kind != "" && len(result.Missing) > 0 {
		printer.PrintMissing(kind, result.Missing)
	}
	return nil
}

// fail prints err in an error box with hints for its kind and returns it so
// the command exits non-zero.
func fail(printer *ui.Printer, title string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if outputFormat != formatJSON {
		printer.PrintError(title, err, troubleshooting(err))
	}
	return err
}

// troubleshooting returns hints for the errors users can act on.
func troubleshooting(err error) []string {
	var (
		noIface  *discovery.NoActiveInterfaceError
		selfErr  *discovery.SelfIPError
		addrErr  *discovery.AddressError
		inputErr *discovery.InputError
		cfgErr   *discovery.ConfigError
		parseErr *discovery.ParseError
	)
	switch {
	case errors.As(err, &noIface), errors.As(err, &selfErr):
		return []string{
			"Check that a network interface is up with a private IPv4 address",
			"Pass an address on the subnet to sweep: arpsweep discover 192.168.1.1",
			"Try the native lookup: --self-mode native",
		}
	case errors.As(err, &addrErr), errors.As(err, &inputErr):
		return []string{
			"Addresses must be dotted-quad IPv4, e.g. 192.168.1.20",
		}
	case errors.As(err, &cfgErr):
		return []string{
			"--timeout must be between 1 and 60 seconds",
			"Check the settings file: arpsweep config show",
		}
	case errors.As(err, &parseErr):
		return []string{
			"The system tool printed output in an unexpected format",
			"Try the native collaborators: --self-mode native --resolve-mode arping",
			"Run with --log-level debug and report the output",
		}
	}
	return []string{
		"Run with --log-level debug for details",
	}
}

func sweepLabel(refIP string) string {
	timeout := strconv.Itoa(settings.Timeout) + "s"
	if refIP == "" {
		return "Sweeping local subnet (probe timeout " + timeout + ")..."
	}
	return fmt.Sprintf("Sweeping subnet of %s (probe timeout %s)...", refIP, timeout)
}

// animate reports whether progress may be drawn on stderr.
func animate() bool {
	return outputFormat != formatJSON && ui.IsTerminal(os.Stderr)
}

func nonNil(hosts []discovery.HostRecord) []discovery.HostRecord {
	if hosts == nil {
		return []discovery.HostRecord{}
	}
	return hosts
}
