// Arpsweep discovers the hosts on a local /24 subnet.
//
// It probes every address of the subnet for reachability, reads the hardware
// address of each host that answered, and labels it with a vendor type from
// the MAC prefix. Results can be printed, searched, browsed interactively or
// served over HTTP with a live WebSocket feed.
//
// Usage:
//
//	arpsweep [command] [flags]
//
// Running without arguments sweeps the local subnet and prints the hosts.
// See 'arpsweep --help' for available commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/arpsweep/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arpsweep",
	Short: "Discover hosts on the local subnet",
	Long: `Discover the hosts on a local /24 subnet.

Every address of the subnet is probed for reachability. Hosts that answer
have their hardware (MAC) address resolved and are labelled with a vendor
type from the address prefix.

If no command is specified, the local subnet is swept and printed.`,
	Version:           version.Full(),
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
	RunE:              runDiscover,
}

var versionJSON bool

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version details as JSON")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Version needs neither settings nor logging.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(version.Get())
		}
		info := version.Get()
		fmt.Fprintf(out, "arpsweep %s (commit: %s, %s, %s)\n", info.Version, info.Commit, info.GoVersion, info.Platform)
		return nil
	},
}
