// Package ui provides terminal output components for the arpsweep CLI.
//
// Components follow a "render once and exit" pattern built on Lipgloss:
//
//   - Header: Command banner showing the operation and its parameters
//   - Result: Success, warning and failure boxes with ordered details and
//     troubleshooting tips
//   - Host table: One row per discovered host, the local machine highlighted
//   - Spinner: A Bubble Tea program shown while a sweep runs
//
// Printer bundles these for commands and also writes JSON for scripted use.
//
// # Usage Pattern
//
//	printer := ui.NewPrinter(cmd.OutOrStdout())
//	printer.PrintHeader("Host Discovery", "arpsweep discover",
//	    ui.Detail{Key: "Subnet", Value: "192.168.1.0/24"})
//
//	var hosts []discovery.HostRecord
//	err := ui.RunWithSpinner(ctx, os.Stderr, "Sweeping...", ui.IsTerminal(os.Stderr),
//	    func(ctx context.Context) error {
//	        var err error
//	        hosts, err = engine.Discover(ctx, "")
//	        return err
//	    })
//
//	printer.PrintHosts(hosts, engine.LastSweep(), false)
//
// # Logging Integration
//
// zap logging is silent unless ARPSWEEP_LOG_LEVEL or --log-level is set, so
// the styled output is displayed cleanly by default. Logs go to stderr.
package ui
