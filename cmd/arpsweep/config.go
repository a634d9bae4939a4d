package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/arpsweep/internal/config"
	"github.com/muurk/arpsweep/internal/ui"
)

var forceInit bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file without asking")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	Long: `Manage the arpsweep settings file.

The file lives in the per-user config directory unless --config is given:
  Linux:   $XDG_CONFIG_HOME/arpsweep/config.yaml (~/.config/arpsweep/config.yaml)
  macOS:   ~/.config/arpsweep/config.yaml
  Windows: %LOCALAPPDATA%\arpsweep\config.yaml

Command-line flags override values from the file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	Long: `Write a settings file with default values, adjusted by any flags given on
the command line. An existing file is only replaced after confirmation.`,
	Example: `  # Defaults
  arpsweep config init

  # Native collaborators by default
  arpsweep config init --probe-mode icmp --resolve-mode arping --self-mode native`,
	Args: cobra.NoArgs,
	// The existing file may be the reason for running init, so it is not loaded.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	path, err := settingsPath()
	if err != nil {
		return err
	}

	s := config.NewSettings()
	if err := applyFlags(cmd, s); err != nil {
		return fail(printer, "Invalid settings", err)
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		ok := ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Settings file exists",
			[]string{
				path,
				"Every value in it will be replaced with the defaults",
			}, "yes")
		if !ok {
			return nil
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check settings file: %w", err)
	}

	if err := s.Save(path); err != nil {
		return fail(printer, "Could not write settings", err)
	}
	printer.PrintSuccess("Settings written", ui.Detail{Key: "Path", Value: path})
	return nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings in effect: the settings file with command-line flags
applied, or the defaults when no file exists.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	path, err := settingsPath()
	if err != nil {
		return err
	}
	data, err := settings.Marshal()
	if err != nil {
		return err
	}
	printer.Println(ui.SummaryStyle.Render("# " + path))
	printer.Print(string(data))
	return nil
}

// settingsPath returns --config or the default settings location.
func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
