// Package cmd provides the CLI commands for agentdeck.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agentdeck/internal/config"
	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentdeck",
		Short: "Browse and organize agent sessions",
		Long: `agentdeck is a terminal session browser for conversational agents.

Sessions are listed by section: the inbox, pinned sessions, each group
and the default list. Every row has an action menu to pin, duplicate,
move, export or delete the session.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	cmd.PersistentFlags().String("config", "", "Path to a config file (overrides the global and project config)")
	cmd.Flags().Bool("debug", false, "Enable debug logging to the data directory")

	cmd.AddCommand(newSessionsCmd())
	cmd.AddCommand(newGroupsCmd())
	cmd.AddCommand(newMessagesCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := config.EnsureGlobal(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to write default config: %v\n", err)
	}

	a, cleanup, err := openTUIApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(tui.Options{
		Config:   a.cfg,
		Sessions: a.sessions,
		Groups:   a.groups,
		Exporter: a.exporter,
		Hub:      a.hub,
	})
}

// openTUIApp opens the app and turns on debug logging when asked to. The
// returned cleanup closes the app before the debug log, so the shutdown
// summary still reaches the log.
func openTUIApp(cmd *cobra.Command) (*app, func(), error) {
	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, nil, fmt.Errorf("getting debug flag: %w", err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return nil, nil, err
	}

	debugOn := false
	if debugMode || a.cfg.Options.Debug {
		logPath := a.cfg.DebugLogPath()
		if debugErr := debug.Enable(logPath); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
		} else {
			debugOn = true
			fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
		}
	}

	cleanup := func() {
		a.Close()
		if debugOn {
			debug.Disable()
		}
	}
	return a, cleanup, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
