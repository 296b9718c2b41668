package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agentdeck/internal/config"
	"github.com/guilhermegouw/agentdeck/internal/session"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, storage locations and session counts",
		Long: `Display the current agentdeck status including:
  - Config, data, export and database locations
  - Action menu settings
  - Session and group counts`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	list, err := a.sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	catalog, err := a.groups.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "agentdeck Status")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config File:  %s\n", config.GlobalConfigPath())
	fmt.Fprintf(out, "Data Dir:     %s\n", a.cfg.DataDir())
	fmt.Fprintf(out, "Database:     %s\n", a.cfg.DatabasePath())
	fmt.Fprintf(out, "Export Dir:   %s\n", a.cfg.ExportDir())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Action Menu:")
	fmt.Fprintf(out, "  Trigger: %s\n", a.cfg.Menu.Trigger)
	fmt.Fprintf(out, "  Default list placement: %s\n", a.cfg.Menu.DefaultGroupPlacement)
	fmt.Fprintf(out, "  Copy export path: %v\n", a.cfg.Options.CopyExportPath)
	fmt.Fprintln(out)

	printSessionStats(out, list, time.Now())
	fmt.Fprintf(out, "Groups: %d\n", len(catalog))
	return nil
}

func printSessionStats(out io.Writer, list []*session.Session, now time.Time) {
	pinned := 0
	var last time.Time
	for _, s := range list {
		if session.Pinned(s) {
			pinned++
		}
		if s.UpdatedAt.After(last) {
			last = s.UpdatedAt
		}
	}

	fmt.Fprintf(out, "Sessions: %d (%d pinned)\n", len(list), pinned)
	if !last.IsZero() {
		fmt.Fprintf(out, "Last activity: %s ago\n", formatDuration(now.Sub(last)))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	hours := int(d.Hours())
	if hours < 24 {
		return fmt.Sprintf("%d hours", hours)
	}
	days := hours / 24
	return fmt.Sprintf("%d days", days)
}
