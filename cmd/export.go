package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agentdeck/internal/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a session's agent settings",
		Long: `Write a session's agent settings to a JSON file in the export directory.

With --messages the file also carries the session's message history.
With --check the written file is read back and validated.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
	cmd.Flags().Bool("messages", false, "Include the message history")
	cmd.Flags().Bool("check", false, "Validate the written file")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	withMessages, _ := cmd.Flags().GetBool("messages") //nolint:errcheck // flag is registered above
	check, _ := cmd.Flags().GetBool("check")           //nolint:errcheck // flag is registered above

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var path string
	if withMessages {
		path, err = a.exporter.ExportSession(ctx, args[0])
	} else {
		path, err = a.exporter.ExportAgent(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("exporting session: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, path)
	if !check {
		return nil
	}

	//nolint:gosec // G304: path was just written by the exporter.
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading export: %w", err)
	}
	if err := export.Validate(doc); err != nil {
		return err
	}
	sum := export.Summarize(doc)
	fmt.Fprintf(out, "ok: %s export of %q (%s), %d messages\n", sum.Type, sum.Title, sum.SessionID, sum.Messages)
	return nil
}
