package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agentdeck/internal/group"
)

// newGroupsCmd creates the groups command group.
func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group", "g"},
		Short:   "Manage the group catalog",
		Long: `Manage the groups sessions can be moved into.

Deleting a group moves its sessions back to the default list.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List groups in catalog order",
		Args:  cobra.NoArgs,
		RunE:  runGroupsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE:  runGroupsAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <group> <name>",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE:  runGroupsRename,
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <group>",
		Aliases: []string{"delete"},
		Short:   "Delete a group",
		Args:    cobra.ExactArgs(1),
		RunE:    runGroupsRemove,
	})

	return cmd
}

func runGroupsList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	catalog, err := a.groups.Catalog(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(catalog) == 0 {
		fmt.Fprintln(out, "No groups yet. Run 'agentdeck groups add <name>' to create one.")
		return nil
	}
	for _, g := range catalog {
		fmt.Fprintf(out, "%-36s  %s\n", g.ID, g.Name)
	}
	return nil
}

func runGroupsAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.groups.Create(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), g.ID)
	return nil
}

func runGroupsRename(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	gid, err := resolveGroup(ctx, a.groups, args[0])
	if err != nil {
		return err
	}
	if group.IsDefault(gid) {
		return fmt.Errorf("renaming group: %w", group.ErrReserved)
	}
	if err := a.groups.Rename(ctx, gid, args[1]); err != nil {
		return fmt.Errorf("renaming group: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", gid, args[1])
	return nil
}

func runGroupsRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	gid, err := resolveGroup(ctx, a.groups, args[0])
	if err != nil {
		return err
	}
	if err := a.groups.Delete(ctx, gid); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", gid)
	return nil
}
