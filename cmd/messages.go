package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agentdeck/internal/message"
)

// newMessagesCmd creates the messages command group. Agents that run outside
// agentdeck record their turns through it.
func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Read and record session history",
	}

	list := &cobra.Command{
		Use:   "list <session>",
		Short: "Print a session's history, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE:  runMessagesList,
	}

	add := &cobra.Command{
		Use:   "add <session> <text>...",
		Short: "Append a message to a session",
		Long: `Append a message to a session's history.

The text arguments are joined with spaces. Use --reasoning to attach the
agent's reasoning ahead of the text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMessagesAdd,
	}
	add.Flags().String("role", string(message.RoleUser), "Message role: user, assistant or system")
	add.Flags().String("reasoning", "", "Reasoning recorded before the text")

	cmd.AddCommand(list, add)
	return cmd
}

func runMessagesList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	sess, err := a.sessions.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	history, err := a.messages.GetBySession(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintf(out, "%s has no messages.\n", sess.DisplayTitle())
		return nil
	}
	for _, m := range history {
		text := m.TextContent()
		if text == "" {
			text = "(reasoning) " + m.ReasoningContent()
		}
		fmt.Fprintf(out, "%s  %-9s  %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Role, truncate(oneLine(text), 80))
	}
	return nil
}

func runMessagesAdd(cmd *cobra.Command, args []string) error {
	roleFlag, _ := cmd.Flags().GetString("role")       //nolint:errcheck // flag is registered above
	reasoning, _ := cmd.Flags().GetString("reasoning") //nolint:errcheck // flag is registered above

	role, err := message.ParseRole(roleFlag)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	sess, err := a.sessions.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	msg, err := a.messages.Record(ctx, sess.ID, role, strings.Join(args[1:], " "), reasoning)
	if err != nil {
		return fmt.Errorf("recording message: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg.ID)
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
