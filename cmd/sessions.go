package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/session"
)

// newSessionsCmd creates the sessions command group.
func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session", "s"},
		Short:   "Manage sessions",
		Long: `Manage sessions without opening the browser.

Examples:
  agentdeck sessions list             List sessions by section
  agentdeck sessions new "Planner"    Create a session
  agentdeck sessions pin <id>         Pin a session (--off to unpin)
  agentdeck sessions move <id> Work   Move a session into a group
  agentdeck sessions dup <id>         Duplicate a session
  agentdeck sessions rm <id> --yes    Delete a session`,
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsNewCmd())
	cmd.AddCommand(newSessionsPinCmd())
	cmd.AddCommand(newSessionsMoveCmd())
	cmd.AddCommand(newSessionsDupCmd())
	cmd.AddCommand(newSessionsRemoveCmd())

	return cmd
}

type sessionJSON struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Group        string    `json:"group"`
	Pinned       bool      `json:"pinned"`
	Locked       bool      `json:"locked"`
	MessageCount int       `json:"messageCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newSessionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsList,
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag is registered above

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
	ordered := orderSessions(list, catalog)
	out := cmd.OutOrStdout()

	if asJSON {
		rows := make([]sessionJSON, 0, len(ordered))
		for _, s := range ordered {
			rows = append(rows, sessionJSON{
				ID:           s.ID,
				Title:        s.Title,
				Group:        group.Normalize(s.Group),
				Pinned:       session.Pinned(s),
				Locked:       session.IsLocked(s.ID),
				MessageCount: s.MessageCount,
				UpdatedAt:    s.UpdatedAt,
			})
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("encoding sessions: %w", err)
		}
		_, err = out.Write(pretty.Pretty(data))
		return err
	}

	section := ""
	for _, s := range ordered {
		if name := sectionOf(s, catalog); name != section {
			section = name
			fmt.Fprintf(out, "%s\n", section)
		}
		fmt.Fprintf(out, "  %-36s  %-30s  %d msgs\n", s.ID, truncate(s.DisplayTitle(), 30), s.MessageCount)
	}
	return nil
}

// orderSessions arranges sessions the way the browser shows them.
func orderSessions(list []*session.Session, catalog []group.Group) []*session.Session {
	rank := func(s *session.Session) int {
		switch {
		case session.IsLocked(s.ID):
			return 0
		case s.Pinned:
			return 1
		}
		gid := group.Normalize(s.Group)
		for i, g := range catalog {
			if g.ID == gid {
				return 2 + i
			}
		}
		return 2 + len(catalog)
	}

	buckets := make([][]*session.Session, 3+len(catalog))
	for _, s := range list {
		r := rank(s)
		buckets[r] = append(buckets[r], s)
	}
	out := make([]*session.Session, 0, len(list))
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

func sectionOf(s *session.Session, catalog []group.Group) string {
	switch {
	case session.IsLocked(s.ID):
		return "Inbox"
	case s.Pinned:
		return "Pinned"
	}
	gid := group.Normalize(s.Group)
	for _, g := range catalog {
		if g.ID == gid {
			return g.Name
		}
	}
	return "Default List"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func newSessionsNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsNew,
	}
	cmd.Flags().String("group", "", "Group ID or name to create the session in")
	cmd.Flags().String("description", "", "Session description")
	cmd.Flags().String("system-prompt", "", "System prompt")
	return cmd
}

func runSessionsNew(cmd *cobra.Command, args []string) error {
	groupArg, _ := cmd.Flags().GetString("group")       //nolint:errcheck // flag is registered above
	desc, _ := cmd.Flags().GetString("description")     //nolint:errcheck // flag is registered above
	prompt, _ := cmd.Flags().GetString("system-prompt") //nolint:errcheck // flag is registered above

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var opts []session.CreateOption
	if groupArg != "" {
		gid, err := resolveGroup(ctx, a.groups, groupArg)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithGroup(gid))
	}
	if desc != "" {
		opts = append(opts, session.WithDescription(desc))
	}
	if prompt != "" {
		opts = append(opts, session.WithSystemPrompt(prompt))
	}

	sess, err := a.sessions.Create(ctx, args[0], opts...)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sess.ID)
	return nil
}

func newSessionsPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsPin,
	}
	cmd.Flags().Bool("off", false, "Unpin instead of pinning")
	return cmd
}

func runSessionsPin(cmd *cobra.Command, args []string) error {
	off, _ := cmd.Flags().GetBool("off") //nolint:errcheck // flag is registered above

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sessions.Pin(cmd.Context(), args[0], !off); err != nil {
		return fmt.Errorf("pinning session: %w", err)
	}
	state := "Pinned"
	if off {
		state = "Unpinned"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, args[0])
	return nil
}

func newSessionsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <group>",
		Short: "Move a session into a group (\"default\" for the default list)",
		Args:  cobra.ExactArgs(2),
		RunE:  runSessionsMove,
	}
}

func runSessionsMove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	gid, err := resolveGroup(ctx, a.groups, args[1])
	if err != nil {
		return err
	}
	if err := a.sessions.Move(ctx, args[0], gid); err != nil {
		return fmt.Errorf("moving session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", args[0], gid)
	return nil
}

// resolveGroup accepts a group ID, a group name or "default".
func resolveGroup(ctx context.Context, groups *group.Service, arg string) (string, error) {
	if group.IsDefault(group.Normalize(arg)) {
		return group.DefaultID, nil
	}
	catalog, err := groups.Catalog(ctx)
	if err != nil {
		return "", fmt.Errorf("loading groups: %w", err)
	}
	for _, g := range catalog {
		if g.ID == arg {
			return g.ID, nil
		}
	}
	for _, g := range catalog {
		if strings.EqualFold(g.Name, arg) {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", group.ErrNotFound, arg)
}

func newSessionsDupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dup <id>",
		Short: "Duplicate a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsDup,
	}
}

func runSessionsDup(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	dup, err := a.sessions.Duplicate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("duplicating session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), dup.ID)
	return nil
}

func newSessionsRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a session",
		Args:    cobra.ExactArgs(1),
		RunE:    runSessionsRemove,
	}
	cmd.Flags().BoolP("yes", "y", false, "Delete without asking")
	return cmd
}

// errNotConfirmed is returned when a deletion is declined.
var errNotConfirmed = errors.New("deletion not confirmed")

func runSessionsRemove(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes") //nolint:errcheck // flag is registered above

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	sess, err := a.sessions.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("%w: pass --yes to delete without a terminal", errNotConfirmed)
		}
		ok, err := askConfirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q? [y/N] ", sess.DisplayTitle()))
		if err != nil {
			return err
		}
		if !ok {
			return errNotConfirmed
		}
	}

	if err := a.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", sess.ID)
	return nil
}

func askConfirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
