package history

import (
	"errors"
	"fmt"
	"os"

	"diggercli/digger/internal/history"
	"diggercli/digger/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ClearCommand returns the "history clear" cobra command.
func ClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Long: `Delete all history entries.

Asks for confirmation when run in a terminal; use --force to skip the
prompt (required when scripting).

Examples:
  digger history clear
  digger history clear --force`,
		RunE:         runClear,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("force", false, "Clear without asking for confirmation")

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to clear history without --force in non-interactive mode")
		}
		confirmed, err := tui.Confirm("Delete all query history? This cannot be undone.")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.ErrOrStderr(), "Clear cancelled.")
			return nil
		}
	}

	repo, err := history.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Clear(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}
