package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved login profiles",
	}

	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileDeleteCmd())

	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			usernames := app.Profiles.List(cmd.Context())
			if len(usernames) == 0 {
				app.Console.Plain("No saved profiles")
				return nil
			}
			sort.Strings(usernames)
			for _, username := range usernames {
				app.Console.Plain(username)
			}
			return nil
		},
	}
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Profiles.Delete(cmd.Context(), args[0]) {
				return fmt.Errorf("no saved profile for %q", args[0])
			}
			app.Console.Success(fmt.Sprintf("Deleted profile %s", args[0]))
			return nil
		},
	}
}
