package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch the roster of registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := appCtx.Roster.Refresh()
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("Server has no users registered.")
				return nil
			}
			fmt.Println("Registered users:")
			for _, name := range appCtx.Peers.Names() {
				fmt.Println("  " + name)
			}
			return nil
		},
	}
}
