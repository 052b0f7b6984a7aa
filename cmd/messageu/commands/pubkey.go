package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pubkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey <username>",
		Short: "Fetch a peer's public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Roster.FetchPublicKey(args[0]); err != nil {
				return err
			}
			fmt.Printf("%s's public key was retrieved successfully.\n", args[0])
			return nil
		},
	}
}
