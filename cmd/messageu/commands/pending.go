package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Fetch and decrypt pending messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := appCtx.Messages.FetchPending()
			for _, m := range msgs {
				fmt.Printf("From: %s\nContent:\n%s\n\n", m.Sender, m.Body.Render())
			}
			if len(msgs) == 0 && err == nil {
				fmt.Println("There are no pending messages.")
			}
			for _, w := range appCtx.Messages.Warnings() {
				fmt.Println("warning: " + w)
			}
			return err
		},
	}
}
