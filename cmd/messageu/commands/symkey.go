package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func keyRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keyreq <username>",
		Short: "Ask a peer for a symmetric key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Messages.RequestKey(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Symmetric key request was sent successfully. Message ID: %d\n", id)
			return nil
		},
	}
}

func keySendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keysend <username>",
		Short: "Negotiate and send a symmetric key to a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Messages.SendKey(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Symmetric key was sent successfully. Message ID: %d\n", id)
			return nil
		},
	}
}
