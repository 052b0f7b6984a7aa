package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <username> <message...>",
		Short: "Encrypt and send a text message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Messages.SendText(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Message was sent successfully. Message ID: %d\n", id)
			return nil
		},
	}
}

func sendFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sendfile <username> <path>",
		Short: "Encrypt and send a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Messages.SendFile(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("File was sent successfully. Message ID: %d\n", id)
			return nil
		},
	}
}
