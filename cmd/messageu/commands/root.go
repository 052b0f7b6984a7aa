package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"messageu/internal/app"
)

var (
	dir     string
	server  string
	verbose bool

	appCtx *app.App
)

// Execute runs the messageu CLI. With no subcommand the interactive menu
// starts.
func Execute() error {
	root := &cobra.Command{
		Use:           "messageu",
		Short:         "MessageU end-to-end encrypted messaging client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
			var err error
			appCtx, err = app.New(app.Config{Dir: dir, Server: server})
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, args)
		},
	}

	root.PersistentFlags().StringVar(&dir, "dir", ".", "directory holding server.info and me.info")
	root.PersistentFlags().StringVar(&server, "server", "", "relay address override (host:port)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		registerCmd(),
		listCmd(),
		pubkeyCmd(),
		pendingCmd(),
		sendCmd(),
		sendFileCmd(),
		keyRequestCmd(),
		keySendCmd(),
		menuCmd(),
	)
	return root.Execute()
}
