package main

import "github.com/spf13/cobra"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sl",
		Short:         "Server Launcher CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListCmd())
	root.AddCommand(newStartCmd())
	root.AddCommand(newStopCmd())
	root.AddCommand(newSendCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newLogsCmd())
	root.AddCommand(newClearLogCmd())
	root.AddCommand(newTunnelCmd())

	return root
}
