package main

import (
	"context"
	"os"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "stop <server_id>",
		Short: "Stop a server gracefully",
		Long:  "Stop a server gracefully. Java servers get their stop command, other processes SIGTERM; both are killed when they outlive the deadline.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				resp, err := client.Stop(ctx, &apiv1.StopRequest{Id: args[0], Force: force})
				if err != nil {
					return err
				}
				printServerTable(os.Stdout, resp.Server)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "kill the process tree immediately")
	return cmd
}
