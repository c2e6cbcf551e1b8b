package main

import (
	"context"
	"os"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <server_id>",
		Short: "Start a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				resp, err := client.Start(ctx, &apiv1.StartRequest{Id: args[0]})
				if err != nil {
					return err
				}
				printServerTable(os.Stdout, resp.Server)
				return nil
			})
		},
	}
}
