package main

import (
	"context"
	"os"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <server_id>",
		Short: "Get status of a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				resp, err := client.Status(ctx, &apiv1.StatusRequest{Id: args[0]})
				if err != nil {
					return err
				}
				printServerTable(os.Stdout, resp.Server)
				printDetails(os.Stdout, resp.Server)
				return nil
			})
		},
	}
}
