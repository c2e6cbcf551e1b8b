package main

import (
	"context"
	"os"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				resp, err := client.ListServers(ctx, &apiv1.ListServersRequest{})
				if err != nil {
					return err
				}
				printServerTable(os.Stdout, resp.Servers...)
				return nil
			})
		},
	}
}
