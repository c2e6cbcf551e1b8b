package main

import (
	"context"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newClearLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-log <server_id>",
		Short: "Drop the retained console output of a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				_, err := client.ClearLog(ctx, &apiv1.ClearLogRequest{Id: args[0]})
				return err
			})
		},
	}
}
