package main

import (
	"context"
	"os"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newTunnelCmd() *cobra.Command {
	var start bool
	cmd := &cobra.Command{
		Use:   "tunnel",
		Short: "Make sure the tunnel agent is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				resp, err := client.EnsureTunnelAgent(ctx, &apiv1.EnsureTunnelAgentRequest{Start: start})
				if err != nil {
					return err
				}
				printServerTable(os.Stdout, resp.Server)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&start, "start", false, "also start the agent unless it is running")
	return cmd
}
