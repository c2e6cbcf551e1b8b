package main

import (
	"context"
	"strings"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <server_id> <command...>",
		Short: "Send a console command to a Java server",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				_, err := client.SendCommand(ctx, &apiv1.SendCommandRequest{
					Id:      args[0],
					Command: strings.Join(args[1:], " "),
				})
				return err
			})
		},
	}
}
