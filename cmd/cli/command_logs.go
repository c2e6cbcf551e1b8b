package main

import (
	"context"
	"fmt"
	"io"
	"os"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "logs <server_id>",
		Short: "Print the retained console output of a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			return withClient(ctx, func(client apiv1.ServerLauncherServiceClient) error {
				if !follow {
					resp, err := client.GetLog(ctx, &apiv1.GetLogRequest{Id: id})
					if err != nil {
						return err
					}
					_, err = io.WriteString(os.Stdout, resp.Text)
					return err
				}
				return followLog(ctx, client, id)
			})
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep streaming new output and status changes")
	return cmd
}

func followLog(ctx context.Context, client apiv1.ServerLauncherServiceClient, id string) error {
	stream, err := client.Watch(ctx, &apiv1.WatchRequest{Id: id, IncludeLog: true})
	if err != nil {
		return err
	}
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch ev.Type {
		case apiv1.EventTypeOutput:
			if _, err := io.WriteString(os.Stdout, ev.Text); err != nil {
				return err
			}
		case apiv1.EventTypeStatusChanged:
			_, _ = fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.Status, describeExit(ev.Details))
		}
	}
}
