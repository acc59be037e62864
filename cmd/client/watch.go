package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kenread/kenread/internal/client"
	"github.com/kenread/kenread/internal/logger"
)

func newWatchCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep bookmarks and history synced in the background until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(log, func(app *client.App) error {
				if app.User() == nil {
					return client.ErrNotAuthenticated
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				app.StartReload(ctx)
				defer app.StopReload()

				fmt.Println("Watching for changes; press Ctrl+C to stop")
				<-ctx.Done()
				return nil
			})
		},
	}
}
