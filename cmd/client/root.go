package main

import (
	"github.com/spf13/cobra"

	"github.com/kenread/kenread/internal/client"
	"github.com/kenread/kenread/internal/config"
	"github.com/kenread/kenread/internal/logger"
)

func newRootCmd(log *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "kenread",
		Short:         "Manga reader CLI with synced bookmarks and reading history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newVersionCmd(),
		newRegisterCmd(log),
		newLoginCmd(log),
		newLogoutCmd(log),
		newSyncCmd(log),
		newWatchCmd(log),
		newBookmarksCmd(log),
		newHistoryCmd(log),
		newCatalogCmd(log),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(_ *cobra.Command, _ []string) {
			printBuildInfo()
		},
	}
}

// withApp assembles the client runtime for a command run and makes sure every
// fire-and-forget replication finishes before the process exits.
func withApp(log *logger.Logger, run func(app *client.App) error) error {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return err
	}

	app, err := client.NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Wait()

	return run(app)
}
