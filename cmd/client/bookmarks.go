package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kenread/kenread/internal/client"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

func newBookmarksCmd(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage bookmarked manga",
	}

	cmd.AddCommand(
		newBookmarksListCmd(log),
		newBookmarksAddCmd(log),
		newBookmarksRemoveCmd(log),
		newBookmarksSearchCmd(log),
	)

	return cmd
}

func newBookmarksListCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookmarked manga",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(log, func(app *client.App) error {
				ids := app.Bookmarks.BookmarkedIDs()
				if len(ids) == 0 {
					fmt.Println("No bookmarks")
					return nil
				}

				// hydrate titles from the catalog; fall back to bare IDs offline
				titles := map[string]string{}
				if manga, err := app.Catalog.GetMangaByIDs(cmd.Context(), ids); err == nil {
					for _, m := range manga {
						titles[m.ID] = m.DisplayTitle()
					}
				}

				for _, id := range ids {
					if title, ok := titles[id]; ok {
						fmt.Printf("%s  %s\n", id, title)
					} else {
						fmt.Println(id)
					}
				}
				return nil
			})
		},
	}
}

func newBookmarksAddCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "add <mangaID>",
		Short: "Bookmark a manga by its catalog ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(log, func(app *client.App) error {
				manga, err := app.Catalog.GetManga(cmd.Context(), args[0])
				if err != nil {
					// still usable offline: bookmark the bare ID
					log.Err(err).Str("mangaID", args[0]).Msg("catalog lookup failed")
					manga = models.Manga{ID: args[0]}
				}

				app.Bookmarks.AddBookmark(cmd.Context(), manga, app.User())
				app.Wait()
				if errText := app.Bookmarks.Err(); errText != "" {
					fmt.Println("Saved locally; server sync failed:", errText)
					return nil
				}
				fmt.Printf("Bookmarked %s\n", displayName(manga))
				return nil
			})
		},
	}
}

func newBookmarksRemoveCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <mangaID>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(log, func(app *client.App) error {
				app.Bookmarks.RemoveBookmark(cmd.Context(), args[0], app.User())
				app.Wait()
				if errText := app.Bookmarks.Err(); errText != "" {
					fmt.Println("Removed locally; server sync failed:", errText)
					return nil
				}
				fmt.Printf("Removed bookmark %s\n", args[0])
				return nil
			})
		},
	}
}

func newBookmarksSearchCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search bookmarked manga by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withApp(log, func(app *client.App) error {
				matches := app.Bookmarks.SearchBookmarks(strings.Join(args, " "))
				if len(matches) == 0 {
					fmt.Println("No matches")
					return nil
				}
				for _, m := range matches {
					fmt.Printf("%s  %s\n", m.ID, m.DisplayTitle())
				}
				return nil
			})
		},
	}
}

func displayName(m models.Manga) string {
	if title := m.DisplayTitle(); title != "" {
		return title
	}
	return m.ID
}
