package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kenread/kenread/internal/client"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

func newCatalogCmd(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the manga catalog",
	}

	var limit, offset int
	cmd.PersistentFlags().IntVar(&limit, "limit", 20, "page size")
	cmd.PersistentFlags().IntVar(&offset, "offset", 0, "page offset")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trending",
			Short: "Most followed manga",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(log, func(app *client.App) error {
					manga, err := app.Catalog.Trending(cmd.Context(), limit, offset)
					if err != nil {
						return err
					}
					printMangaList(manga)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "latest",
			Short: "Recently updated manga",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(log, func(app *client.App) error {
					manga, err := app.Catalog.Latest(cmd.Context(), limit, offset)
					if err != nil {
						return err
					}
					printMangaList(manga)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "search <title>",
			Short: "Search the catalog by title",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(log, func(app *client.App) error {
					manga, err := app.Catalog.Search(cmd.Context(), strings.Join(args, " "), limit, offset)
					if err != nil {
						return err
					}
					printMangaList(manga)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "chapters <mangaID>",
			Short: "List English chapters of a manga",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(log, func(app *client.App) error {
					chapters, err := app.Catalog.GetChapters(cmd.Context(), args[0], limit, offset)
					if err != nil {
						return err
					}
					for _, c := range chapters {
						title := c.Attributes.Title
						if title == "" {
							title = "-"
						}
						fmt.Printf("%s  ch.%s  %s\n", c.ID, c.Attributes.Chapter, title)
					}
					return nil
				})
			},
		},
	)

	return cmd
}

func printMangaList(manga []models.Manga) {
	if len(manga) == 0 {
		fmt.Println("No results")
		return
	}
	for _, m := range manga {
		fmt.Printf("%s  %s\n", m.ID, m.DisplayTitle())
	}
}
