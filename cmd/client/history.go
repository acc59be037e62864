package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kenread/kenread/internal/client"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

func newHistoryCmd(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage reading history",
	}

	cmd.AddCommand(
		newHistoryListCmd(log),
		newHistoryLastCmd(log),
		newHistoryRecordCmd(log),
		newHistoryRemoveCmd(log),
		newHistoryClearCmd(log),
	)

	return cmd
}

func newHistoryListCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show reading history, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(log, func(app *client.App) error {
				history := app.History.History()
				if len(history) == 0 {
					fmt.Println("No reading history")
					return nil
				}

				for _, e := range history {
					readAt := time.UnixMilli(e.LastReadAt).Format("2006-01-02 15:04")
					title := e.MangaTitle
					if title == "" {
						title = e.MangaID
					}
					fmt.Printf("%s  %s  ch.%s (%s)\n", readAt, title, e.ChapterNumber, e.ChapterID)
				}
				return nil
			})
		},
	}
}

func newHistoryLastCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "last <mangaID>",
		Short: "Show the last read chapter of a manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withApp(log, func(app *client.App) error {
				entry, ok := app.History.GetLastReadChapter(args[0])
				if !ok {
					fmt.Println("No history for", args[0])
					return nil
				}

				readAt := time.UnixMilli(entry.LastReadAt).Format("2006-01-02 15:04")
				fmt.Printf("ch.%s (%s) read %s\n", entry.ChapterNumber, entry.ChapterID, readAt)
				return nil
			})
		},
	}
}

func newHistoryRecordCmd(log *logger.Logger) *cobra.Command {
	var (
		chapterNumber string
		mangaTitle    string
	)

	cmd := &cobra.Command{
		Use:   "record <mangaID> <chapterID>",
		Short: "Record a read chapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(log, func(app *client.App) error {
				entry := models.HistoryEntry{
					MangaID:       args[0],
					ChapterID:     args[1],
					ChapterNumber: chapterNumber,
					MangaTitle:    mangaTitle,
				}

				app.History.AddToHistory(cmd.Context(), entry, app.User())
				app.Wait()
				if errText := app.History.Err(); errText != "" {
					fmt.Println("Recorded locally; server sync failed:", errText)
					return nil
				}
				fmt.Printf("Recorded %s ch.%s\n", args[0], args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&chapterNumber, "chapter", "", "chapter number label")
	cmd.Flags().StringVar(&mangaTitle, "title", "", "manga title to store with the entry")
	return cmd
}

func newHistoryRemoveCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <mangaID>",
		Short: "Remove a manga from reading history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(log, func(app *client.App) error {
				app.History.RemoveFromHistory(cmd.Context(), args[0], app.User())
				app.Wait()
				if errText := app.History.Err(); errText != "" {
					fmt.Println("Removed locally; server sync failed:", errText)
					return nil
				}
				fmt.Printf("Removed %s from history\n", args[0])
				return nil
			})
		},
	}
}

func newHistoryClearCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the whole reading history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(log, func(app *client.App) error {
				app.History.ClearHistory(cmd.Context(), app.User())
				app.Wait()
				if errText := app.History.Err(); errText != "" {
					fmt.Println("Cleared locally; server sync failed:", errText)
					return nil
				}
				fmt.Println("History cleared")
				return nil
			})
		},
	}
}
