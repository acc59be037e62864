package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kenread/kenread/internal/client"
	"github.com/kenread/kenread/internal/logger"
)

func newRegisterCmd(log *logger.Logger) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <login>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("password is required (use --password)")
			}
			return withApp(log, func(app *client.App) error {
				if err := app.Register(cmd.Context(), args[0], password); err != nil {
					return err
				}
				fmt.Printf("Registered and signed in as %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLoginCmd(log *logger.Logger) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <login>",
		Short: "Sign in and sync bookmarks and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("password is required (use --password)")
			}
			return withApp(log, func(app *client.App) error {
				if err := app.Login(cmd.Context(), args[0], password); err != nil {
					return err
				}
				fmt.Printf("Signed in as %s\n", args[0])
				if errText := app.Bookmarks.Err(); errText != "" {
					fmt.Println("Warning:", errText)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and wipe the local cache (the server copy is kept)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(log, func(app *client.App) error {
				app.Logout()
				fmt.Println("Signed out")
				return nil
			})
		},
	}
}

func newSyncCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reload bookmarks and history from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(log, func(app *client.App) error {
				if err := app.Sync(cmd.Context()); err != nil {
					return err
				}
				app.Wait()
				if errText := app.Bookmarks.Err(); errText != "" {
					return errors.New(errText)
				}
				if errText := app.History.Err(); errText != "" {
					return errors.New(errText)
				}
				fmt.Printf("Synced: %d bookmarks, %d history entries\n",
					len(app.Bookmarks.BookmarkedIDs()), len(app.History.History()))
				return nil
			})
		},
	}
}
