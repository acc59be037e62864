// Package client wires the CLI runtime: the local cache slots, the remote
// store client, the bookmark and history synchronizers, the catalog client,
// and the saved session.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kenread/kenread/internal/cache"
	"github.com/kenread/kenread/internal/catalog"
	"github.com/kenread/kenread/internal/config"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/remote"
	"github.com/kenread/kenread/internal/syncstore"
	"github.com/kenread/kenread/models"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user
// when no session is active.
var ErrNotAuthenticated = errors.New("not authenticated: run login first")

// App holds the assembled client runtime. The synchronizers rehydrate from
// the cache slots at construction, so reads work offline before the first
// remote load completes.
type App struct {
	cfg *config.ClientConfig
	log *logger.Logger

	Slots     *cache.Slots
	Remote    *remote.Store
	Catalog   *catalog.Client
	Bookmarks *syncstore.BookmarkStore
	History   *syncstore.HistoryStore

	reload *syncstore.ReloadJob

	user *models.User
}

// NewApp assembles the runtime and restores a saved session when one exists.
// A restored session installs the saved token without talking to the server;
// the first authenticated call surfaces expiry if the token has gone stale.
func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	slots, err := cache.NewSlots(cfg.Client.CacheDir, log)
	if err != nil {
		return nil, fmt.Errorf("init cache slots: %w", err)
	}

	remoteStore := remote.NewStore(remote.Config{
		BaseURL: cfg.Client.ServerURL,
		Timeout: cfg.Client.RequestTimeout,
	})

	app := &App{
		cfg:       cfg,
		log:       log,
		Slots:     slots,
		Remote:    remoteStore,
		Catalog: catalog.NewClient(catalog.Config{
			BaseURL:           cfg.Catalog.BaseURL,
			UserAgent:         cfg.Catalog.UserAgent,
			RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
			Timeout:           cfg.Client.RequestTimeout,
		}),
		Bookmarks: syncstore.NewBookmarkStore(remoteStore, slots, log),
		History:   syncstore.NewHistoryStore(remoteStore, slots, log),
	}
	app.reload = syncstore.NewReloadJob(app.Bookmarks, app.History)

	if session, err := slots.LoadSession(); err == nil {
		remoteStore.SetToken(session.Token)
		app.user = &models.User{UserID: session.UserID, Login: session.Login}
		log.Debug().Str("login", session.Login).Msg("restored saved session")
	}

	return app, nil
}

// User returns the signed-in user, or nil when no session is active.
func (a *App) User() *models.User {
	return a.user
}

// Register creates an account, signs in, and runs the initial sync.
func (a *App) Register(ctx context.Context, login, password string) error {
	user, err := a.Remote.Register(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return err
	}
	return a.signIn(ctx, user)
}

// Login authenticates and runs the initial sync.
func (a *App) Login(ctx context.Context, login, password string) error {
	user, err := a.Remote.Login(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return err
	}
	return a.signIn(ctx, user)
}

// Logout clears the local state only: both synchronizers are reset, the cache
// slots and session are wiped, and the token is dropped. The remote document
// is left untouched so the next sign-in starts from it.
func (a *App) Logout() {
	a.reload.Stop()
	a.Wait()

	a.Bookmarks.ClearStore()
	a.History.ClearStore()
	a.Slots.Clear()
	if err := a.Slots.ClearSession(); err != nil {
		a.log.Err(err).Msg("error clearing saved session")
	}

	a.Remote.SetToken("")
	a.user = nil
}

// Sync reloads both synchronizers from the server.
func (a *App) Sync(ctx context.Context) error {
	if a.user == nil {
		return ErrNotAuthenticated
	}

	a.Bookmarks.LoadBookmarks(ctx, a.user)
	a.History.LoadHistory(ctx, a.user)
	return nil
}

// StartReload launches the periodic background reload job for the signed-in
// user.
func (a *App) StartReload(ctx context.Context) {
	if a.user == nil {
		return
	}
	a.reload.Start(ctx, a.user, a.cfg.Client.ReloadInterval)
}

// StopReload stops the background reload job.
func (a *App) StopReload() {
	a.reload.Stop()
}

// Wait blocks until all in-flight replication goroutines have finished. The
// CLI calls it before exiting so fire-and-forget writes are not cut off.
func (a *App) Wait() {
	a.Bookmarks.Wait()
	a.History.Wait()
}

func (a *App) signIn(ctx context.Context, user models.User) error {
	a.user = &user

	if err := a.Slots.SaveSession(cache.SessionRecord{
		UserID: user.UserID,
		Login:  user.Login,
		Token:  a.Remote.Token(),
		At:     time.Now(),
	}); err != nil {
		a.log.Err(err).Msg("error saving session")
	}

	if err := a.Remote.EnsureUserDocument(ctx, user.UserID); err != nil {
		return fmt.Errorf("ensure user document: %w", err)
	}

	a.Bookmarks.LoadBookmarks(ctx, a.user)
	a.History.LoadHistory(ctx, a.user)
	return nil
}
