// Package syncstore holds the client-side state synchronizers: in-memory
// bookmark and reading-history stores that mutate locally first, mirror
// every state change into the cache slots, and replicate to the remote
// per-user document in the background. Remote failures surface through the
// store's error field and never roll back an applied local mutation; the
// next successful load reconciles any divergence.
package syncstore

import (
	"context"

	"github.com/kenread/kenread/models"
)

// RemoteStore is the remote persistence contract the synchronizers need.
// The interface lives here because the stores (the consumers) define it;
// the HTTP implementation lives in internal/remote.
type RemoteStore interface {
	// GetBookmarkIDs returns the stored bookmark ID list, creating an empty
	// document first when none exists.
	GetBookmarkIDs(ctx context.Context, userID int64) ([]string, error)

	// AddBookmarkID performs an idempotent set-union add.
	AddBookmarkID(ctx context.Context, userID int64, mangaID string) error

	// RemoveBookmarkID performs an idempotent set removal. Against a user
	// with no prior document it is a silent no-op.
	RemoveBookmarkID(ctx context.Context, userID int64, mangaID string) error

	// GetHistory returns the stored reading history, most recent first.
	GetHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error)

	// UpsertHistoryEntry replaces the entry with the same manga ID or
	// prepends a new one, capping the remote list at its own limit.
	UpsertHistoryEntry(ctx context.Context, userID int64, entry models.HistoryEntry) error

	// RemoveHistoryEntry removes the entry with the given manga ID.
	RemoveHistoryEntry(ctx context.Context, userID int64, mangaID string) error

	// ClearHistory replaces the stored history with an empty list.
	ClearHistory(ctx context.Context, userID int64) error
}
