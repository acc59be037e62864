package syncstore

import (
	"context"
	"sync"

	"github.com/kenread/kenread/internal/cache"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

// Failure messages surfaced through Err. The message, not the underlying
// error, is what consumers render; details go to the log.
const (
	msgLoadBookmarksFailed  = "failed to load bookmarks"
	msgAddBookmarkFailed    = "failed to add bookmark"
	msgRemoveBookmarkFailed = "failed to remove bookmark"
)

// BookmarkStore is the bookmark synchronizer. It owns the payload list and
// the membership ID set; the two are kept in lockstep by every mutation.
// All mutations commit locally (and to the cache slot) before the remote
// replication is spawned.
type BookmarkStore struct {
	remote RemoteStore
	slots  *cache.Slots
	log    *logger.Logger

	mu            sync.RWMutex
	bookmarks     []models.Manga
	bookmarkedIDs cache.StringSet
	isLoading     bool
	lastErr       string

	wg sync.WaitGroup
}

// NewBookmarkStore constructs the store and rehydrates it from the local
// cache slot when one is present.
func NewBookmarkStore(remote RemoteStore, slots *cache.Slots, log *logger.Logger) *BookmarkStore {
	s := &BookmarkStore{
		remote:        remote,
		slots:         slots,
		log:           log,
		bookmarkedIDs: cache.NewStringSet(),
	}

	if rec, ok := slots.LoadBookmarks(); ok {
		s.bookmarks = rec.Bookmarks
		s.bookmarkedIDs = rec.BookmarkedIDs
		s.lastErr = rec.Error
	}

	return s
}

// LoadBookmarks replaces the membership set wholesale with the IDs stored in
// the remote document. The payload list is not refetched here; hydrating
// full payloads from bare IDs is the caller's job (see catalog client).
// Without a signed-in user the call is a no-op.
func (s *BookmarkStore) LoadBookmarks(ctx context.Context, user *models.User) {
	if user == nil {
		return
	}

	s.mu.Lock()
	s.isLoading = true
	s.lastErr = ""
	s.persistLocked()
	s.mu.Unlock()

	ids, err := s.remote.GetBookmarkIDs(ctx, user.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		s.log.Err(err).Msg("error loading bookmarks")
		s.lastErr = msgLoadBookmarksFailed
		s.persistLocked()
		return
	}

	s.bookmarkedIDs = cache.NewStringSet(ids...)
	s.persistLocked()
}

// AddBookmark optimistically prepends the item and adds its ID to the
// membership set, then replicates to the remote document in the background.
// Adding an already-bookmarked item is a no-op: no state change, no remote
// call. A remote failure sets Err but never reverts the local add.
func (s *BookmarkStore) AddBookmark(ctx context.Context, manga models.Manga, user *models.User) {
	s.mu.Lock()
	if s.bookmarkedIDs.Has(manga.ID) {
		s.mu.Unlock()
		return
	}

	s.bookmarks = append([]models.Manga{manga}, s.bookmarks...)
	s.bookmarkedIDs = s.bookmarkedIDs.Clone()
	s.bookmarkedIDs.Add(manga.ID)
	s.persistLocked()
	s.mu.Unlock()

	if user == nil {
		return
	}

	s.replicate(ctx, msgAddBookmarkFailed, func(ctx context.Context) error {
		return s.remote.AddBookmarkID(ctx, user.UserID, manga.ID)
	})
}

// RemoveBookmark is symmetric to AddBookmark: a no-op for non-members,
// otherwise an optimistic removal from both containers followed by remote
// replication that never rolls back on failure.
func (s *BookmarkStore) RemoveBookmark(ctx context.Context, mangaID string, user *models.User) {
	s.mu.Lock()
	if !s.bookmarkedIDs.Has(mangaID) {
		s.mu.Unlock()
		return
	}

	filtered := make([]models.Manga, 0, len(s.bookmarks))
	for _, m := range s.bookmarks {
		if m.ID != mangaID {
			filtered = append(filtered, m)
		}
	}
	s.bookmarks = filtered
	s.bookmarkedIDs = s.bookmarkedIDs.Clone()
	s.bookmarkedIDs.Remove(mangaID)
	s.persistLocked()
	s.mu.Unlock()

	if user == nil {
		return
	}

	s.replicate(ctx, msgRemoveBookmarkFailed, func(ctx context.Context) error {
		return s.remote.RemoveBookmarkID(ctx, user.UserID, mangaID)
	})
}

// IsBookmarked is a pure membership query.
func (s *BookmarkStore) IsBookmarked(mangaID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bookmarkedIDs == nil {
		return false
	}
	return s.bookmarkedIDs.Has(mangaID)
}

// Bookmarks returns a copy of the payload list, most recently added first.
func (s *BookmarkStore) Bookmarks() []models.Manga {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Manga, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// BookmarkedIDs returns the membership set as a sorted list.
func (s *BookmarkStore) BookmarkedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookmarkedIDs.Values()
}

// IsLoading reports whether a load is in flight.
func (s *BookmarkStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Err returns the last failure message, or "" when the store is healthy.
func (s *BookmarkStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearStore resets the store to its empty state without any remote call.
// Invoked on logout or account switch so state never leaks across users
// sharing the cache slots.
func (s *BookmarkStore) ClearStore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks = nil
	s.bookmarkedIDs = cache.NewStringSet()
	s.isLoading = false
	s.lastErr = ""
	s.persistLocked()
}

// Wait blocks until all spawned remote replications have settled. The CLI
// calls it before exiting; tests use it to observe replication outcomes.
func (s *BookmarkStore) Wait() {
	s.wg.Wait()
}

// replicate spawns the remote call, detached from the caller's cancellation
// so a finished UI action cannot abort its own replication. Only the error
// field is updated on failure.
func (s *BookmarkStore) replicate(ctx context.Context, failureMsg string, op func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := op(ctx); err != nil {
			s.log.Err(err).Msg(failureMsg)
			s.mu.Lock()
			s.lastErr = failureMsg
			s.persistLocked()
			s.mu.Unlock()
		}
	}()
}

// persistLocked mirrors the current state into the cache slot. Callers must
// hold mu. Slot failures are handled inside the cache layer.
func (s *BookmarkStore) persistLocked() {
	s.slots.SaveBookmarks(cache.BookmarkRecord{
		Bookmarks:     s.bookmarks,
		BookmarkedIDs: s.bookmarkedIDs,
		IsLoading:     s.isLoading,
		Error:         s.lastErr,
	})
}
