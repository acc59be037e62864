package syncstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kenread/kenread/internal/cache"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

// LocalHistoryLimit caps the in-memory and locally cached history length.
// The remote document enforces its own, smaller cap (see
// service.RemoteHistoryLimit); the two are intentionally independent.
const LocalHistoryLimit = 100

const (
	msgLoadHistoryFailed   = "failed to load reading history"
	msgAddHistoryFailed    = "failed to add to reading history"
	msgRemoveHistoryFailed = "failed to remove from reading history"
	msgClearHistoryFailed  = "failed to clear reading history"
)

// HistoryStore is the reading-history synchronizer. The list holds at most
// one entry per manga ID and stays sorted descending by LastReadAt at every
// observation point.
type HistoryStore struct {
	remote RemoteStore
	slots  *cache.Slots
	log    *logger.Logger

	mu        sync.RWMutex
	history   []models.HistoryEntry
	isLoading bool
	lastErr   string

	// now is epoch-millisecond clock, swappable in tests.
	now func() int64

	wg sync.WaitGroup
}

// NewHistoryStore constructs the store and rehydrates it from the local
// cache slot when one is present.
func NewHistoryStore(remote RemoteStore, slots *cache.Slots, log *logger.Logger) *HistoryStore {
	s := &HistoryStore{
		remote: remote,
		slots:  slots,
		log:    log,
		now:    func() int64 { return time.Now().UnixMilli() },
	}

	if rec, ok := slots.LoadHistory(); ok {
		s.history = rec.History
		s.lastErr = rec.Error
	}

	return s
}

// LoadHistory replaces the local list wholesale with the remote document's
// history. On failure the prior list is kept and Err is set.
func (s *HistoryStore) LoadHistory(ctx context.Context, user *models.User) {
	if user == nil {
		return
	}

	s.mu.Lock()
	s.isLoading = true
	s.lastErr = ""
	s.persistLocked()
	s.mu.Unlock()

	entries, err := s.remote.GetHistory(ctx, user.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		s.log.Err(err).Msg("error loading reading history")
		s.lastErr = msgLoadHistoryFailed
		s.persistLocked()
		return
	}

	s.history = entries
	s.persistLocked()
}

// AddToHistory records a chapter read: the entry for the same manga ID is
// overwritten in place (keyed merge), otherwise the entry is appended. The
// list is re-sorted by recency, capped at LocalHistoryLimit, committed
// optimistically, then replicated; the remote upsert applies its own cap.
func (s *HistoryStore) AddToHistory(ctx context.Context, entry models.HistoryEntry, user *models.User) {
	entry.LastReadAt = s.now()

	s.mu.Lock()
	updated := make([]models.HistoryEntry, len(s.history))
	copy(updated, s.history)

	found := false
	for i := range updated {
		if updated[i].MangaID == entry.MangaID {
			updated[i] = entry
			found = true
			break
		}
	}
	if !found {
		updated = append(updated, entry)
	}

	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].LastReadAt > updated[j].LastReadAt
	})
	if len(updated) > LocalHistoryLimit {
		updated = updated[:LocalHistoryLimit]
	}

	s.history = updated
	s.persistLocked()
	s.mu.Unlock()

	if user == nil {
		return
	}

	s.replicate(ctx, msgAddHistoryFailed, func(ctx context.Context) error {
		return s.remote.UpsertHistoryEntry(ctx, user.UserID, entry)
	})
}

// RemoveFromHistory drops the entry for the given manga ID locally, then
// replicates the removal.
func (s *HistoryStore) RemoveFromHistory(ctx context.Context, mangaID string, user *models.User) {
	s.mu.Lock()
	filtered := make([]models.HistoryEntry, 0, len(s.history))
	for _, e := range s.history {
		if e.MangaID != mangaID {
			filtered = append(filtered, e)
		}
	}
	s.history = filtered
	s.persistLocked()
	s.mu.Unlock()

	if user == nil {
		return
	}

	s.replicate(ctx, msgRemoveHistoryFailed, func(ctx context.Context) error {
		return s.remote.RemoveHistoryEntry(ctx, user.UserID, mangaID)
	})
}

// GetLastReadChapter returns the entry for the given manga ID. First match
// wins; the maintained sort makes that the most recent read.
func (s *HistoryStore) GetLastReadChapter(mangaID string) (models.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.history {
		if e.MangaID == mangaID {
			return e, true
		}
	}
	return models.HistoryEntry{}, false
}

// History returns a copy of the list, most recent first.
func (s *HistoryStore) History() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// IsLoading reports whether a load is in flight.
func (s *HistoryStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Err returns the last failure message, or "" when the store is healthy.
func (s *HistoryStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearHistory empties the list locally and replicates the clear.
func (s *HistoryStore) ClearHistory(ctx context.Context, user *models.User) {
	s.mu.Lock()
	s.history = nil
	s.persistLocked()
	s.mu.Unlock()

	if user == nil {
		return
	}

	s.replicate(ctx, msgClearHistoryFailed, func(ctx context.Context) error {
		return s.remote.ClearHistory(ctx, user.UserID)
	})
}

// ClearStore resets the store to its empty state without any remote call.
// Logout-isolation counterpart of BookmarkStore.ClearStore.
func (s *HistoryStore) ClearStore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.isLoading = false
	s.lastErr = ""
	s.persistLocked()
}

// Wait blocks until all spawned remote replications have settled.
func (s *HistoryStore) Wait() {
	s.wg.Wait()
}

func (s *HistoryStore) replicate(ctx context.Context, failureMsg string, op func(context.Context) error) {
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

func (s *HistoryStore) persistLocked() {
	s.slots.SaveHistory(cache.HistoryRecord{
		History:   s.history,
		IsLoading: s.isLoading,
		Error:     s.lastErr,
	})
}
