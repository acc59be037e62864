package syncstore

import (
	"context"
	"sync"
	"time"

	"github.com/kenread/kenread/models"
)

// loader is the subset of a synchronizer the reload job drives.
type loader interface {
	// Load re-fetches store state from the remote document.
	Load(ctx context.Context, user *models.User)
}

type bookmarkLoader struct{ store *BookmarkStore }

func (l bookmarkLoader) Load(ctx context.Context, user *models.User) {
	l.store.LoadBookmarks(ctx, user)
}

type historyLoader struct{ store *HistoryStore }

func (l historyLoader) Load(ctx context.Context, user *models.User) {
	l.store.LoadHistory(ctx, user)
}

// ReloadJob periodically re-loads both synchronizers from the remote
// document. Reload is the only reconciliation mechanism after an optimistic
// mutation diverged from the remote state. The job is idle until Start.
type ReloadJob struct {
	loaders []loader

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReloadJob creates a job over the given stores.
func NewReloadJob(bookmarks *BookmarkStore, history *HistoryStore) *ReloadJob {
	return &ReloadJob{
		loaders: []loader{bookmarkLoader{bookmarks}, historyLoader{history}},
	}
}

// Start stops any previously running job, then launches a background
// goroutine that reloads every interval. If interval is zero or negative it
// defaults to 5 minutes. The goroutine exits when ctx is cancelled or Stop
// is called.
func (j *ReloadJob) Start(ctx context.Context, user *models.User, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				for _, l := range j.loaders {
					l.Load(jobCtx, user)
				}
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the job is not running.
func (j *ReloadJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
