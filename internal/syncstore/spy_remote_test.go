package syncstore

import (
	"context"
	"sync"

	"github.com/kenread/kenread/models"
)

// spyRemote records calls and lets tests inject failures per operation.
type spyRemote struct {
	mu sync.Mutex

	bookmarkIDs []string
	history     []models.HistoryEntry

	getBookmarksErr  error
	addBookmarkErr   error
	removeBookmarkEr error
	getHistoryErr    error
	upsertErr        error
	removeHistoryErr error
	clearErr         error

	addedIDs       []string
	removedIDs     []string
	upserted       []models.HistoryEntry
	removedHistory []string
	clearCalls     int
}

func (s *spyRemote) GetBookmarkIDs(_ context.Context, _ int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getBookmarksErr != nil {
		return nil, s.getBookmarksErr
	}
	return s.bookmarkIDs, nil
}

func (s *spyRemote) AddBookmarkID(_ context.Context, _ int64, mangaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addedIDs = append(s.addedIDs, mangaID)
	return s.addBookmarkErr
}

func (s *spyRemote) RemoveBookmarkID(_ context.Context, _ int64, mangaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removedIDs = append(s.removedIDs, mangaID)
	return s.removeBookmarkEr
}

func (s *spyRemote) GetHistory(_ context.Context, _ int64) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getHistoryErr != nil {
		return nil, s.getHistoryErr
	}
	return s.history, nil
}

func (s *spyRemote) UpsertHistoryEntry(_ context.Context, _ int64, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, entry)
	return s.upsertErr
}

func (s *spyRemote) RemoveHistoryEntry(_ context.Context, _ int64, mangaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removedHistory = append(s.removedHistory, mangaID)
	return s.removeHistoryErr
}

func (s *spyRemote) ClearHistory(_ context.Context, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	return s.clearErr
}

func (s *spyRemote) addedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.addedIDs)
}

func (s *spyRemote) removedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.removedIDs)
}

func (s *spyRemote) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserted)
}

func (s *spyRemote) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCalls
}
