package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/store"
	"github.com/kenread/kenread/models"
)

// RemoteHistoryLimit caps the reading history stored in a user document.
// Clients may keep a longer local list; the server never stores more than
// this many entries.
const RemoteHistoryLimit = 50

// documentService is the concrete implementation of [DocumentService]. All
// mutations are read-modify-write over the whole document row.
type documentService struct {
	documentRepository store.DocumentRepository
	logger             *logger.Logger
	now                func() int64
}

// NewDocumentService constructs a [DocumentService] over the given
// repository.
func NewDocumentService(documentRepository store.DocumentRepository, logger *logger.Logger) DocumentService {
	return &documentService{
		documentRepository: documentRepository,
		logger:             logger,
		now:                func() int64 { return time.Now().UnixMilli() },
	}
}

// EnsureUserDocument creates the user's document when missing. It reports
// whether the document already existed; a concurrent create by another
// request counts as existing.
func (s *documentService) EnsureUserDocument(ctx context.Context, userID int64) (bool, error) {
	log := logger.FromContext(ctx)

	_, err := s.documentRepository.GetDocument(ctx, userID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, store.ErrDocumentNotFound) {
		log.Err(err).Int64("userID", userID).Msg("document lookup failed")
		return false, fmt.Errorf("document lookup failed: %w", err)
	}

	doc := models.UserDocument{
		Bookmarks:      []string{},
		ReadingHistory: []models.HistoryEntry{},
		CreatedAt:      s.now(),
	}
	if err = s.documentRepository.CreateDocument(ctx, userID, doc); err != nil {
		if errors.Is(err, store.ErrDocumentAlreadyExists) {
			return true, nil
		}
		log.Err(err).Int64("userID", userID).Msg("document creation failed")
		return false, fmt.Errorf("document creation failed: %w", err)
	}

	log.Debug().Int64("userID", userID).Msg("created user document")
	return false, nil
}

// GetBookmarkIDs returns the stored bookmark ID list, creating the document
// when the user has none yet.
func (s *documentService) GetBookmarkIDs(ctx context.Context, userID int64) ([]string, error) {
	doc, _, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return doc.Bookmarks, nil
}

// AddBookmarkID adds the catalog ID to the bookmark list. Adding an ID that
// is already present is a no-op, so retried replications stay idempotent.
func (s *documentService) AddBookmarkID(ctx context.Context, userID int64, mangaID string) error {
	if mangaID == "" {
		return ErrInvalidDataProvided
	}

	doc, _, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	for _, id := range doc.Bookmarks {
		if id == mangaID {
			return nil
		}
	}

	return s.documentRepository.UpdateBookmarks(ctx, userID, append(doc.Bookmarks, mangaID))
}

// RemoveBookmarkID removes the catalog ID from the bookmark list. Removing
// from a fresh or non-containing document is a silent no-op.
func (s *documentService) RemoveBookmarkID(ctx context.Context, userID int64, mangaID string) error {
	if mangaID == "" {
		return ErrInvalidDataProvided
	}

	doc, existed, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	kept := doc.Bookmarks[:0:0]
	for _, id := range doc.Bookmarks {
		if id != mangaID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(doc.Bookmarks) {
		return nil
	}

	return s.documentRepository.UpdateBookmarks(ctx, userID, kept)
}

// GetHistory returns the stored reading history, most recent first.
func (s *documentService) GetHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	doc, _, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return doc.ReadingHistory, nil
}

// UpsertHistoryEntry merges the entry into the history keyed by its manga ID:
// any previous entry for the same manga is dropped, the new one goes to the
// front, and the list is truncated to [RemoteHistoryLimit]. A zero LastReadAt
// is stamped with the server clock.
func (s *documentService) UpsertHistoryEntry(ctx context.Context, userID int64, entry models.HistoryEntry) error {
	if entry.MangaID == "" {
		return ErrInvalidDataProvided
	}
	if entry.LastReadAt == 0 {
		entry.LastReadAt = s.now()
	}

	doc, _, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	merged := make([]models.HistoryEntry, 0, len(doc.ReadingHistory)+1)
	merged = append(merged, entry)
	for _, e := range doc.ReadingHistory {
		if e.MangaID != entry.MangaID {
			merged = append(merged, e)
		}
	}
	if len(merged) > RemoteHistoryLimit {
		merged = merged[:RemoteHistoryLimit]
	}

	return s.documentRepository.UpdateHistory(ctx, userID, merged)
}

// RemoveHistoryEntry drops the history entry for the given manga ID, if any.
func (s *documentService) RemoveHistoryEntry(ctx context.Context, userID int64, mangaID string) error {
	if mangaID == "" {
		return ErrInvalidDataProvided
	}

	doc, existed, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	kept := doc.ReadingHistory[:0:0]
	for _, e := range doc.ReadingHistory {
		if e.MangaID != mangaID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(doc.ReadingHistory) {
		return nil
	}

	return s.documentRepository.UpdateHistory(ctx, userID, kept)
}

// ClearHistory replaces the stored history with an empty list.
func (s *documentService) ClearHistory(ctx context.Context, userID int64) error {
	_, existed, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	return s.documentRepository.UpdateHistory(ctx, userID, []models.HistoryEntry{})
}

// TrimHistories walks every stored document and truncates histories that grew
// past [RemoteHistoryLimit], returning how many documents were trimmed. Run
// from the nightly maintenance job.
func (s *documentService) TrimHistories(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	userIDs, err := s.documentRepository.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list user ids: %w", err)
	}

	trimmed := 0
	for _, userID := range userIDs {
		doc, err := s.documentRepository.GetDocument(ctx, userID)
		if err != nil {
			log.Err(err).Int64("userID", userID).Msg("trim: document lookup failed")
			continue
		}
		if len(doc.ReadingHistory) <= RemoteHistoryLimit {
			continue
		}

		if err = s.documentRepository.UpdateHistory(ctx, userID, doc.ReadingHistory[:RemoteHistoryLimit]); err != nil {
			log.Err(err).Int64("userID", userID).Msg("trim: history update failed")
			continue
		}
		trimmed++
	}

	return trimmed, nil
}

// getOrCreate fetches the document, creating it when missing, and reports
// whether it existed before the call.
func (s *documentService) getOrCreate(ctx context.Context, userID int64) (models.UserDocument, bool, error) {
	log := logger.FromContext(ctx)

	doc, err := s.documentRepository.GetDocument(ctx, userID)
	if err == nil {
		return doc, true, nil
	}
	if !errors.Is(err, store.ErrDocumentNotFound) {
		log.Err(err).Int64("userID", userID).Msg("document lookup failed")
		return models.UserDocument{}, false, fmt.Errorf("document lookup failed: %w", err)
	}

	doc = models.UserDocument{
		Bookmarks:      []string{},
		ReadingHistory: []models.HistoryEntry{},
		CreatedAt:      s.now(),
	}
	if err = s.documentRepository.CreateDocument(ctx, userID, doc); err != nil {
		if errors.Is(err, store.ErrDocumentAlreadyExists) {
			// lost the create race: re-read the winner's document
			doc, err = s.documentRepository.GetDocument(ctx, userID)
			if err != nil {
				return models.UserDocument{}, false, fmt.Errorf("document lookup failed: %w", err)
			}
			return doc, true, nil
		}
		log.Err(err).Int64("userID", userID).Msg("document creation failed")
		return models.UserDocument{}, false, fmt.Errorf("document creation failed: %w", err)
	}

	return doc, false, nil
}
