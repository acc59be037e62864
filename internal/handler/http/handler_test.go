package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/kenread/kenread/internal/config"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/service"
	"github.com/kenread/kenread/models"
)

// spyAuthService fakes the auth service: any token equal to "good" parses to
// user 7, everything else is rejected.
type spyAuthService struct {
	registerErr error
	loginErr    error

	registeredUser models.User
	loggedInUser   models.User
}

func (s *spyAuthService) RegisterUser(_ context.Context, user models.User) (models.User, error) {
	if s.registerErr != nil {
		return models.User{}, s.registerErr
	}
	s.registeredUser = user
	return models.User{UserID: 7, Login: user.Login}, nil
}

func (s *spyAuthService) Login(_ context.Context, user models.User) (models.User, error) {
	if s.loginErr != nil {
		return models.User{}, s.loginErr
	}
	s.loggedInUser = user
	return models.User{UserID: 7, Login: user.Login}, nil
}

func (s *spyAuthService) CreateToken(_ context.Context, user models.User) (models.Token, error) {
	return models.Token{SignedString: "signed-token", UserID: user.UserID}, nil
}

func (s *spyAuthService) ParseToken(_ context.Context, tokenString string) (models.Token, error) {
	if tokenString != "good" {
		return models.Token{}, service.ErrTokenIsExpiredOrInvalid
	}
	return models.Token{UserID: 7}, nil
}

// spyDocumentService records document calls made by the handlers.
type spyDocumentService struct {
	bookmarks []string
	history   []models.HistoryEntry

	ensuredFor     []int64
	addedIDs       []string
	removedIDs     []string
	upserted       []models.HistoryEntry
	removedHistory []string
	clearCalls     int

	err error
}

func (s *spyDocumentService) EnsureUserDocument(_ context.Context, userID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.ensuredFor = append(s.ensuredFor, userID)
	return len(s.ensuredFor) > 1, nil
}

func (s *spyDocumentService) GetBookmarkIDs(_ context.Context, _ int64) ([]string, error) {
	return s.bookmarks, s.err
}

func (s *spyDocumentService) AddBookmarkID(_ context.Context, _ int64, mangaID string) error {
	if s.err != nil {
		return s.err
	}
	if mangaID == "" {
		return service.ErrInvalidDataProvided
	}
	s.addedIDs = append(s.addedIDs, mangaID)
	return nil
}

func (s *spyDocumentService) RemoveBookmarkID(_ context.Context, _ int64, mangaID string) error {
	if s.err != nil {
		return s.err
	}
	s.removedIDs = append(s.removedIDs, mangaID)
	return nil
}

func (s *spyDocumentService) GetHistory(_ context.Context, _ int64) ([]models.HistoryEntry, error) {
	return s.history, s.err
}

func (s *spyDocumentService) UpsertHistoryEntry(_ context.Context, _ int64, entry models.HistoryEntry) error {
	if s.err != nil {
		return s.err
	}
	if entry.MangaID == "" {
		return service.ErrInvalidDataProvided
	}
	s.upserted = append(s.upserted, entry)
	return nil
}

func (s *spyDocumentService) RemoveHistoryEntry(_ context.Context, _ int64, mangaID string) error {
	if s.err != nil {
		return s.err
	}
	s.removedHistory = append(s.removedHistory, mangaID)
	return nil
}

func (s *spyDocumentService) ClearHistory(_ context.Context, _ int64) error {
	if s.err != nil {
		return s.err
	}
	s.clearCalls++
	return nil
}

func (s *spyDocumentService) TrimHistories(_ context.Context) (int, error) {
	return 0, s.err
}

type handlerFixture struct {
	auth *spyAuthService
	docs *spyDocumentService
	srv  *httptest.Server
}

func newHandlerFixture(t *testing.T, catalogURL string) *handlerFixture {
	t.Helper()

	auth := &spyAuthService{}
	docs := &spyDocumentService{}
	h := NewHandler(&service.Services{
		AuthService:     auth,
		DocumentService: docs,
	}, config.Catalog{BaseURL: catalogURL, UserAgent: "KenRead-test/1.0"}, logger.Nop())

	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	return &handlerFixture{auth: auth, docs: docs, srv: srv}
}
