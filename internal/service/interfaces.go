package service

import (
	"context"

	"github.com/kenread/kenread/models"
)

// AuthService handles account registration, credential verification, and the
// JWT token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// DocumentService owns the per-user document: the bookmark ID list and the
// capped reading history. Every method guarantees the document exists before
// touching it, so a brand-new account never sees a missing-document error.
type DocumentService interface {
	EnsureUserDocument(ctx context.Context, userID int64) (existed bool, err error)
	GetBookmarkIDs(ctx context.Context, userID int64) ([]string, error)
	AddBookmarkID(ctx context.Context, userID int64, mangaID string) error
	RemoveBookmarkID(ctx context.Context, userID int64, mangaID string) error
	GetHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error)
	UpsertHistoryEntry(ctx context.Context, userID int64, entry models.HistoryEntry) error
	RemoveHistoryEntry(ctx context.Context, userID int64, mangaID string) error
	ClearHistory(ctx context.Context, userID int64) error
	TrimHistories(ctx context.Context) (trimmed int, err error)
}
