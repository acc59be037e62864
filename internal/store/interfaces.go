package store

import (
	"context"

	"github.com/kenread/kenread/models"
)

// UserRepository handles account records in the "users" table.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// DocumentRepository handles the per-user document rows holding bookmarks and
// reading history. Both lists are stored as JSON text columns: the document is
// small, always read and written whole, and never queried by its contents.
type DocumentRepository interface {
	GetDocument(ctx context.Context, userID int64) (models.UserDocument, error)
	CreateDocument(ctx context.Context, userID int64, doc models.UserDocument) error
	UpdateBookmarks(ctx context.Context, userID int64, bookmarks []string) error
	UpdateHistory(ctx context.Context, userID int64, history []models.HistoryEntry) error
	ListUserIDs(ctx context.Context) ([]int64, error)
}
