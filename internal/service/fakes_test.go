package service

import (
	"context"
	"sync"

	"github.com/kenread/kenread/internal/store"
	"github.com/kenread/kenread/models"
)

// fakeUserRepo is an in-memory store.UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]models.User

	createErr error
	findErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	if _, ok := f.users[user.Login]; ok {
		return models.User{}, store.ErrLoginAlreadyExists
	}

	f.nextID++
	user.UserID = f.nextID
	f.users[user.Login] = user
	return user, nil
}

func (f *fakeUserRepo) FindUserByLogin(_ context.Context, login string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return models.User{}, f.findErr
	}
	user, ok := f.users[login]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	return user, nil
}

// fakeDocumentRepo is an in-memory store.DocumentRepository that records
// update calls so tests can assert on silent no-ops.
type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[int64]models.UserDocument

	bookmarkUpdates int
	historyUpdates  int

	getErr    error
	updateErr error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[int64]models.UserDocument{}}
}

func (f *fakeDocumentRepo) GetDocument(_ context.Context, userID int64) (models.UserDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return models.UserDocument{}, f.getErr
	}
	doc, ok := f.docs[userID]
	if !ok {
		return models.UserDocument{}, store.ErrDocumentNotFound
	}
	return doc, nil
}

func (f *fakeDocumentRepo) CreateDocument(_ context.Context, userID int64, doc models.UserDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.docs[userID]; ok {
		return store.ErrDocumentAlreadyExists
	}
	f.docs[userID] = doc
	return nil
}

func (f *fakeDocumentRepo) UpdateBookmarks(_ context.Context, userID int64, bookmarks []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	doc, ok := f.docs[userID]
	if !ok {
		return store.ErrDocumentNotFound
	}
	doc.Bookmarks = bookmarks
	f.docs[userID] = doc
	f.bookmarkUpdates++
	return nil
}

func (f *fakeDocumentRepo) UpdateHistory(_ context.Context, userID int64, history []models.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	doc, ok := f.docs[userID]
	if !ok {
		return store.ErrDocumentNotFound
	}
	doc.ReadingHistory = history
	f.docs[userID] = doc
	f.historyUpdates++
	return nil
}

func (f *fakeDocumentRepo) ListUserIDs(_ context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int64, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	return ids, nil
}
