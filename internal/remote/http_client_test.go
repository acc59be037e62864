package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenread/kenread/models"
)

func signedToken(t *testing.T, subject string) string {
	t.Helper()

	claims := &jwt.RegisteredClaims{
		Issuer:    "kenread",
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tokenString
}

func TestStore_LoginInstallsToken(t *testing.T) {
	token := signedToken(t, "42")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	user, err := s.Login(context.Background(), models.User{Login: "reader", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), user.UserID)
	assert.Equal(t, token, s.Token())
}

func TestStore_LoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid login/password", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	_, err := s.Login(context.Background(), models.User{Login: "reader", Password: "bad"})

	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestStore_RegisterConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "login already exists", http.StatusConflict)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	_, err := s.Register(context.Background(), models.User{Login: "reader", Password: "pw"})

	assert.ErrorIs(t, err, ErrLoginTaken)
}

func TestStore_GetBookmarkIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/bookmarks", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]string{"m1", "m2"})
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	s.SetToken("tok")

	ids, err := s.GetBookmarkIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)
}

func TestStore_AddBookmarkID(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	s.SetToken("tok")

	require.NoError(t, s.AddBookmarkID(context.Background(), 1, "m9"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/user/bookmarks/m9", gotPath)
}

func TestStore_UnauthorizedMapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})

	err := s.AddBookmarkID(context.Background(), 1, "m1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.GetHistory(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStore_UpsertHistoryEntrySendsBody(t *testing.T) {
	var got models.HistoryEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/user/history", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	s.SetToken("tok")

	entry := models.HistoryEntry{MangaID: "m1", ChapterID: "c1", LastReadAt: 123}
	require.NoError(t, s.UpsertHistoryEntry(context.Background(), 1, entry))
	assert.Equal(t, entry, got)
}

func TestStore_ClearHistory(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	s.SetToken("tok")

	require.NoError(t, s.ClearHistory(context.Background(), 1))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/user/history", gotPath)
}

func TestStore_ServerErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})

	err := s.EnsureUserDocument(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
}
