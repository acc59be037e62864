// Package remote implements the Remote Store Client: the HTTP client the
// synchronizers use to read and write the per-user document on the kenread
// backend. Every mutating call is a full round trip; nothing is batched.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kenread/kenread/models"
)

// Config holds the connection settings for the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Store talks to the kenread backend's document endpoints. It implements
// syncstore.RemoteStore. The bearer token is set after Register/Login (or
// restored from the saved session via SetToken).
type Store struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

// NewStore builds a Store against the given backend.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Store{client: cli}
}

// SetToken installs the bearer token used on authenticated requests.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

// Token returns the current bearer token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Register creates an account and installs the returned token.
func (s *Store) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.User{}, ErrLoginTaken
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return s.installToken(resp, user.Login)
}

// Login authenticates and installs the returned token.
func (s *Store) Login(ctx context.Context, user models.User) (models.User, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return models.User{}, fmt.Errorf("login request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return models.User{}, ErrBadCredentials
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return s.installToken(resp, user.Login)
}

// EnsureUserDocument asks the server to create the per-user document when
// none exists yet. Idempotent; called once after login.
func (s *Store) EnsureUserDocument(ctx context.Context, _ int64) error {
	resp, err := s.authedRequest(ctx).Post("/api/user/document/ensure")
	if err != nil {
		return fmt.Errorf("ensure document request: %w", err)
	}
	return mapHTTPError(resp)
}

// GetBookmarkIDs returns the stored bookmark ID list.
func (s *Store) GetBookmarkIDs(ctx context.Context, _ int64) ([]string, error) {
	resp, err := s.authedRequest(ctx).Get("/api/user/bookmarks")
	if err != nil {
		return nil, fmt.Errorf("get bookmarks request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var ids []string
	if err = json.Unmarshal(resp.Body(), &ids); err != nil {
		return nil, fmt.Errorf("decode bookmarks response: %w", err)
	}
	return ids, nil
}

// AddBookmarkID performs an idempotent set-union add of the catalog ID.
func (s *Store) AddBookmarkID(ctx context.Context, _ int64, mangaID string) error {
	resp, err := s.authedRequest(ctx).
		SetPathParam("mangaID", mangaID).
		Put("/api/user/bookmarks/{mangaID}")
	if err != nil {
		return fmt.Errorf("add bookmark request: %w", err)
	}
	return mapHTTPError(resp)
}

// RemoveBookmarkID performs an idempotent set removal of the catalog ID.
func (s *Store) RemoveBookmarkID(ctx context.Context, _ int64, mangaID string) error {
	resp, err := s.authedRequest(ctx).
		SetPathParam("mangaID", mangaID).
		Delete("/api/user/bookmarks/{mangaID}")
	if err != nil {
		return fmt.Errorf("remove bookmark request: %w", err)
	}
	return mapHTTPError(resp)
}

// GetHistory returns the stored reading history, most recent first.
func (s *Store) GetHistory(ctx context.Context, _ int64) ([]models.HistoryEntry, error) {
	resp, err := s.authedRequest(ctx).Get("/api/user/history")
	if err != nil {
		return nil, fmt.Errorf("get history request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var entries []models.HistoryEntry
	if err = json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}
	return entries, nil
}

// UpsertHistoryEntry sends the entry for a keyed merge into the remote list.
func (s *Store) UpsertHistoryEntry(ctx context.Context, _ int64, entry models.HistoryEntry) error {
	resp, err := s.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(entry).
		Post("/api/user/history")
	if err != nil {
		return fmt.Errorf("upsert history request: %w", err)
	}
	return mapHTTPError(resp)
}

// RemoveHistoryEntry removes the remote entry with the given manga ID.
func (s *Store) RemoveHistoryEntry(ctx context.Context, _ int64, mangaID string) error {
	resp, err := s.authedRequest(ctx).
		SetPathParam("mangaID", mangaID).
		Delete("/api/user/history/{mangaID}")
	if err != nil {
		return fmt.Errorf("remove history request: %w", err)
	}
	return mapHTTPError(resp)
}

// ClearHistory replaces the remote history with an empty list.
func (s *Store) ClearHistory(ctx context.Context, _ int64) error {
	resp, err := s.authedRequest(ctx).Delete("/api/user/history")
	if err != nil {
		return fmt.Errorf("clear history request: %w", err)
	}
	return mapHTTPError(resp)
}

func (s *Store) authedRequest(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if token := s.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (s *Store) installToken(resp *resty.Response, login string) (models.User, error) {
	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("parse bearer token: %w", err)
	}
	userID, err := parseUserIDFromJWT(token)
	if err != nil {
		return models.User{}, fmt.Errorf("parse user id: %w", err)
	}

	s.SetToken(token)
	return models.User{UserID: userID, Login: login}, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func parseUserIDFromJWT(tokenString string) (int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject claim: %w", err)
	}

	return userID, nil
}
