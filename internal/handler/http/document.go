package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/service"
	"github.com/kenread/kenread/models"
)

// ensureResponse reports whether the per-user document already existed.
type ensureResponse struct {
	Existed bool `json:"existed"`
}

func (h *Handler) ensureDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	existed, err := h.services.DocumentService.EnsureUserDocument(ctx, userID)
	if err != nil {
		log.Err(err).Int64("userID", userID).Msg("ensure document failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, log, ensureResponse{Existed: existed})
}

func (h *Handler) getBookmarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	ids, err := h.services.DocumentService.GetBookmarkIDs(ctx, userID)
	if err != nil {
		log.Err(err).Int64("userID", userID).Msg("get bookmarks failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, log, ids)
}

func (h *Handler) addBookmark(w http.ResponseWriter, r *http.Request) {
	h.mutateBookmark(w, r, h.services.DocumentService.AddBookmarkID)
}

func (h *Handler) removeBookmark(w http.ResponseWriter, r *http.Request) {
	h.mutateBookmark(w, r, h.services.DocumentService.RemoveBookmarkID)
}

func (h *Handler) mutateBookmark(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID int64, mangaID string) error) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	mangaID := chi.URLParam(r, "mangaID")

	if err := op(ctx, userID, mangaID); err != nil {
		if errors.Is(err, service.ErrInvalidDataProvided) {
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		}
		log.Err(err).Int64("userID", userID).Str("mangaID", mangaID).Msg("bookmark mutation failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	history, err := h.services.DocumentService.GetHistory(ctx, userID)
	if err != nil {
		log.Err(err).Int64("userID", userID).Msg("get history failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}

	writeJSON(w, log, history)
}

func (h *Handler) upsertHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var entry models.HistoryEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.DocumentService.UpsertHistoryEntry(ctx, userID, entry); err != nil {
		if errors.Is(err, service.ErrInvalidDataProvided) {
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		}
		log.Err(err).Int64("userID", userID).Msg("upsert history failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) removeHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	mangaID := chi.URLParam(r, "mangaID")

	if err := h.services.DocumentService.RemoveHistoryEntry(ctx, userID, mangaID); err != nil {
		if errors.Is(err, service.ErrInvalidDataProvided) {
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		}
		log.Err(err).Int64("userID", userID).Str("mangaID", mangaID).Msg("remove history failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) clearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.DocumentService.ClearHistory(ctx, userID); err != nil {
		log.Err(err).Int64("userID", userID).Msg("clear history failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Err(err).Msg("error encoding response")
	}
}
