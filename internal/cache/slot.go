// Package cache implements the local persistence layer of the client: a set
// of named JSON slots on disk mirroring each synchronizer's in-memory state,
// plus the saved session. The slots are a disposable replica; the remote
// document remains the durable source of truth, so decode failures are
// swallowed (logged only) and the slot is rebuilt on the next load.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

// Fixed slot names. The slots are process-wide per cache directory and are
// not namespaced by user; logout isolation relies on ClearStore plus Clear.
const (
	bookmarksSlot = "kenread-bookmarks"
	historySlot   = "kenread-reading-history"
	sessionSlot   = "kenread-session"
)

// ErrSessionNotFound is returned by LoadSession when no session was saved.
var ErrSessionNotFound = errors.New("local session not found")

// Slots owns the cache directory and the codec for each slot.
type Slots struct {
	dir string
	log *logger.Logger
}

// NewSlots prepares the cache directory and returns the slot accessor.
func NewSlots(dir string, log *logger.Logger) (*Slots, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Slots{dir: dir, log: log}, nil
}

// BookmarkRecord is the persisted shape of the bookmark synchronizer state.
// BookmarkedIDs travels as an ordered list (see StringSet).
type BookmarkRecord struct {
	Bookmarks     []models.Manga `json:"bookmarks"`
	BookmarkedIDs StringSet      `json:"bookmarkedIds"`
	IsLoading     bool           `json:"isLoading"`
	Error         string         `json:"error,omitempty"`
}

// HistoryRecord is the persisted shape of the history synchronizer state.
// History items are list-shaped already, so the codec is a pass-through.
type HistoryRecord struct {
	History   []models.HistoryEntry `json:"history"`
	IsLoading bool                  `json:"isLoading"`
	Error     string                `json:"error,omitempty"`
}

// SessionRecord persists the signed-in identity between CLI invocations.
type SessionRecord struct {
	UserID int64     `json:"user_id"`
	Login  string    `json:"login"`
	Token  string    `json:"token"`
	At     time.Time `json:"at"`
}

// envelope wraps a slot's state with metadata, matching the on-disk shape
// {"state": {...}, "updatedAt": ...}.
type envelope struct {
	State     json.RawMessage `json:"state"`
	UpdatedAt int64           `json:"updatedAt"`
}

// SaveBookmarks encodes and writes the bookmark slot. Write failures are
// logged and swallowed: the previous slot contents stay in place and the
// in-memory state remains authoritative.
func (s *Slots) SaveBookmarks(rec BookmarkRecord) {
	s.write(bookmarksSlot, rec)
}

// LoadBookmarks decodes the bookmark slot. The second return is false when
// the slot is absent or malformed; malformed payloads never panic and never
// produce a structurally wrong record.
func (s *Slots) LoadBookmarks() (BookmarkRecord, bool) {
	var rec BookmarkRecord
	if !s.read(bookmarksSlot, &rec) {
		return BookmarkRecord{}, false
	}
	if rec.BookmarkedIDs == nil {
		rec.BookmarkedIDs = NewStringSet()
	}
	return rec, true
}

// SaveHistory encodes and writes the history slot.
func (s *Slots) SaveHistory(rec HistoryRecord) {
	s.write(historySlot, rec)
}

// LoadHistory decodes the history slot.
func (s *Slots) LoadHistory() (HistoryRecord, bool) {
	var rec HistoryRecord
	if !s.read(historySlot, &rec) {
		return HistoryRecord{}, false
	}
	return rec, true
}

// SaveSession persists the session record. Unlike the state slots, session
// write failures are reported: losing the session silently would force a
// confusing re-login.
func (s *Slots) SaveSession(rec SessionRecord) error {
	payload, err := json.MarshalIndent(envelopeFor(rec), "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err = os.WriteFile(s.path(sessionSlot), payload, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// LoadSession restores the saved session, or ErrSessionNotFound.
func (s *Slots) LoadSession() (SessionRecord, error) {
	var rec SessionRecord
	data, err := os.ReadFile(s.path(sessionSlot))
	if err != nil {
		if os.IsNotExist(err) {
			return SessionRecord{}, ErrSessionNotFound
		}
		return SessionRecord{}, fmt.Errorf("read session: %w", err)
	}

	var env envelope
	if err = json.Unmarshal(data, &env); err != nil {
		return SessionRecord{}, fmt.Errorf("decode session: %w", err)
	}
	if err = json.Unmarshal(env.State, &rec); err != nil {
		return SessionRecord{}, fmt.Errorf("decode session state: %w", err)
	}

	return rec, nil
}

// ClearSession removes the saved session. Missing file is not an error.
func (s *Slots) ClearSession() error {
	if err := os.Remove(s.path(sessionSlot)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Clear removes the state slots. Used by the manual "reset local cache"
// recovery action; the next load rebuilds them from the remote document.
func (s *Slots) Clear() {
	for _, name := range []string{bookmarksSlot, historySlot} {
		if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
			s.log.Err(err).Str("slot", name).Msg("failed to remove cache slot")
		}
	}
}

func (s *Slots) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Slots) write(name string, state any) {
	payload, err := json.MarshalIndent(envelopeFor(state), "", "  ")
	if err != nil {
		s.log.Err(err).Str("slot", name).Msg("failed to encode cache slot")
		return
	}

	if err = os.WriteFile(s.path(name), payload, 0o600); err != nil {
		s.log.Err(err).Str("slot", name).Msg("failed to write cache slot")
	}
}

func (s *Slots) read(name string, state any) bool {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Err(err).Str("slot", name).Msg("failed to read cache slot")
		}
		return false
	}

	var env envelope
	if err = json.Unmarshal(data, &env); err != nil {
		s.log.Err(err).Str("slot", name).Msg("malformed cache slot discarded")
		return false
	}
	if err = json.Unmarshal(env.State, state); err != nil {
		s.log.Err(err).Str("slot", name).Msg("malformed cache slot state discarded")
		return false
	}

	return true
}

func envelopeFor(state any) map[string]any {
	return map[string]any{
		"state":     state,
		"updatedAt": time.Now().UnixMilli(),
	}
}
