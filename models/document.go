package models

// UserDocument is the durable per-user record holding bookmarked catalog IDs
// and reading history. It is read and written as a whole; there is no
// per-field locking, so concurrent writers race with last-write-wins.
type UserDocument struct {
	Bookmarks      []string       `json:"bookmarks"`
	ReadingHistory []HistoryEntry `json:"readingHistory"`
	// CreatedAt is epoch milliseconds of document creation.
	CreatedAt int64 `json:"createdAt"`
}
