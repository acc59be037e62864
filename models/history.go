package models

// HistoryEntry is one reading-progress record. The collection is keyed by
// MangaID: recording a new chapter of the same manga overwrites the prior
// entry instead of appending.
type HistoryEntry struct {
	MangaID       string `json:"mangaId"`
	ChapterID     string `json:"chapterId"`
	ChapterNumber string `json:"chapterNumber"`
	// LastReadAt is epoch milliseconds.
	LastReadAt int64  `json:"lastReadAt"`
	MangaTitle string `json:"mangaTitle"`
	CoverURL   string `json:"coverUrl,omitempty"`
}
