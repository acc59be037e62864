package models

// Manga is a catalog item as returned by the MangaDex API. The sync layer
// treats it as an opaque payload keyed by ID; only the reader views and the
// search helpers look inside Attributes.
type Manga struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Attributes    MangaAttributes `json:"attributes"`
	Relationships []Relationship  `json:"relationships,omitempty"`
}

// MangaAttributes carries the localized metadata of a catalog item.
// Title and Description are keyed by language code ("en", "ja", ...).
type MangaAttributes struct {
	Title                        map[string]string   `json:"title"`
	AltTitles                    []map[string]string `json:"altTitles,omitempty"`
	Description                  map[string]string   `json:"description,omitempty"`
	Status                       string              `json:"status,omitempty"`
	Tags                         []Tag               `json:"tags,omitempty"`
	ContentRating                string              `json:"contentRating,omitempty"`
	Year                         int                 `json:"year,omitempty"`
	OriginalLanguage             string              `json:"originalLanguage,omitempty"`
	AvailableTranslatedLanguages []string            `json:"availableTranslatedLanguages,omitempty"`
}

// Tag is a catalog genre/theme tag.
type Tag struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name map[string]string `json:"name"`
	} `json:"attributes"`
}

// Relationship links a catalog item to related entities (cover art, author).
type Relationship struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// DisplayTitle returns the English title when present, otherwise the first
// title in any language, otherwise the empty string.
func (m Manga) DisplayTitle() string {
	if t, ok := m.Attributes.Title["en"]; ok && t != "" {
		return t
	}
	for _, t := range m.Attributes.Title {
		if t != "" {
			return t
		}
	}
	return ""
}

// CoverFileName returns the file name of the cover_art relationship, or ""
// if the item was fetched without cover includes.
func (m Manga) CoverFileName() string {
	for _, rel := range m.Relationships {
		if rel.Type != "cover_art" {
			continue
		}
		if name, ok := rel.Attributes["fileName"].(string); ok {
			return name
		}
	}
	return ""
}

// Chapter is a single chapter of a catalog item.
type Chapter struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Title              string `json:"title"`
		Volume             string `json:"volume"`
		Chapter            string `json:"chapter"`
		Pages              int    `json:"pages"`
		TranslatedLanguage string `json:"translatedLanguage"`
		PublishAt          string `json:"publishAt"`
	} `json:"attributes"`
}
