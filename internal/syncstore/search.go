package syncstore

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/unicode/norm"

	"github.com/kenread/kenread/models"
)

var (
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9\s]+`)
	reMultiSpace = regexp.MustCompile(`\s+`)
)

// stripDiacritics removes combining marks after NFD decomposition.
func stripDiacritics(s string) string {
	decomp := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeTitle folds a manga title into a canonical matching form: NFKC
// normalization, diacritics stripped (é -> e, ō -> o), lowercased, and
// punctuation collapsed to spaces.
func normalizeTitle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = norm.NFKC.String(s)
	s = stripDiacritics(s)
	s = strings.ToLower(s)
	s = reNonAlnum.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// SearchBookmarks fuzzy-matches the query against the locally held bookmark
// titles and returns the matches ordered best first. An empty query returns
// the full list.
func (s *BookmarkStore) SearchBookmarks(query string) []models.Manga {
	bookmarks := s.Bookmarks()

	q := normalizeTitle(query)
	if q == "" {
		return bookmarks
	}

	titles := make([]string, len(bookmarks))
	for i, m := range bookmarks {
		titles[i] = normalizeTitle(m.DisplayTitle())
	}

	ranks := fuzzy.RankFindFold(q, titles)
	sort.Sort(ranks)

	out := make([]models.Manga, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, bookmarks[r.OriginalIndex])
	}
	return out
}
