package cache

import (
	"encoding/json"
	"sort"
)

// StringSet is a uniqueness set of catalog IDs. JSON is not set-native, so
// the set crosses the serialization boundary as an ordered string list and
// is reconstructed on decode. Unmarshalling always yields a real set, which
// keeps downstream membership checks free of runtime shape validation.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given ids, dropping duplicates.
func NewStringSet(ids ...string) StringSet {
	s := make(StringSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StringSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s StringSet) Add(id string) {
	s[id] = struct{}{}
}

func (s StringSet) Remove(id string) {
	delete(s, id)
}

func (s StringSet) Len() int {
	return len(s)
}

// Values returns the members as a sorted list. Sorting keeps the serialized
// form stable across encodes of the same set.
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted JSON string array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON string array into the set, in any order and
// with duplicates collapsed. A JSON null yields an empty set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}

	*s = NewStringSet(ids...)
	return nil
}
