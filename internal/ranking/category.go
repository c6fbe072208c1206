// Package ranking filters a place collection by category and orders it by a
// user-selected criterion.
package ranking

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default search categories.
const (
	CategoryCafe       = "cafe"
	CategoryRestaurant = "restaurant"
	CategoryBar        = "bar"
)

// CategorySet is an unordered set of place-type tags.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from tags, ignoring blanks.
func NewCategorySet(tags ...string) CategorySet {
	s := make(CategorySet, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		s[t] = struct{}{}
	}
	return s
}

// DefaultCategories returns a fresh {cafe, restaurant, bar} set.
func DefaultCategories() CategorySet {
	return NewCategorySet(CategoryCafe, CategoryRestaurant, CategoryBar)
}

// Has reports whether tag is in the set.
func (s CategorySet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Len returns the number of tags.
func (s CategorySet) Len() int { return len(s) }

// Toggle adds tag when absent and removes it when present.
func (s CategorySet) Toggle(tag string) {
	if s.Has(tag) {
		delete(s, tag)
		return
	}
	s[tag] = struct{}{}
}

// Equal reports whether both sets hold exactly the same tags.
func (s CategorySet) Equal(other CategorySet) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s CategorySet) Clone() CategorySet {
	c := make(CategorySet, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

// Slice returns the tags in lexical order.
func (s CategorySet) Slice() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

var titleCaser = cases.Title(language.English)

// Label converts a tag like "night_club" into "Night Club" for display.
func Label(tag string) string {
	return titleCaser.String(strings.ReplaceAll(tag, "_", " "))
}
