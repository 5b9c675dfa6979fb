package model

import (
	"fmt"
	"sort"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func (g *Gender) UnmarshalText(text []byte) error {
	*g = Gender(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

type HeirEntry struct {
	Category RelativeCategory `json:"category"`
	Count    int              `json:"count"`
}

// HeirSet maps a category to the number of living relatives in it.
// Categories with a zero count are absent.
type HeirSet map[RelativeCategory]int

// HeirSetFrom folds request entries into a HeirSet. Zero counts are dropped;
// repeated categories and negative counts are rejected.
func HeirSetFrom(entries []HeirEntry) (HeirSet, error) {
	set := make(HeirSet, len(entries))
	seen := make(map[RelativeCategory]bool, len(entries))
	for _, e := range entries {
		if !e.Category.Valid() {
			return nil, &ValidationError{
				Code:    CodeUnknownCategory,
				Field:   "heirs",
				Message: fmt.Sprintf("unknown relative category %d", int(e.Category)),
			}
		}
		if seen[e.Category] {
			return nil, &ValidationError{
				Code:    CodeDuplicateCategory,
				Field:   "heirs." + e.Category.String(),
				Message: fmt.Sprintf("category %s listed more than once", e.Category),
			}
		}
		seen[e.Category] = true
		if e.Count < 0 {
			return nil, &ValidationError{
				Code:    CodeNegativeCount,
				Field:   "heirs." + e.Category.String(),
				Message: fmt.Sprintf("count for %s must not be negative", e.Category),
			}
		}
		if e.Count > 0 {
			set[e.Category] = e.Count
		}
	}
	return set, nil
}

func (h HeirSet) Count(c RelativeCategory) int {
	return h[c]
}

func (h HeirSet) Has(c RelativeCategory) bool {
	return h[c] > 0
}

// Sum totals the counts of the given categories.
func (h HeirSet) Sum(cs ...RelativeCategory) int {
	n := 0
	for _, c := range cs {
		n += h[c]
	}
	return n
}

// Any reports whether at least one of the given categories is present.
func (h HeirSet) Any(cs ...RelativeCategory) bool {
	for _, c := range cs {
		if h[c] > 0 {
			return true
		}
	}
	return false
}

// Present returns the categories with a positive count in declaration order.
func (h HeirSet) Present() []RelativeCategory {
	out := make([]RelativeCategory, 0, len(h))
	for c, n := range h {
		if n > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Entries is the inverse of HeirSetFrom.
func (h HeirSet) Entries() []HeirEntry {
	present := h.Present()
	out := make([]HeirEntry, len(present))
	for i, c := range present {
		out[i] = HeirEntry{Category: c, Count: h[c]}
	}
	return out
}
