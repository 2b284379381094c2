// Package filters holds the listing filter state, its persistence and the
// coordinator that mutates it and derives the active-filter chips.
package filters

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// SortKey orders the listing.
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortOldest  SortKey = "oldest"
	SortTitle   SortKey = "title"
	SortPopular SortKey = "popular"
)

// SortKeys lists every valid sort key in display order.
var SortKeys = []SortKey{SortNewest, SortOldest, SortTitle, SortPopular}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// ViewMode is how the listing lays out its cards.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewGrid || m == ViewList
}

// Featured is a tri-state flag: unset, only featured posts, or only
// non-featured posts. It encodes as null, true and false.
type Featured int8

const (
	FeaturedUnset Featured = iota
	FeaturedOnly
	FeaturedExcluded
)

// FeaturedFromBool maps true to FeaturedOnly and false to FeaturedExcluded.
func FeaturedFromBool(b bool) Featured {
	if b {
		return FeaturedOnly
	}
	return FeaturedExcluded
}

// Next cycles unset -> only -> excluded -> unset.
func (f Featured) Next() Featured {
	switch f {
	case FeaturedUnset:
		return FeaturedOnly
	case FeaturedOnly:
		return FeaturedExcluded
	default:
		return FeaturedUnset
	}
}

func (f Featured) String() string {
	switch f {
	case FeaturedOnly:
		return "true"
	case FeaturedExcluded:
		return "false"
	default:
		return "unset"
	}
}

// ParseFeatured accepts "true", "false" and "" (or "unset").
func ParseFeatured(s string) (Featured, error) {
	switch s {
	case "true":
		return FeaturedOnly, nil
	case "false":
		return FeaturedExcluded, nil
	case "", "unset", "null":
		return FeaturedUnset, nil
	}
	return FeaturedUnset, fmt.Errorf("invalid featured value %q", s)
}

func (f Featured) MarshalJSON() ([]byte, error) {
	switch f {
	case FeaturedOnly:
		return []byte("true"), nil
	case FeaturedExcluded:
		return []byte("false"), nil
	case FeaturedUnset:
		return []byte("null"), nil
	}
	return nil, fmt.Errorf("invalid featured value %d", int8(f))
}

func (f *Featured) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*f = FeaturedOnly
	case "false":
		*f = FeaturedExcluded
	case "null":
		*f = FeaturedUnset
	default:
		return fmt.Errorf("featured must be true, false or null, got %s", b)
	}
	return nil
}

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// DateRange bounds post dates inclusively. An empty side is unbounded.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsZero reports whether both sides are unbounded.
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// FilterState is everything the visitor selected on the listing.
type FilterState struct {
	DateRange  DateRange `json:"dateRange"`
	Authors    []string  `json:"authors"`
	Categories []string  `json:"categories"`
	Featured   Featured  `json:"featured"`
	SortBy     SortKey   `json:"sortBy"`
	ViewMode   ViewMode  `json:"viewMode"`
}

// Default returns the state a first-time visitor sees.
func Default() FilterState {
	return FilterState{SortBy: SortNewest, ViewMode: ViewGrid}
}

// Equal compares states by value. Nil and empty selections are equal.
func (s FilterState) Equal(o FilterState) bool {
	return s.DateRange == o.DateRange &&
		slices.Equal(s.Authors, o.Authors) &&
		slices.Equal(s.Categories, o.Categories) &&
		s.Featured == o.Featured &&
		s.SortBy == o.SortBy &&
		s.ViewMode == o.ViewMode
}

// IsDefault reports whether s equals Default().
func (s FilterState) IsDefault() bool {
	return s.Equal(Default())
}

func (s FilterState) clone() FilterState {
	s.Authors = slices.Clone(s.Authors)
	s.Categories = slices.Clone(s.Categories)
	return s
}

// MarshalJSON always writes selections as arrays.
func (s FilterState) MarshalJSON() ([]byte, error) {
	type plain FilterState
	p := plain(s)
	if p.Authors == nil {
		p.Authors = []string{}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	return json.Marshal(p)
}

var (
	errBadDate  = errors.New("date must be empty or YYYY-MM-DD")
	errBadRange = errors.New("date range start is after end")
)

// Validate checks enums, dates and selections.
func (s FilterState) Validate() error {
	if !s.SortBy.Valid() {
		return fmt.Errorf("unknown sort key %q", s.SortBy)
	}
	if !s.ViewMode.Valid() {
		return fmt.Errorf("unknown view mode %q", s.ViewMode)
	}
	if s.Featured < FeaturedUnset || s.Featured > FeaturedExcluded {
		return fmt.Errorf("invalid featured value %d", int8(s.Featured))
	}
	start, err := parseDate(s.DateRange.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := parseDate(s.DateRange.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return errBadRange
	}
	if err := validSet("authors", s.Authors); err != nil {
		return err
	}
	return validSet("categories", s.Categories)
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return t, nil
}

func validSet(name string, items []string) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it == "" {
			return fmt.Errorf("%s: empty entry", name)
		}
		if _, dup := seen[it]; dup {
			return fmt.Errorf("%s: duplicate entry %q", name, it)
		}
		seen[it] = struct{}{}
	}
	return nil
}
