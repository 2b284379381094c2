package filters

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension names one axis of the filter state.
type Dimension string

const (
	DimAuthor    Dimension = "author"
	DimCategory  Dimension = "category"
	DimDateRange Dimension = "dateRange"
	DimFeatured  Dimension = "featured"
	DimSort      Dimension = "sort"
	DimView      Dimension = "view"
)

// ErrUnknownChip is returned when a chip key does not name an active filter.
var ErrUnknownChip = errors.New("filters: unknown chip")

// Chip is one removable active-filter badge.
type Chip struct {
	Key       string    `json:"key"`
	Dimension Dimension `json:"dimension"`
	Value     string    `json:"value"`
	Label     string    `json:"label"`
}

// Chips derives the active-filter chips of s. A chip exists iff its
// dimension differs from Default().
func Chips(s FilterState) []Chip {
	def := Default()
	var chips []Chip
	for _, a := range s.Authors {
		chips = append(chips, Chip{
			Key:       string(DimAuthor) + ":" + a,
			Dimension: DimAuthor,
			Value:     a,
			Label:     "Author: " + a,
		})
	}
	for _, c := range s.Categories {
		chips = append(chips, Chip{
			Key:       string(DimCategory) + ":" + c,
			Dimension: DimCategory,
			Value:     c,
			Label:     "Category: " + c,
		})
	}
	if s.DateRange != def.DateRange {
		chips = append(chips, Chip{
			Key:       string(DimDateRange),
			Dimension: DimDateRange,
			Value:     s.DateRange.Start + ".." + s.DateRange.End,
			Label:     dateLabel(s.DateRange),
		})
	}
	if s.Featured != def.Featured {
		label := "Featured only"
		if s.Featured == FeaturedExcluded {
			label = "Not featured"
		}
		chips = append(chips, Chip{
			Key:       string(DimFeatured),
			Dimension: DimFeatured,
			Value:     s.Featured.String(),
			Label:     label,
		})
	}
	if s.SortBy != def.SortBy {
		chips = append(chips, Chip{
			Key:       string(DimSort),
			Dimension: DimSort,
			Value:     string(s.SortBy),
			Label:     "Sort: " + title(string(s.SortBy)),
		})
	}
	if s.ViewMode != def.ViewMode {
		chips = append(chips, Chip{
			Key:       string(DimView),
			Dimension: DimView,
			Value:     string(s.ViewMode),
			Label:     "View: " + title(string(s.ViewMode)),
		})
	}
	return chips
}

// RemoveChip returns s with the dimension named by key reset.
func RemoveChip(s FilterState, key string) (FilterState, error) {
	def := Default()
	s = s.clone()
	dim, value, _ := strings.Cut(key, ":")
	switch Dimension(dim) {
	case DimAuthor:
		next, ok := without(s.Authors, value)
		if !ok {
			return s, fmt.Errorf("%w: %q", ErrUnknownChip, key)
		}
		s.Authors = next
	case DimCategory:
		next, ok := without(s.Categories, value)
		if !ok {
			return s, fmt.Errorf("%w: %q", ErrUnknownChip, key)
		}
		s.Categories = next
	case DimDateRange:
		s.DateRange = def.DateRange
	case DimFeatured:
		s.Featured = def.Featured
	case DimSort:
		s.SortBy = def.SortBy
	case DimView:
		s.ViewMode = def.ViewMode
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownChip, key)
	}
	return s, nil
}

func dateLabel(r DateRange) string {
	switch {
	case r.Start != "" && r.End != "":
		return r.Start + " to " + r.End
	case r.Start != "":
		return "From " + r.Start
	default:
		return "Until " + r.End
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func without(items []string, v string) ([]string, bool) {
	for i, it := range items {
		if it == v {
			out := append(items[:i:i], items[i+1:]...)
			if len(out) == 0 {
				out = nil
			}
			return out, true
		}
	}
	return items, false
}
