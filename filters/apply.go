package filters

import (
	"cmp"
	"slices"

	"github.com/eringen/pressfront/content"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Apply returns the posts matching s, ordered by s.SortBy. The input slice
// is not modified.
func Apply(s FilterState, posts []content.Post) []content.Post {
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if Match(s, p) {
			out = append(out, p)
		}
	}
	Sort(out, s.SortBy)
	return out
}

// Match reports whether p passes every filter in s.
func Match(s FilterState, p content.Post) bool {
	day := p.Date.Format(DateLayout)
	if s.DateRange.Start != "" && day < s.DateRange.Start {
		return false
	}
	if s.DateRange.End != "" && day > s.DateRange.End {
		return false
	}
	if len(s.Authors) > 0 {
		if p.Author == nil {
			return false
		}
		if !slices.Contains(s.Authors, p.Author.ID) && !slices.Contains(s.Authors, p.Author.Slug) {
			return false
		}
	}
	if len(s.Categories) > 0 && !slices.ContainsFunc(s.Categories, p.InCategory) {
		return false
	}
	switch s.Featured {
	case FeaturedOnly:
		return p.Sticky
	case FeaturedExcluded:
		return !p.Sticky
	}
	return true
}

// Sort orders posts in place. Ties fall back to newest first.
func Sort(posts []content.Post, key SortKey) {
	newest := func(a, b content.Post) int { return b.Date.Compare(a.Date) }
	switch key {
	case SortOldest:
		slices.SortStableFunc(posts, func(a, b content.Post) int { return a.Date.Compare(b.Date) })
	case SortTitle:
		col := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
		slices.SortStableFunc(posts, func(a, b content.Post) int {
			if c := col.CompareString(a.Title, b.Title); c != 0 {
				return c
			}
			return newest(a, b)
		})
	case SortPopular:
		slices.SortStableFunc(posts, func(a, b content.Post) int {
			if c := cmp.Compare(b.CommentCount, a.CommentCount); c != 0 {
				return c
			}
			return newest(a, b)
		})
	default:
		slices.SortStableFunc(posts, newest)
	}
}
