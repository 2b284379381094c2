package views

import (
	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/filters"
	"github.com/eringen/pressfront/markup"
)

// SiteConfig holds the site-wide settings every page renders.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical
}

// Page is embedded in every page's data.
type Page struct {
	Site SiteConfig
	Meta PageMeta
	// Query pre-fills the header search box.
	Query string
}

// ListingData renders /blog.
type ListingData struct {
	Page
	Posts       []content.Post
	Categories  []content.Category
	Filters     filters.FilterState
	Chips       []filters.Chip
	LoadMoreURL string
}

// Selected reports whether category slug is part of the filter.
func (d ListingData) Selected(slug string) bool {
	for _, c := range d.Filters.Categories {
		if c == slug {
			return true
		}
	}
	return false
}

// CategoryData renders /blog/category/:slug.
type CategoryData struct {
	Page
	Category    content.Category
	Posts       []content.Post
	LoadMoreURL string
}

// SearchData renders /blog/search. Prompt is set when no query was given.
type SearchData struct {
	Page
	Prompt      bool
	Posts       []content.Post
	Total       int // 0 when the source does not report a total
	LoadMoreURL string
}

// Count is the number of matching articles: the reported total, or the
// posts on this page when the total is unknown.
func (d SearchData) Count() int {
	if d.Total > 0 {
		return d.Total
	}
	return len(d.Posts)
}

// CountLabel is "N articles", or "N articles on this page" when more
// pages follow and the total is unknown.
func (d SearchData) CountLabel() string {
	label := Articles(d.Count())
	if d.Total == 0 && d.LoadMoreURL != "" {
		label += " on this page"
	}
	return label
}

// DetailData renders /blog/:slug.
type DetailData struct {
	Page
	Post           content.Post
	ReadingMinutes int
	TOC            []markup.Heading
	Related        []content.Post
}

// TagsData renders /blog/tags.
type TagsData struct {
	Page
	Tags []content.Tag
}

// EntryData renders a WordPress page under /pages/:slug.
type EntryData struct {
	Page
	Entry content.Page
}

// ErrorData renders the error view. RetryURL reloads the failed page.
type ErrorData struct {
	Page
	RetryURL string
}
