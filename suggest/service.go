package suggest

import (
	"context"
	"strings"

	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/markup"
)

// Searcher is the part of content.Service suggestions need.
type Searcher interface {
	SearchPosts(ctx context.Context, term string, q content.PostsQuery) (content.Connection[content.Post], error)
}

// ServiceSuggester answers suggestions in-process from a Searcher.
type ServiceSuggester struct {
	search Searcher
}

// NewServiceSuggester wraps s.
func NewServiceSuggester(s Searcher) *ServiceSuggester {
	return &ServiceSuggester{search: s}
}

// Suggest searches posts and keeps the server's order. A blank query
// yields no suggestions without a search.
func (s *ServiceSuggester) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if strings.TrimSpace(query) == "" {
		return []Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	conn, err := s.search.SearchPosts(ctx, query, content.PostsQuery{First: limit})
	if err != nil {
		return nil, err
	}
	out := make([]Suggestion, 0, min(len(conn.Items), limit))
	for _, p := range conn.Items {
		if len(out) == limit {
			break
		}
		out = append(out, FromPost(p))
	}
	return out, nil
}

// FromPost converts a post into a suggestion with a plain-text excerpt.
func FromPost(p content.Post) Suggestion {
	s := Suggestion{
		ID:      p.ID,
		Title:   p.Title,
		Slug:    p.Slug,
		Excerpt: markup.PlainText(p.Excerpt),
	}
	if img := p.FeaturedImage; img != nil {
		s.Thumbnail = &Thumbnail{URL: img.URL, Alt: img.Alt, Width: img.Width, Height: img.Height}
	}
	return s
}
