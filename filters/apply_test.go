package filters

import (
	"testing"
	"time"

	"github.com/eringen/pressfront/content"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}

func samplePosts() []content.Post {
	cat := func(slug string) []content.Category { return []content.Category{{Slug: slug, Name: slug}} }
	return []content.Post{
		{Slug: "alpha", Title: "alpha", Date: day("2024-01-10"), Author: &content.Author{ID: "u1", Slug: "ada"}, Categories: cat("programming"), CommentCount: 3},
		{Slug: "beta", Title: "Beta", Date: day("2024-02-10"), Author: &content.Author{ID: "u2", Slug: "bruno"}, Categories: cat("design"), Sticky: true, CommentCount: 10},
		{Slug: "gamma", Title: "Émile", Date: day("2024-03-10"), Categories: cat("devops"), CommentCount: 3},
		{Slug: "delta", Title: "delta", Date: day("2024-04-10"), Author: &content.Author{ID: "u1", Slug: "ada"}, Categories: cat("design"), Sticky: true},
	}
}

func slugs(posts []content.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func equalSlugs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	base := Default()
	with := func(mut func(*FilterState)) FilterState {
		s := base
		mut(&s)
		return s
	}
	tests := []struct {
		name  string
		state FilterState
		want  []string
	}{
		{"default is newest first", base, []string{"delta", "gamma", "beta", "alpha"}},
		{"oldest", with(func(s *FilterState) { s.SortBy = SortOldest }), []string{"alpha", "beta", "gamma", "delta"}},
		{"title ignores case and accents", with(func(s *FilterState) { s.SortBy = SortTitle }), []string{"alpha", "beta", "delta", "gamma"}},
		{"popular with ties newest first", with(func(s *FilterState) { s.SortBy = SortPopular }), []string{"beta", "gamma", "alpha", "delta"}},
		{"inclusive range", with(func(s *FilterState) { s.DateRange = DateRange{Start: "2024-02-10", End: "2024-03-10"} }), []string{"gamma", "beta"}},
		{"open start", with(func(s *FilterState) { s.DateRange = DateRange{End: "2024-02-09"} }), []string{"alpha"}},
		{"author by slug", with(func(s *FilterState) { s.Authors = []string{"ada"} }), []string{"delta", "alpha"}},
		{"author by id", with(func(s *FilterState) { s.Authors = []string{"u2"} }), []string{"beta"}},
		{"categories are a union", with(func(s *FilterState) { s.Categories = []string{"devops", "programming"} }), []string{"gamma", "alpha"}},
		{"featured only", with(func(s *FilterState) { s.Featured = FeaturedOnly }), []string{"delta", "beta"}},
		{"not featured", with(func(s *FilterState) { s.Featured = FeaturedExcluded }), []string{"gamma", "alpha"}},
		{"combined", with(func(s *FilterState) {
			s.Categories = []string{"design"}
			s.Authors = []string{"ada"}
			s.Featured = FeaturedOnly
		}), []string{"delta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugs(Apply(tt.state, samplePosts()))
			if !equalSlugs(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyDoesNotReorderInput(t *testing.T) {
	posts := samplePosts()
	Apply(FilterState{SortBy: SortTitle, ViewMode: ViewGrid}, posts)
	if got := slugs(posts); !equalSlugs(got, []string{"alpha", "beta", "gamma", "delta"}) {
		t.Errorf("input reordered: %v", got)
	}
}
