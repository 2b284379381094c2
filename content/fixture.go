package content

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/blog.yaml
var defaultFixtures []byte

// FixtureSource serves a fixed, deterministic dataset.
type FixtureSource struct {
	posts      []Post
	categories []Category
	tags       []Tag
	pages      []Page
}

type fixtureFile struct {
	Posts      []Post     `yaml:"posts"`
	Categories []Category `yaml:"categories"`
	Tags       []Tag      `yaml:"tags"`
	Pages      []Page     `yaml:"pages"`
}

// NewFixtureSource loads the bundled demo dataset.
func NewFixtureSource() (*FixtureSource, error) {
	return LoadFixtures(bytes.NewReader(defaultFixtures))
}

// LoadFixtures decodes a YAML dataset. Posts are ordered newest first.
func LoadFixtures(r io.Reader) (*FixtureSource, error) {
	var f fixtureFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	sort.SliceStable(f.Posts, func(i, j int) bool {
		return f.Posts[i].Date.After(f.Posts[j].Date)
	})
	return &FixtureSource{
		posts:      f.Posts,
		categories: f.Categories,
		tags:       f.Tags,
		pages:      f.Pages,
	}, nil
}

// Posts returns a page of posts, newest first.
func (s *FixtureSource) Posts(_ context.Context, q PostsQuery) (Connection[Post], error) {
	posts := s.posts
	if q.Category != "" {
		posts = filterPosts(posts, func(p Post) bool { return p.InCategory(q.Category) })
	}
	if q.Search != "" {
		posts = filterPosts(posts, matchTerm(q.Search))
	}
	return paginate(posts, q), nil
}

// PostsByCategory returns posts filed under category.
func (s *FixtureSource) PostsByCategory(ctx context.Context, category string, q PostsQuery) (Connection[Post], error) {
	q.Category = category
	q.Search = ""
	return s.Posts(ctx, q)
}

// SearchPosts matches term against titles and excerpts, case-insensitively.
func (s *FixtureSource) SearchPosts(ctx context.Context, term string, q PostsQuery) (Connection[Post], error) {
	q.Category = ""
	q.Search = term
	if strings.TrimSpace(term) == "" {
		return Connection[Post]{Items: []Post{}}, nil
	}
	return s.Posts(ctx, q)
}

// PostBySlug returns the post or nil.
func (s *FixtureSource) PostBySlug(_ context.Context, slug string) (*Post, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// Categories returns up to first categories.
func (s *FixtureSource) Categories(_ context.Context, first int) ([]Category, error) {
	return head(s.categories, first), nil
}

// CategoryBySlug returns the category or nil.
func (s *FixtureSource) CategoryBySlug(_ context.Context, slug string) (*Category, error) {
	for _, c := range s.categories {
		if c.Slug == slug {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

// Tags returns up to first tags.
func (s *FixtureSource) Tags(_ context.Context, first int) ([]Tag, error) {
	return head(s.tags, first), nil
}

// PageBySlug returns the page or nil.
func (s *FixtureSource) PageBySlug(_ context.Context, slug string) (*Page, error) {
	slug = strings.Trim(slug, "/")
	for _, p := range s.pages {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func head[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return append([]T(nil), items...)
	}
	return append([]T(nil), items[:n]...)
}

func filterPosts(posts []Post, keep func(Post) bool) []Post {
	var out []Post
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func matchTerm(term string) func(Post) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	return func(p Post) bool {
		return strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Excerpt), needle)
	}
}

const cursorPrefix = "fixture:"

func encodeCursor(i int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(i)))
}

// decodeCursor reports false for cursors this source did not issue, such
// as a WPGraphQL "arrayconnection:N" cursor carried over from a live page.
func decodeCursor(c string) (int, bool) {
	b, err := base64.StdEncoding.DecodeString(c)
	if err != nil {
		return 0, false
	}
	rest, ok := strings.CutPrefix(string(b), cursorPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// paginate slices posts after q.After. An unknown cursor yields an empty
// last page rather than restarting at the first one.
func paginate(posts []Post, q PostsQuery) Connection[Post] {
	start := 0
	if q.After != "" {
		n, ok := decodeCursor(q.After)
		if ok {
			start = n + 1
		} else {
			start = len(posts)
		}
	}
	if start > len(posts) {
		start = len(posts)
	}
	end := start + q.first()
	if end > len(posts) {
		end = len(posts)
	}
	items := append([]Post{}, posts[start:end]...)
	info := PageInfo{
		HasNextPage:     end < len(posts),
		HasPreviousPage: start > 0,
		Total:           len(posts),
	}
	if len(items) > 0 {
		info.StartCursor = encodeCursor(start)
		info.EndCursor = encodeCursor(end - 1)
	}
	return Connection[Post]{Items: items, PageInfo: info}
}

var _ DataSource = (*FixtureSource)(nil)
