package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
)

// LiveSource reads content from a WPGraphQL endpoint. Every query goes
// through a cache-first QueryCache.
type LiveSource struct {
	client *graphql.Client
	cache  *QueryCache
	logger *slog.Logger
}

// LiveOption configures a LiveSource.
type LiveOption func(*liveOptions)

type liveOptions struct {
	httpClient *http.Client
	cache      *QueryCache
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used for GraphQL requests.
func WithHTTPClient(c *http.Client) LiveOption {
	return func(o *liveOptions) {
		o.httpClient = c
	}
}

// WithCache shares a QueryCache between sources.
func WithCache(c *QueryCache) LiveOption {
	return func(o *liveOptions) {
		o.cache = c
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *slog.Logger) LiveOption {
	return func(o *liveOptions) {
		o.logger = l
	}
}

// NewLiveSource creates a LiveSource for the given endpoint.
func NewLiveSource(endpoint string, opts ...LiveOption) *LiveSource {
	o := liveOptions{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = NewQueryCache(0)
	}
	client := graphql.NewClient(endpoint, graphql.WithHTTPClient(o.httpClient))
	client.Log = func(s string) {
		o.logger.Debug("graphql", "msg", s)
	}
	return &LiveSource{
		client: client,
		cache:  o.cache,
		logger: o.logger,
	}
}

// Cache returns the query cache used by the source.
func (s *LiveSource) Cache() *QueryCache {
	return s.cache
}

func (s *LiveSource) run(ctx context.Context, query string, vars map[string]any, out any) error {
	key := cacheKey(query, vars)
	if raw, ok := s.cache.Get(key); ok {
		return json.Unmarshal(raw, out)
	}

	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	var raw json.RawMessage
	if err := s.client.Run(ctx, req, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	s.cache.Put(key, raw)
	return nil
}

func postsVars(q PostsQuery, category, search string) map[string]any {
	vars := map[string]any{
		"first":    q.first(),
		"after":    nil,
		"category": nil,
		"search":   nil,
	}
	if q.After != "" {
		vars["after"] = q.After
	}
	if category != "" {
		vars["category"] = category
	}
	if search != "" {
		vars["search"] = search
	}
	return vars
}

func (s *LiveSource) posts(ctx context.Context, vars map[string]any) (Connection[Post], error) {
	var resp struct {
		Posts wireConnection `json:"posts"`
	}
	if err := s.run(ctx, postsQuery, vars, &resp); err != nil {
		return Connection[Post]{}, err
	}
	return resp.Posts.connection(), nil
}

// Posts returns the latest published posts.
func (s *LiveSource) Posts(ctx context.Context, q PostsQuery) (Connection[Post], error) {
	return s.posts(ctx, postsVars(q, q.Category, q.Search))
}

// PostsByCategory returns posts filed under category.
func (s *LiveSource) PostsByCategory(ctx context.Context, category string, q PostsQuery) (Connection[Post], error) {
	return s.posts(ctx, postsVars(q, category, ""))
}

// SearchPosts runs a full-text search.
func (s *LiveSource) SearchPosts(ctx context.Context, term string, q PostsQuery) (Connection[Post], error) {
	return s.posts(ctx, postsVars(q, "", term))
}

// PostBySlug returns a single post with content, or nil if unknown.
func (s *LiveSource) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	var resp struct {
		Post *wirePost `json:"post"`
	}
	if err := s.run(ctx, postBySlugQuery, map[string]any{"slug": slug}, &resp); err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, nil
	}
	p := resp.Post.post()
	return &p, nil
}

// Categories returns up to first categories.
func (s *LiveSource) Categories(ctx context.Context, first int) ([]Category, error) {
	var resp struct {
		Categories struct {
			Nodes []wireTerm `json:"nodes"`
		} `json:"categories"`
	}
	if err := s.run(ctx, categoriesQuery, map[string]any{"first": firstOr(first, 100)}, &resp); err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(resp.Categories.Nodes))
	for _, n := range resp.Categories.Nodes {
		out = append(out, n.category())
	}
	return out, nil
}

// CategoryBySlug returns a category, or nil if unknown.
func (s *LiveSource) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var resp struct {
		Category *wireTerm `json:"category"`
	}
	if err := s.run(ctx, categoryBySlugQuery, map[string]any{"slug": slug}, &resp); err != nil {
		return nil, err
	}
	if resp.Category == nil {
		return nil, nil
	}
	c := resp.Category.category()
	return &c, nil
}

// Tags returns up to first tags.
func (s *LiveSource) Tags(ctx context.Context, first int) ([]Tag, error) {
	var resp struct {
		Tags struct {
			Nodes []wireTerm `json:"nodes"`
		} `json:"tags"`
	}
	if err := s.run(ctx, tagsQuery, map[string]any{"first": firstOr(first, 100)}, &resp); err != nil {
		return nil, err
	}
	out := make([]Tag, 0, len(resp.Tags.Nodes))
	for _, n := range resp.Tags.Nodes {
		out = append(out, n.tag())
	}
	return out, nil
}

// PageBySlug returns a WordPress page by URI, or nil if unknown.
func (s *LiveSource) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	var resp struct {
		Page *struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Slug    string `json:"slug"`
			Content string `json:"content"`
			Date    string `json:"date"`
		} `json:"page"`
	}
	if err := s.run(ctx, pageBySlugQuery, map[string]any{"slug": strings.Trim(slug, "/")}, &resp); err != nil {
		return nil, err
	}
	if resp.Page == nil {
		return nil, nil
	}
	return &Page{
		ID:      resp.Page.ID,
		Title:   resp.Page.Title,
		Slug:    resp.Page.Slug,
		Content: resp.Page.Content,
		Date:    parseWPTime(resp.Page.Date),
	}, nil
}

func firstOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

var _ DataSource = (*LiveSource)(nil)
