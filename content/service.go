package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eringen/pressfront/debounce"
)

// Mode selects how a Service is assembled.
type Mode string

const (
	// ModeLive reads from the CMS and falls back to fixtures on failure.
	ModeLive Mode = "live"
	// ModeFixture serves fixtures only.
	ModeFixture Mode = "fixture"
)

// Service is what page controllers talk to. Listing, detail and category
// reads recover from a failing primary source by answering from the
// fallback; tags, pages and search return a wrapped domain error instead.
type Service struct {
	primary  DataSource
	fallback DataSource
	logger   *slog.Logger
	warn     *debounce.Throttler[fallbackEvent]
}

// FallbackWarnInterval bounds how often a CMS outage is logged at warn level.
// Failures inside the interval are logged at debug.
const FallbackWarnInterval = 30 * time.Second

type fallbackEvent struct {
	op  string
	err error
}

// NewService wraps primary. fallback may be nil.
func NewService(primary, fallback DataSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{primary: primary, fallback: fallback, logger: logger}
	s.warn = debounce.NewThrottler(FallbackWarnInterval, func(ev fallbackEvent) {
		s.logger.Warn("cms request failed, serving fixtures", "op", ev.op, "error", ev.err)
	})
	return s
}

// Open builds a Service for the given mode.
func Open(mode Mode, endpoint string, logger *slog.Logger, opts ...LiveOption) (*Service, error) {
	fixtures, err := NewFixtureSource()
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeFixture:
		return NewService(fixtures, nil, logger), nil
	case ModeLive, "":
		if endpoint == "" {
			return nil, fmt.Errorf("content: GraphQL endpoint is required in %s mode", ModeLive)
		}
		opts = append([]LiveOption{WithLogger(logger)}, opts...)
		return NewService(NewLiveSource(endpoint, opts...), fixtures, logger), nil
	default:
		return nil, fmt.Errorf("content: unknown data source mode %q", mode)
	}
}

func (s *Service) recover(op string, err error) bool {
	if s.fallback == nil {
		return false
	}
	if !s.warn.Call(fallbackEvent{op: op, err: err}) {
		s.logger.Debug("cms request failed, serving fixtures", "op", op, "error", err)
	}
	return true
}

// Posts returns a page of the latest posts.
func (s *Service) Posts(ctx context.Context, q PostsQuery) (Connection[Post], error) {
	conn, err := s.primary.Posts(ctx, q)
	if err != nil {
		if !s.recover("posts", err) {
			return Connection[Post]{}, fmt.Errorf("list posts: %w", err)
		}
		return s.fallback.Posts(ctx, q)
	}
	return conn, nil
}

// PostBySlug returns a post with content or nil when unknown.
func (s *Service) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	p, err := s.primary.PostBySlug(ctx, slug)
	if err != nil {
		if !s.recover("post by slug", err) {
			return nil, fmt.Errorf("get post %q: %w", slug, err)
		}
		return s.fallback.PostBySlug(ctx, slug)
	}
	return p, nil
}

// PostsByCategory returns posts filed under category.
func (s *Service) PostsByCategory(ctx context.Context, category string, q PostsQuery) (Connection[Post], error) {
	conn, err := s.primary.PostsByCategory(ctx, category, q)
	if err != nil {
		if !s.recover("posts by category", err) {
			return Connection[Post]{}, fmt.Errorf("list posts in %q: %w", category, err)
		}
		return s.fallback.PostsByCategory(ctx, category, q)
	}
	return conn, nil
}

// Categories lists categories.
func (s *Service) Categories(ctx context.Context, first int) ([]Category, error) {
	cats, err := s.primary.Categories(ctx, first)
	if err != nil {
		if !s.recover("categories", err) {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		return s.fallback.Categories(ctx, first)
	}
	return cats, nil
}

// CategoryBySlug returns a category or nil when unknown.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	c, err := s.primary.CategoryBySlug(ctx, slug)
	if err != nil {
		if !s.recover("category by slug", err) {
			return nil, fmt.Errorf("get category %q: %w", slug, err)
		}
		return s.fallback.CategoryBySlug(ctx, slug)
	}
	return c, nil
}

// Tags lists tags. There is no fallback.
func (s *Service) Tags(ctx context.Context, first int) ([]Tag, error) {
	tags, err := s.primary.Tags(ctx, first)
	if err != nil {
		return nil, fail(ErrTagsFailed, err)
	}
	return tags, nil
}

// PageBySlug returns a WordPress page or nil. There is no fallback.
func (s *Service) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	p, err := s.primary.PageBySlug(ctx, slug)
	if err != nil {
		return nil, fail(ErrPageFailed, err)
	}
	return p, nil
}

// SearchPosts runs a full-text search. There is no fallback.
func (s *Service) SearchPosts(ctx context.Context, term string, q PostsQuery) (Connection[Post], error) {
	conn, err := s.primary.SearchPosts(ctx, term, q)
	if err != nil {
		return Connection[Post]{}, fail(ErrSearchFailed, err)
	}
	return conn, nil
}
