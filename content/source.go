// Package content fetches posts, categories, tags and pages from a headless
// WordPress install and falls back to a bundled fixture dataset when the CMS
// cannot be reached.
package content

import (
	"context"
	"errors"
)

// DataSource is anything that can answer the front end's content queries.
// A missing entity is reported as a nil result with a nil error.
type DataSource interface {
	Posts(ctx context.Context, q PostsQuery) (Connection[Post], error)
	PostBySlug(ctx context.Context, slug string) (*Post, error)
	PostsByCategory(ctx context.Context, category string, q PostsQuery) (Connection[Post], error)
	Categories(ctx context.Context, first int) ([]Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*Category, error)
	Tags(ctx context.Context, first int) ([]Tag, error)
	PageBySlug(ctx context.Context, slug string) (*Page, error)
	SearchPosts(ctx context.Context, term string, q PostsQuery) (Connection[Post], error)
}

var (
	// ErrUnavailable matches every failure of a path without a fixture fallback.
	ErrUnavailable = errors.New("content unavailable")

	ErrSearchFailed = &domainError{op: "search posts"}
	ErrTagsFailed   = &domainError{op: "list tags"}
	ErrPageFailed   = &domainError{op: "get page"}
)

type domainError struct {
	op string
}

func (e *domainError) Error() string {
	return e.op + ": " + ErrUnavailable.Error()
}

func (e *domainError) Is(target error) bool {
	return target == ErrUnavailable
}

// failure wraps cause so that errors.Is matches both kind and ErrUnavailable.
type failure struct {
	kind  *domainError
	cause error
}

func (f *failure) Error() string {
	return f.kind.Error() + ": " + f.cause.Error()
}

func (f *failure) Unwrap() []error {
	return []error{f.kind, f.cause}
}

func fail(kind *domainError, cause error) error {
	return &failure{kind: kind, cause: cause}
}
