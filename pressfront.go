// Package pressfront is a server-rendered blog front end for a headless
// WordPress install. It renders listing, category, search, tag and detail
// pages from WPGraphQL, serves search suggestions as JSON and keeps each
// visitor's listing filters between visits.
//
// Pages are rendered through the ViewFuncs struct, so a site can replace
// any view while pressfront owns the handlers, middleware and data access.
package pressfront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/filters"
	"github.com/eringen/pressfront/views"
)

// ViewFuncs holds the components the handlers render.
type ViewFuncs struct {
	Listing     func(views.ListingData) templ.Component
	Category    func(views.CategoryData) templ.Component
	Search      func(views.SearchData) templ.Component
	Detail      func(views.DetailData) templ.Component
	Tags        func(views.TagsData) templ.Component
	Entry       func(views.EntryData) templ.Component
	NotFound    func(views.Page) templ.Component
	ServerError func(views.ErrorData) templ.Component
}

// DefaultViews returns the views bundled with pressfront.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Listing:     views.Listing,
		Category:    views.Category,
		Search:      views.Search,
		Detail:      views.Detail,
		Tags:        views.Tags,
		Entry:       views.Entry,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// withDefaults fills any nil view with the bundled one.
func (v ViewFuncs) withDefaults() ViewFuncs {
	d := DefaultViews()
	if v.Listing == nil {
		v.Listing = d.Listing
	}
	if v.Category == nil {
		v.Category = d.Category
	}
	if v.Search == nil {
		v.Search = d.Search
	}
	if v.Detail == nil {
		v.Detail = d.Detail
	}
	if v.Tags == nil {
		v.Tags = d.Tags
	}
	if v.Entry == nil {
		v.Entry = d.Entry
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	return v
}

// Warmer runs once at startup, before the server accepts requests.
type Warmer func(ctx context.Context, svc *content.Service) error

// WarmListing fetches the first listing page so it lands in the query cache.
func WarmListing(first int) Warmer {
	return func(ctx context.Context, svc *content.Service) error {
		_, err := svc.Posts(ctx, content.PostsQuery{First: first})
		return err
	}
}

// WarmCategories fetches the category list.
func WarmCategories() Warmer {
	return func(ctx context.Context, svc *content.Service) error {
		_, err := svc.Categories(ctx, categoryLimit)
		return err
	}
}

// App is the central pressfront application. It wires together the content
// service, filter persistence, handlers, middleware and views.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *content.Service
	Views   ViewFuncs
	Logger  *slog.Logger

	filterDB       *filters.SQLiteStore
	suggestLimiter *RequestLimiter
	warmers        []Warmer
	customRoutes   []func(*App)
	staticDir      string
	stopPruner     func()
	ready          bool
}

// New creates a new pressfront App with the given configuration and views.
// Nil view functions fall back to DefaultViews.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v.withDefaults(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	a.Echo.HideBanner = true

	return a
}

// Setup validates the config, opens the content service and filter
// storage, runs the warmers and registers middleware and routes. Start
// calls it; tests call it directly and serve a.Echo.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pressfront: SessionSecret is required")
	}

	if a.Content == nil {
		ttl := a.Config.QueryCacheTTL
		if ttl < 0 {
			ttl = 0
		}
		svc, err := content.Open(a.Config.DataSource, a.Config.GraphQLEndpoint, a.Logger,
			content.WithHTTPClient(&http.Client{Timeout: a.Config.RequestTimeout}),
			content.WithCache(content.NewQueryCache(ttl)),
		)
		if err != nil {
			return fmt.Errorf("pressfront: init content: %w", err)
		}
		a.Content = svc
	}

	switch a.Config.FilterStore {
	case FilterStoreSession:
	case FilterStoreSQLite:
		db, err := filters.OpenSQLite(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("pressfront: init filter store: %w", err)
		}
		a.filterDB = db
		a.stopPruner = a.startPruner(time.Hour)
	default:
		return fmt.Errorf("pressfront: unknown filter store %q", a.Config.FilterStore)
	}

	a.suggestLimiter = NewRequestLimiter(a.Config.SuggestRateLimit, time.Minute)

	a.warmup(ctx)
	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and starts the server.
func (a *App) Start() error {
	if err := a.Setup(context.Background()); err != nil {
		return err
	}
	a.Logger.Info("pressfront listening", "addr", a.Config.Addr, "data_source", a.Config.DataSource)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// warmup runs every warmer. A failing warmer is logged, not fatal.
func (a *App) warmup(ctx context.Context) {
	for i, w := range a.warmers {
		start := time.Now()
		if err := w(ctx, a.Content); err != nil {
			a.Logger.Warn("warmup failed", "warmer", i, "error", err)
			continue
		}
		a.Logger.Debug("warmup done", "warmer", i, "took", time.Since(start))
	}
}

// startPruner deletes stale SQLite filter rows every interval.
func (a *App) startPruner(interval time.Duration) func() {
	done := make(chan struct{})
	prune := func() {
		n, err := a.filterDB.Prune(context.Background(), a.Config.FilterRetention)
		if err != nil {
			a.Logger.Warn("prune filter state", "error", err)
			return
		}
		if n > 0 {
			a.Logger.Info("pruned filter state", "rows", n)
		}
	}
	go func() {
		prune()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				prune()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func (a *App) setupRoutes() {
	e := a.Echo

	if _, err := os.Stat(a.staticDir); err == nil {
		e.Static("/public", a.staticDir)
	}

	e.GET("/", handleRootRedirect)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)

	e.GET("/blog", a.handleListing)
	e.POST("/blog/filters", a.handleFilterForm)
	e.GET("/blog/search", a.handleSearch)
	e.GET("/blog/tags", a.handleTags)
	e.GET("/blog/category/:slug", a.handleCategory)
	e.GET("/blog/:slug", a.handlePost)
	e.GET("/pages/:slug", a.handlePage)

	api := e.Group("/api")
	api.GET("/search/suggestions", a.handleSuggestions, a.rateLimit(a.suggestLimiter))
	api.GET("/filters", a.handleGetFilters)
	api.POST("/filters", a.handleApplyFilter)
	api.DELETE("/filters", a.handleClearFilters)
	api.DELETE("/filters/chips/:key", a.handleRemoveChip)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopPruner != nil {
		a.stopPruner()
	}
	if a.suggestLimiter != nil {
		a.suggestLimiter.Stop()
	}
	if a.filterDB != nil {
		return a.filterDB.Close()
	}
	return nil
}
