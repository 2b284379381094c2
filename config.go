package pressfront

import (
	"log/slog"
	"time"

	"github.com/eringen/pressfront/content"
)

// FilterStore names where filter state is persisted.
type FilterStore string

const (
	// FilterStoreSession keeps the state in the visitor's cookie session.
	FilterStoreSession FilterStore = "session"
	// FilterStoreSQLite keeps the state in SQLite, keyed by a visitor id
	// held in the cookie session.
	FilterStoreSQLite FilterStore = "sqlite"
)

// SiteConfig holds all configuration for a pressfront site.
type SiteConfig struct {
	Name        string `toml:"name"`        // Site name (default "Blog")
	URL         string `toml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `toml:"description"` // Site description for RSS and meta tags
	Author      string `toml:"author"`

	Addr string `toml:"addr"` // Listen address (default ":3000")

	GraphQLEndpoint string        `toml:"graphql_endpoint"` // WPGraphQL URL, required in live mode
	DataSource      content.Mode  `toml:"data_source"`      // "live" or "fixture" (default "live")
	QueryCacheTTL   time.Duration `toml:"query_cache_ttl"`  // default 5min; negative disables expiry
	RequestTimeout  time.Duration `toml:"request_timeout"`  // CMS request timeout (default 10s)

	PostsPerPage     int `toml:"posts_per_page"`     // default 10
	SuggestionLimit  int `toml:"suggestion_limit"`   // max suggestions per request (default 5)
	SuggestRateLimit int `toml:"suggest_rate_limit"` // suggestion requests per IP per minute (default 60)

	FilterStore     FilterStore   `toml:"filter_store"`     // default "session"
	DatabasePath    string        `toml:"database_path"`    // SQLite path (default "data/filters.db")
	FilterRetention time.Duration `toml:"filter_retention"` // SQLite rows older than this are pruned (default 90 days)

	SessionSecret string `toml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `toml:"cookie_secure"`  // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DataSource == "" {
		c.DataSource = content.ModeLive
	}
	if c.QueryCacheTTL == 0 {
		c.QueryCacheTTL = 5 * time.Minute
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = content.DefaultFirst
	}
	if c.SuggestionLimit <= 0 {
		c.SuggestionLimit = 5
	}
	if c.SuggestRateLimit <= 0 {
		c.SuggestRateLimit = 60
	}
	if c.FilterStore == "" {
		c.FilterStore = FilterStoreSession
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/filters.db"
	}
	if c.FilterRetention == 0 {
		c.FilterRetention = 90 * 24 * time.Hour
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithWarmup registers warmers that run once when the app starts.
func WithWarmup(w ...Warmer) Option {
	return func(a *App) {
		a.warmers = append(a.warmers, w...)
	}
}

// WithContent uses svc instead of building one from DataSource.
func WithContent(svc *content.Service) Option {
	return func(a *App) {
		a.Content = svc
	}
}

// WithLogger sets the application logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
