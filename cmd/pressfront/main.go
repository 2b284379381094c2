// Command pressfront serves the blog front end and offers a terminal
// driver for the search-suggestion engine.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jessevdk/go-flags"

	"github.com/eringen/pressfront"
	"github.com/eringen/pressfront/content"
)

// version is set at build time via ldflags.
var version = "dev"

type globalOptions struct {
	Debug bool `long:"debug" env:"PRESSFRONT_DEBUG" description:"Enable debug logging"`
}

var (
	opts globalOptions
	lg   *slog.Logger
)

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		lg = newLogger(opts.Debug)
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}
	if _, err := parser.AddCommand("serve", "Run the web server",
		"Serve the blog, the suggestions API and the filter API.", &serveCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("suggest", "Drive the suggestion engine from stdin",
		"Each input line is typed into the search box. Lines :down, :up, :enter, :esc, :clear and :outside act as keys.",
		&suggestCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("version", "Print the version", "", &versionCommand{}); err != nil {
		panic(err)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

type serveCommand struct {
	Config          string `long:"config" short:"c" env:"PRESSFRONT_CONFIG" description:"Path to a TOML site file"`
	Addr            string `long:"addr" env:"PRESSFRONT_ADDR" description:"Listen address"`
	SiteURL         string `long:"site-url" env:"PRESSFRONT_SITE_URL" description:"Canonical site URL"`
	GraphQLEndpoint string `long:"graphql-endpoint" env:"WORDPRESS_GRAPHQL_ENDPOINT" description:"WPGraphQL endpoint"`
	DataSource      string `long:"data-source" env:"PRESSFRONT_DATA_SOURCE" choice:"live" choice:"fixture" description:"Where content comes from"`
	FilterStore     string `long:"filter-store" env:"PRESSFRONT_FILTER_STORE" choice:"session" choice:"sqlite" description:"Where filter state is kept"`
	DatabasePath    string `long:"database" env:"PRESSFRONT_DATABASE" description:"SQLite path for the sqlite filter store"`
	SessionSecret   string `long:"session-secret" env:"SESSION_SECRET" description:"Cookie session secret"`
	CookieSecure    bool   `long:"cookie-secure" env:"COOKIE_SECURE" description:"Mark cookies Secure (HTTPS only)"`
	NoWarmup        bool   `long:"no-warmup" description:"Skip the startup cache warm-up"`
}

// siteConfig reads the site file, if any, and lets flags override it.
func (c *serveCommand) siteConfig() (pressfront.SiteConfig, error) {
	var cfg pressfront.SiteConfig
	if c.Config != "" {
		if _, err := toml.DecodeFile(c.Config, &cfg); err != nil {
			return cfg, fmt.Errorf("read site file: %w", err)
		}
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.SiteURL != "" {
		cfg.URL = c.SiteURL
	}
	if c.GraphQLEndpoint != "" {
		cfg.GraphQLEndpoint = c.GraphQLEndpoint
	}
	if c.DataSource != "" {
		cfg.DataSource = content.Mode(c.DataSource)
	}
	if c.FilterStore != "" {
		cfg.FilterStore = pressfront.FilterStore(c.FilterStore)
	}
	if c.DatabasePath != "" {
		cfg.DatabasePath = c.DatabasePath
	}
	if c.SessionSecret != "" {
		cfg.SessionSecret = c.SessionSecret
	}
	if c.CookieSecure {
		cfg.CookieSecure = true
	}
	return cfg, nil
}

func (c *serveCommand) Execute([]string) error {
	cfg, err := c.siteConfig()
	if err != nil {
		return err
	}

	appOpts := []pressfront.Option{pressfront.WithLogger(lg)}
	if !c.NoWarmup {
		appOpts = append(appOpts, pressfront.WithWarmup(
			pressfront.WarmListing(cfg.PostsPerPage),
			pressfront.WarmCategories(),
		))
	}
	app := pressfront.New(cfg, pressfront.DefaultViews(), appOpts...)
	defer app.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	errc := make(chan error, 1)
	go func() {
		errc <- app.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-quit:
	}
	lg.Info("service stopping")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		lg.Error("graceful shutdown failed", "error", err)
	}
	return <-errc
}

type versionCommand struct{}

func (versionCommand) Execute([]string) error {
	fmt.Printf("pressfront %s\n", version)
	return nil
}
