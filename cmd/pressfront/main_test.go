package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressfront"
	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/suggest"
)

func TestSiteConfigFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "Field Notes"
url = "https://notes.example.com"
graphql_endpoint = "https://cms.example.com/graphql"
data_source = "live"
query_cache_ttl = "2m"
posts_per_page = 12
filter_store = "sqlite"
session_secret = "from-file"
`), 0o644))

	cmd := &serveCommand{Config: path, DataSource: "fixture", SessionSecret: "from-flag"}
	cfg, err := cmd.siteConfig()
	require.NoError(t, err)

	assert.Equal(t, "Field Notes", cfg.Name)
	assert.Equal(t, "https://notes.example.com", cfg.URL)
	assert.Equal(t, "https://cms.example.com/graphql", cfg.GraphQLEndpoint)
	assert.Equal(t, content.ModeFixture, cfg.DataSource)
	assert.Equal(t, 2*time.Minute, cfg.QueryCacheTTL)
	assert.Equal(t, 12, cfg.PostsPerPage)
	assert.Equal(t, pressfront.FilterStoreSQLite, cfg.FilterStore)
	assert.Equal(t, "from-flag", cfg.SessionSecret)
}

func TestSiteConfigMissingFile(t *testing.T) {
	_, err := (&serveCommand{Config: filepath.Join(t.TempDir(), "nope.toml")}).siteConfig()
	assert.Error(t, err)
}

var testSuggestions = map[string][]suggest.Suggestion{
	"go": {
		{ID: "1", Title: "Structured Concurrency", Slug: "structured-concurrency"},
		{ID: "2", Title: "Table-Driven Tests", Slug: "table-driven-tests"},
	},
}

func fakeSource() suggest.Suggester {
	return suggest.SuggesterFunc(func(_ context.Context, q string, limit int) ([]suggest.Suggestion, error) {
		if q == "fail" {
			return nil, errors.New("boom")
		}
		return testSuggestions[q], nil
	})
}

func runLines(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, runSuggest(in, &out, fakeSource(), suggest.WithDelay(time.Hour)))
	return out.String()
}

func TestRunSuggestNavigate(t *testing.T) {
	out := runLines(t, "go", ":down", ":down", ":enter")

	assert.Contains(t, out, "  1. Structured Concurrency (/blog/structured-concurrency)")
	assert.Contains(t, out, "> 2. Table-Driven Tests (/blog/table-driven-tests)")
	assert.True(t, strings.HasSuffix(out, "navigate /blog/table-driven-tests\n"), out)
}

func TestRunSuggestSubmit(t *testing.T) {
	out := runLines(t, "go", ":enter")
	assert.True(t, strings.HasSuffix(out, "search /blog/search?q=go\n"), out)
}

func TestRunSuggestEmptyAndFailure(t *testing.T) {
	assert.Equal(t, "\"rust\": no suggestions\n", runLines(t, "rust"))
	assert.Equal(t, "\"fail\": no suggestions\n", runLines(t, "fail"))
}

func TestRunSuggestEscapeThenEnterDoesNothing(t *testing.T) {
	out := runLines(t, "go", ":esc", ":esc", ":enter")
	assert.NotContains(t, out, "navigate")
	assert.NotContains(t, out, "search ")
}
