package pressfront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressfront/filters"
	"github.com/eringen/pressfront/suggest"
)

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSuggestions(t *testing.T) {
	cl := newClient(t, newTestApp(t, testConfig()))

	rec := cl.get("/api/search/suggestions?q=graphql")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	resp := decodeJSON[suggest.Response](t, rec)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "querying-wordpress-graphql", resp.Suggestions[0].Slug)
	assert.Equal(t, "Fragments, cursors and caching for a headless CMS front end.", resp.Suggestions[0].Excerpt)

	resp = decodeJSON[suggest.Response](t, cl.get("/api/search/suggestions?q=graphql&limit=1"))
	assert.Len(t, resp.Suggestions, 1)

	rec = cl.get("/api/search/suggestions?q=")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())

	rec = cl.get("/api/search/suggestions?q=go&limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestionsLimitIsCapped(t *testing.T) {
	cfg := testConfig()
	cfg.SuggestionLimit = 2
	cl := newClient(t, newTestApp(t, cfg))

	resp := decodeJSON[suggest.Response](t, cl.get("/api/search/suggestions?q=o&limit=50"))
	assert.Len(t, resp.Suggestions, 2)
}

func TestSuggestionsFailure(t *testing.T) {
	rec := newClient(t, brokenApp(t)).get("/api/search/suggestions?q=go")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeJSON[suggest.ErrorResponse](t, rec)
	assert.NotEmpty(t, resp.Error)
}

func TestSuggestionsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.SuggestRateLimit = 2
	cl := newClient(t, newTestApp(t, cfg))

	for range 2 {
		require.Equal(t, http.StatusOK, cl.get("/api/search/suggestions?q=go").Code)
	}
	rec := cl.get("/api/search/suggestions?q=go")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "too many requests", decodeJSON[suggest.ErrorResponse](t, rec).Error)
}

func TestSuggestionsThroughHTTPSuggester(t *testing.T) {
	srv := httptest.NewServer(newTestApp(t, testConfig()).Echo)
	t.Cleanup(srv.Close)

	items, err := suggest.NewHTTPSuggester(srv.URL, srv.Client()).Suggest(t.Context(), "color", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "color-tokens", items[0].Slug)
}

func postJSON(cl *client, target, body string) *httptest.ResponseRecorder {
	return cl.do(http.MethodPost, target, strings.NewReader(body), "application/json")
}

func TestFilterAPIRoundTrip(t *testing.T) {
	cl := newClient(t, newTestApp(t, testConfig()))

	resp := decodeJSON[FiltersResponse](t, cl.get("/api/filters"))
	assert.True(t, resp.State.Equal(filters.Default()))
	assert.Empty(t, resp.Chips)

	rec := postJSON(cl, "/api/filters", `{"type":"toggleCategory","value":"design"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decodeJSON[FiltersResponse](t, rec)
	assert.Equal(t, []string{"design"}, resp.State.Categories)
	require.Len(t, resp.Chips, 1)
	assert.Equal(t, "category:design", resp.Chips[0].Key)

	rec = postJSON(cl, "/api/filters", `{"type":"sort","value":"title"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp = decodeJSON[FiltersResponse](t, cl.get("/api/filters"))
	assert.Equal(t, []string{"design"}, resp.State.Categories)
	assert.Equal(t, filters.SortTitle, resp.State.SortBy)
	assert.Len(t, resp.Chips, 2)

	// The listing applies the stored filters.
	doc := document(t, cl.get("/blog"))
	slugs := doc.Find(".post-card").Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("data-slug", "")
	})
	assert.Equal(t, []string{"color-tokens", "type-scale-dark-mode"}, slugs)
	assert.Equal(t, 2, doc.Find("[data-chip]").Length())

	rec = cl.do(http.MethodDelete, "/api/filters/chips/category:design", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeJSON[FiltersResponse](t, rec)
	assert.Empty(t, resp.State.Categories)
	assert.Equal(t, filters.SortTitle, resp.State.SortBy)

	rec = cl.do(http.MethodDelete, "/api/filters", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeJSON[FiltersResponse](t, rec)
	assert.True(t, resp.State.IsDefault())
	assert.NotNil(t, resp.Chips)
	assert.Empty(t, resp.Chips)
}

func TestFilterAPIRejectsBadActions(t *testing.T) {
	cl := newClient(t, newTestApp(t, testConfig()))

	tests := []struct {
		name string
		do   func() *httptest.ResponseRecorder
		code int
	}{
		{"unknown action", func() *httptest.ResponseRecorder {
			return postJSON(cl, "/api/filters", `{"type":"explode"}`)
		}, http.StatusBadRequest},
		{"bad sort", func() *httptest.ResponseRecorder {
			return postJSON(cl, "/api/filters", `{"type":"sort","value":"random"}`)
		}, http.StatusBadRequest},
		{"bad date", func() *httptest.ResponseRecorder {
			return postJSON(cl, "/api/filters", `{"type":"dateStart","value":"yesterday"}`)
		}, http.StatusBadRequest},
		{"malformed body", func() *httptest.ResponseRecorder {
			return postJSON(cl, "/api/filters", `{"type":`)
		}, http.StatusBadRequest},
		{"unknown chip", func() *httptest.ResponseRecorder {
			return cl.do(http.MethodDelete, "/api/filters/chips/author:nobody", nil, "")
		}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.do()
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeJSON[suggest.ErrorResponse](t, rec).Error)
		})
	}

	resp := decodeJSON[FiltersResponse](t, cl.get("/api/filters"))
	assert.True(t, resp.State.IsDefault(), "rejected actions must not change the state")
}

func TestFilterForm(t *testing.T) {
	cl := newClient(t, newTestApp(t, testConfig()))

	form := url.Values{"type": {"view"}, "value": {"list"}}
	rec := cl.do(http.MethodPost, "/blog/filters", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blog", rec.Header().Get("Location"))

	doc := document(t, cl.get("/blog"))
	assert.Equal(t, 1, doc.Find("section.view-list").Length())
	assert.Equal(t, 1, doc.Find(`[data-chip="view"]`).Length())

	form = url.Values{"type": {"sort"}, "value": {"sideways"}}
	rec = cl.do(http.MethodPost, "/blog/filters", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	form = url.Values{"type": {"clearAll"}}
	cl.do(http.MethodPost, "/blog/filters", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	doc = document(t, cl.get("/blog"))
	assert.Equal(t, 0, doc.Find(".active-filters").Length())
}

func TestFiltersArePerVisitor(t *testing.T) {
	a := newTestApp(t, testConfig())
	alice, bob := newClient(t, a), newClient(t, a)

	postJSON(alice, "/api/filters", `{"type":"toggleAuthor","value":"ada"}`)

	assert.Equal(t, []string{"ada"}, decodeJSON[FiltersResponse](t, alice.get("/api/filters")).State.Authors)
	assert.Empty(t, decodeJSON[FiltersResponse](t, bob.get("/api/filters")).State.Authors)
}

func TestSQLiteFilterStore(t *testing.T) {
	cfg := testConfig()
	cfg.FilterStore = FilterStoreSQLite
	cfg.DatabasePath = filepath.Join(t.TempDir(), "filters.db")
	a := newTestApp(t, cfg)
	cl := newClient(t, a)

	rec := postJSON(cl, "/api/filters", `{"type":"featured","value":"true"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, cl.cookies, filters.SessionName)

	resp := decodeJSON[FiltersResponse](t, cl.get("/api/filters"))
	assert.Equal(t, filters.FeaturedOnly, resp.State.Featured)

	doc := document(t, cl.get("/blog"))
	assert.Equal(t, 2, doc.Find(".post-card").Length(), "only sticky posts")

	// A fresh visitor gets a fresh row.
	other := newClient(t, a)
	assert.True(t, decodeJSON[FiltersResponse](t, other.get("/api/filters")).State.IsDefault())
}

func TestStaleSessionCookieIsIgnored(t *testing.T) {
	cl := newClient(t, newTestApp(t, testConfig()))
	cl.cookies[filters.SessionName] = &http.Cookie{Name: filters.SessionName, Value: "garbage"}

	rec := cl.get("/blog")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(cl, "/api/filters", `{"type":"view","value":"list"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, filters.ViewList, decodeJSON[FiltersResponse](t, cl.get("/api/filters")).State.ViewMode)
}
