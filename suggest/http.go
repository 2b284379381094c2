package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Response is the body of the suggestions endpoint.
type Response struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// ErrorResponse is the body returned with HTTP 500.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPSuggester calls a pressfront suggestions endpoint.
type HTTPSuggester struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSuggester targets base, e.g. "http://localhost:3000". A nil
// client gets a 5 second timeout.
func NewHTTPSuggester(base string, client *http.Client) *HTTPSuggester {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPSuggester{
		endpoint: strings.TrimRight(base, "/") + "/api/search/suggestions",
		client:   client,
	}
}

// Suggest issues GET /api/search/suggestions?q=&limit=.
func (h *HTTPSuggester) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	v := url.Values{}
	v.Set("q", query)
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint+"?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return nil, fmt.Errorf("suggestions: %s (status %d)", e.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("suggestions: unexpected status %d", resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return out.Suggestions, nil
}
