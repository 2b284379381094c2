// Package suggest implements search-as-you-type: a debounced query feeding
// a suggestion panel with keyboard navigation.
package suggest

import (
	"context"
	"fmt"
)

// Suggestion is one entry of the suggestion panel.
type Suggestion struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Excerpt   string     `json:"excerpt"`
	Thumbnail *Thumbnail `json:"featuredImage"`
}

// Thumbnail describes a suggestion image.
type Thumbnail struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Suggester fetches up to limit suggestions for query, in ranked order.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

// SuggesterFunc adapts a function to Suggester.
type SuggesterFunc func(ctx context.Context, query string, limit int) ([]Suggestion, error)

func (f SuggesterFunc) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	return f(ctx, query, limit)
}

// State is the engine's position in its Idle -> Pending -> Resolved cycle.
type State int

const (
	// Idle: empty query, panel closed, nothing in flight.
	Idle State = iota
	// Pending: the debounce timer is armed or the fetch is in flight.
	Pending
	// Resolved: suggestions (possibly none) are on display.
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Key is a keyboard key the engine reacts to.
type Key string

const (
	KeyDown   Key = "ArrowDown"
	KeyUp     Key = "ArrowUp"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

// Snapshot is an immutable view of the engine.
type Snapshot struct {
	Query       string
	State       State
	Open        bool
	Suggestions []Suggestion
	// Highlight is the highlighted suggestion index, -1 for none.
	Highlight int
}

// Loading reports whether the panel shows its loading indicator.
func (s Snapshot) Loading() bool {
	return s.Open && s.State == Pending
}

// Empty reports whether the panel shows its no-matches message.
func (s Snapshot) Empty() bool {
	return s.Open && s.State == Resolved && len(s.Suggestions) == 0
}

// Highlighted returns the highlighted suggestion, if any.
func (s Snapshot) Highlighted() (Suggestion, bool) {
	if s.Highlight < 0 || s.Highlight >= len(s.Suggestions) {
		return Suggestion{}, false
	}
	return s.Suggestions[s.Highlight], true
}
