package filters

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Coordinator owns one FilterState. Every mutation builds a new state,
// saves it through the Store and then reports it to the change callback.
type Coordinator struct {
	mu       sync.Mutex
	state    FilterState
	store    *Store
	onChange func(FilterState)
}

// NewCoordinator starts from the stored state, or Default() when none.
// store and onChange may be nil.
func NewCoordinator(ctx context.Context, store *Store, onChange func(FilterState)) *Coordinator {
	return &Coordinator{
		state:    store.LoadOrDefault(ctx),
		store:    store,
		onChange: onChange,
	}
}

// State returns a copy of the current state.
func (c *Coordinator) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Chips returns the chips of the current state.
func (c *Coordinator) Chips() []Chip {
	return Chips(c.State())
}

func (c *Coordinator) update(ctx context.Context, mutate func(*FilterState) error) (FilterState, error) {
	c.mu.Lock()
	next := c.state.clone()
	if err := mutate(&next); err != nil {
		c.mu.Unlock()
		return c.State(), err
	}
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		return c.State(), err
	}
	next = normalize(next)
	c.state = next
	c.store.Save(ctx, next)
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(next.clone())
	}
	return next.clone(), nil
}

// SetDateStart sets the lower date bound ("" clears it).
func (c *Coordinator) SetDateStart(ctx context.Context, date string) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.DateRange.Start = date
		return nil
	})
}

// SetDateEnd sets the upper date bound ("" clears it).
func (c *Coordinator) SetDateEnd(ctx context.Context, date string) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.DateRange.End = date
		return nil
	})
}

// SetDateRange sets both bounds.
func (c *Coordinator) SetDateRange(ctx context.Context, start, end string) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.DateRange = DateRange{Start: start, End: end}
		return nil
	})
}

// ToggleAuthor adds or removes an author id.
func (c *Coordinator) ToggleAuthor(ctx context.Context, id string) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.Authors = toggle(s.Authors, id)
		return nil
	})
}

// ToggleCategory adds or removes a category slug.
func (c *Coordinator) ToggleCategory(ctx context.Context, slug string) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.Categories = toggle(s.Categories, slug)
		return nil
	})
}

// SetFeatured sets the featured flag.
func (c *Coordinator) SetFeatured(ctx context.Context, f Featured) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.Featured = f
		return nil
	})
}

// CycleFeatured moves the featured flag to its next value.
func (c *Coordinator) CycleFeatured(ctx context.Context) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.Featured = s.Featured.Next()
		return nil
	})
}

// SetSort sets the sort key.
func (c *Coordinator) SetSort(ctx context.Context, k SortKey) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.SortBy = k
		return nil
	})
}

// SetViewMode sets the view mode.
func (c *Coordinator) SetViewMode(ctx context.Context, m ViewMode) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		s.ViewMode = m
		return nil
	})
}

// RemoveChip resets the one dimension named by key.
func (c *Coordinator) RemoveChip(ctx context.Context, key string) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		next, err := RemoveChip(*s, key)
		if err != nil {
			return err
		}
		*s = next
		return nil
	})
}

// ClearAll restores Default().
func (c *Coordinator) ClearAll(ctx context.Context) (FilterState, error) {
	return c.update(ctx, func(s *FilterState) error {
		*s = Default()
		return nil
	})
}

func toggle(items []string, v string) []string {
	if i := slices.Index(items, v); i >= 0 {
		return slices.Delete(items, i, i+1)
	}
	return append(items, v)
}

// ActionType names a coordinator operation.
type ActionType string

const (
	ActionDateStart      ActionType = "dateStart"
	ActionDateEnd        ActionType = "dateEnd"
	ActionDateRange      ActionType = "dateRange"
	ActionToggleAuthor   ActionType = "toggleAuthor"
	ActionToggleCategory ActionType = "toggleCategory"
	ActionFeatured       ActionType = "featured"
	ActionCycleFeatured  ActionType = "cycleFeatured"
	ActionSort           ActionType = "sort"
	ActionView           ActionType = "view"
	ActionRemoveChip     ActionType = "removeChip"
	ActionClearAll       ActionType = "clearAll"
)

// ErrUnknownAction is returned by Apply for an unrecognised action type.
var ErrUnknownAction = errors.New("filters: unknown action")

// Action is a coordinator operation in transport form.
type Action struct {
	Type  ActionType `json:"type" form:"type"`
	Value string     `json:"value" form:"value"`
	Start string     `json:"start" form:"start"`
	End   string     `json:"end" form:"end"`
}

// Apply dispatches a to the matching operation.
func (c *Coordinator) Apply(ctx context.Context, a Action) (FilterState, error) {
	switch a.Type {
	case ActionDateStart:
		return c.SetDateStart(ctx, a.Value)
	case ActionDateEnd:
		return c.SetDateEnd(ctx, a.Value)
	case ActionDateRange:
		return c.SetDateRange(ctx, a.Start, a.End)
	case ActionToggleAuthor:
		if a.Value == "" {
			return c.State(), errors.New("toggleAuthor: value is required")
		}
		return c.ToggleAuthor(ctx, a.Value)
	case ActionToggleCategory:
		if a.Value == "" {
			return c.State(), errors.New("toggleCategory: value is required")
		}
		return c.ToggleCategory(ctx, a.Value)
	case ActionFeatured:
		f, err := ParseFeatured(a.Value)
		if err != nil {
			return c.State(), err
		}
		return c.SetFeatured(ctx, f)
	case ActionCycleFeatured:
		return c.CycleFeatured(ctx)
	case ActionSort:
		return c.SetSort(ctx, SortKey(a.Value))
	case ActionView:
		return c.SetViewMode(ctx, ViewMode(a.Value))
	case ActionRemoveChip:
		return c.RemoveChip(ctx, a.Value)
	case ActionClearAll:
		return c.ClearAll(ctx)
	}
	return c.State(), fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
}
