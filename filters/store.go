package filters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// EntryName is the name of the persisted entry in every slot.
const EntryName = "pressfront_filters"

// Version is the envelope version written by Save.
const Version = 2

// ErrEmpty is returned by Slot.Read when nothing has been stored.
var ErrEmpty = errors.New("filters: slot is empty")

// Slot is a durable place for one serialized entry.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Remove(ctx context.Context) error
}

// Store persists FilterState in a Slot. A Store with a nil slot does nothing.
type Store struct {
	slot   Slot
	logger *slog.Logger
}

// NewStore wraps slot. A nil slot is allowed.
func NewStore(slot Slot, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{slot: slot, logger: logger}
}

// Available reports whether the store has somewhere to write.
func (s *Store) Available() bool {
	return s != nil && s.slot != nil
}

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Save writes state inside a versioned envelope. Invalid states and slot
// failures are logged and dropped.
func (s *Store) Save(ctx context.Context, state FilterState) {
	if !s.Available() {
		return
	}
	data, err := Encode(state)
	if err != nil {
		s.logger.Warn("filter state not saved", "error", err)
		return
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.logger.Warn("filter slot write failed", "error", err)
	}
}

// Load returns the stored state or nil when nothing usable is stored.
func (s *Store) Load(ctx context.Context) *FilterState {
	if !s.Available() {
		return nil
	}
	data, err := s.slot.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrEmpty) {
			s.logger.Warn("filter slot read failed", "error", err)
		}
		return nil
	}
	state, err := Decode(data)
	if err != nil {
		s.logger.Debug("discarding stored filter state", "error", err)
		return nil
	}
	return &state
}

// LoadOrDefault is Load with Default() substituted for nil.
func (s *Store) LoadOrDefault(ctx context.Context) FilterState {
	if st := s.Load(ctx); st != nil {
		return *st
	}
	return Default()
}

// Clear removes the stored entry.
func (s *Store) Clear(ctx context.Context) {
	if !s.Available() {
		return
	}
	if err := s.slot.Remove(ctx); err != nil {
		s.logger.Warn("filter slot remove failed", "error", err)
	}
}

// Encode serializes state as a current-version envelope.
func Encode(state FilterState) ([]byte, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: Version, State: raw})
}

// Decode parses an envelope, or a bare version 1 object, and validates it.
func Decode(data []byte) (FilterState, error) {
	fields, err := object(data)
	if err != nil {
		return FilterState{}, err
	}
	if _, ok := fields["version"]; !ok {
		return decodeV1(data)
	}
	if err := exactKeys(fields, "version", "state"); err != nil {
		return FilterState{}, err
	}
	var version int
	if err := json.Unmarshal(fields["version"], &version); err != nil {
		return FilterState{}, fmt.Errorf("version: %w", err)
	}
	switch version {
	case 1:
		return decodeV1(fields["state"])
	case Version:
		return decodeV2(fields["state"])
	}
	return FilterState{}, fmt.Errorf("unsupported filter state version %d", version)
}

var stateKeys = []string{"dateRange", "authors", "categories", "featured", "sortBy", "viewMode"}

func decodeV2(data []byte) (FilterState, error) {
	var s FilterState
	if err := strict(data, &s, stateKeys); err != nil {
		return FilterState{}, err
	}
	if err := s.Validate(); err != nil {
		return FilterState{}, err
	}
	return normalize(s), nil
}

// legacyState is the unversioned shape, where category slugs lived under
// "tags".
type legacyState struct {
	DateRange DateRange `json:"dateRange"`
	Authors   []string  `json:"authors"`
	Tags      []string  `json:"tags"`
	Featured  Featured  `json:"featured"`
	SortBy    SortKey   `json:"sortBy"`
	ViewMode  ViewMode  `json:"viewMode"`
}

var legacyKeys = []string{"dateRange", "authors", "tags", "featured", "sortBy", "viewMode"}

func decodeV1(data []byte) (FilterState, error) {
	var l legacyState
	if err := strict(data, &l, legacyKeys); err != nil {
		return FilterState{}, err
	}
	s := FilterState{
		DateRange:  l.DateRange,
		Authors:    l.Authors,
		Categories: l.Tags,
		Featured:   l.Featured,
		SortBy:     l.SortBy,
		ViewMode:   l.ViewMode,
	}
	if err := s.Validate(); err != nil {
		return FilterState{}, err
	}
	return normalize(s), nil
}

// strict requires exactly keys at the top level and in dateRange, rejects
// nulls everywhere except featured, and decodes into v.
func strict(data []byte, v any, keys []string) error {
	fields, err := object(data)
	if err != nil {
		return err
	}
	if err := exactKeys(fields, keys...); err != nil {
		return err
	}
	for k, raw := range fields {
		if k != "featured" && isNull(raw) {
			return fmt.Errorf("%s: must not be null", k)
		}
	}
	dr, err := object(fields["dateRange"])
	if err != nil {
		return fmt.Errorf("dateRange: %w", err)
	}
	if err := exactKeys(dr, "start", "end"); err != nil {
		return fmt.Errorf("dateRange: %w", err)
	}
	for k, raw := range dr {
		if isNull(raw) {
			return fmt.Errorf("dateRange.%s: must not be null", k)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after filter state")
	}
	return nil
}

func object(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("expected a JSON object")
	}
	return fields, nil
}

func exactKeys(fields map[string]json.RawMessage, keys ...string) error {
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return fmt.Errorf("missing field %q", k)
		}
	}
	if len(fields) != len(keys) {
		return fmt.Errorf("unexpected fields: want %d, got %d", len(keys), len(fields))
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func normalize(s FilterState) FilterState {
	if len(s.Authors) == 0 {
		s.Authors = nil
	}
	if len(s.Categories) == 0 {
		s.Categories = nil
	}
	return s
}
