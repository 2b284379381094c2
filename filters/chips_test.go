package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chipKeys(chips []Chip) []string {
	keys := make([]string, 0, len(chips))
	for _, c := range chips {
		keys = append(keys, c.Key)
	}
	return keys
}

func TestChipsExistOnlyForChangedDimensions(t *testing.T) {
	tests := []struct {
		name  string
		state FilterState
		want  []string
	}{
		{"default", Default(), []string{}},
		{"authors", FilterState{Authors: []string{"ada", "chen"}, SortBy: SortNewest, ViewMode: ViewGrid},
			[]string{"author:ada", "author:chen"}},
		{"categories", FilterState{Categories: []string{"design"}, SortBy: SortNewest, ViewMode: ViewGrid},
			[]string{"category:design"}},
		{"open range", FilterState{DateRange: DateRange{Start: "2024-01-01"}, SortBy: SortNewest, ViewMode: ViewGrid},
			[]string{"dateRange"}},
		{"featured false", FilterState{Featured: FeaturedExcluded, SortBy: SortNewest, ViewMode: ViewGrid},
			[]string{"featured"}},
		{"sort and view", FilterState{SortBy: SortOldest, ViewMode: ViewList},
			[]string{"sort", "view"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, chipKeys(Chips(tt.state)))
		})
	}
}

func TestChipLabels(t *testing.T) {
	chips := Chips(FilterState{
		DateRange: DateRange{End: "2024-06-30"},
		Featured:  FeaturedOnly,
		SortBy:    SortPopular,
		ViewMode:  ViewGrid,
	})
	require.Len(t, chips, 3)
	assert.Equal(t, "Until 2024-06-30", chips[0].Label)
	assert.Equal(t, "Featured only", chips[1].Label)
	assert.Equal(t, "Sort: Popular", chips[2].Label)
}

func TestRemoveChipTouchesOneDimension(t *testing.T) {
	full := FilterState{
		DateRange:  DateRange{Start: "2024-01-01", End: "2024-12-31"},
		Authors:    []string{"ada", "bruno"},
		Categories: []string{"design", "devops"},
		Featured:   FeaturedOnly,
		SortBy:     SortTitle,
		ViewMode:   ViewList,
	}

	for _, chip := range Chips(full) {
		t.Run(chip.Key, func(t *testing.T) {
			next, err := RemoveChip(full, chip.Key)
			require.NoError(t, err)
			assert.NotContains(t, chipKeys(Chips(next)), chip.Key)
			assert.Len(t, Chips(next), len(Chips(full))-1)
		})
	}

	_, err := RemoveChip(full, "colour")
	assert.ErrorIs(t, err, ErrUnknownChip)
	assert.Equal(t, []string{"ada", "bruno"}, full.Authors, "input is not mutated")
}

func TestRemovingEveryChipYieldsDefault(t *testing.T) {
	s := FilterState{
		DateRange:  DateRange{Start: "2024-01-01"},
		Authors:    []string{"ada"},
		Categories: []string{"devops"},
		Featured:   FeaturedExcluded,
		SortBy:     SortOldest,
		ViewMode:   ViewList,
	}
	for _, chip := range Chips(s) {
		var err error
		s, err = RemoveChip(s, chip.Key)
		require.NoError(t, err)
	}
	assert.True(t, s.IsDefault())
}
