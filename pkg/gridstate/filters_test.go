package gridstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

func TestFilterValue_EqualIsKindSensitive(t *testing.T) {
	t.Parallel()

	// min=max=42 either way, but the discriminant differs.
	assert.False(t, gridstate.Number(42).Equal(gridstate.NumberRange(42, 42)))
	assert.True(t, gridstate.Number(42).Equal(gridstate.Number(42)))
}

func TestFilterValue_EqualIsOrderSensitiveForOptions(t *testing.T) {
	t.Parallel()

	a := gridstate.Multiselect("grain", "coal")
	b := gridstate.Multiselect("coal", "grain")
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(gridstate.Multiselect("grain", "coal")))
}

func TestFilterValue_EqualComparesWallClock(t *testing.T) {
	t.Parallel()

	utc := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	shifted := utc.In(time.FixedZone("UTC+4", 4*3600))
	assert.True(t, gridstate.DateOn(utc).Equal(gridstate.DateOn(shifted)))
}

func TestFiltersState_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := gridstate.FiltersState{
		ActiveFilters: map[string]gridstate.FilterValue{
			"cargoType": gridstate.Multiselect("grain"),
		},
		PinnedFilters:     []string{"cargoType"},
		GlobalSearchTerms: []string{"atlas"},
	}
	clone := orig.Clone()
	clone.ActiveFilters["cargoType"] = gridstate.Multiselect("coal")
	clone.PinnedFilters[0] = "status"

	assert.Equal(t, []string{"grain"}, orig.ActiveFilters["cargoType"].Options)
	assert.Equal(t, "cargoType", orig.PinnedFilters[0])
}
