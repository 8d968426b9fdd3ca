package gridstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

func TestTranslate_StatusPrefixStripping(t *testing.T) {
	t.Parallel()

	out := gridstate.Translate(map[string]gridstate.FilterValue{
		gridstate.FilterStatus:  gridstate.Multiselect("contract-final", "negotiation-fixed"),
		gridstate.FilterVessels: gridstate.Multiselect("MV Atlas"),
	})

	assert.Equal(t, []string{"final", "fixed"}, out.Status)
	assert.Equal(t, []string{"MV Atlas"}, out.VesselNames)
}

func TestTranslate_StatusDuplicatesCoalesced(t *testing.T) {
	t.Parallel()

	out := gridstate.Translate(map[string]gridstate.FilterValue{
		gridstate.FilterStatus: gridstate.Multiselect("contract-final", "recap-final", "negotiation-draft"),
	})

	assert.Equal(t, []string{"final", "draft"}, out.Status)
}

func TestTranslate_UnknownPrefixKeptVerbatim(t *testing.T) {
	t.Parallel()

	out := gridstate.Translate(map[string]gridstate.FilterValue{
		gridstate.FilterStatus: gridstate.Multiselect("fully-signed"),
	})

	// "fully" is not an entity prefix, so nothing is stripped.
	assert.Equal(t, []string{"fully-signed"}, out.Status)
}

func TestTranslate_CreatedDateSingleDayExpandsToBoundaries(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)
	out := gridstate.Translate(map[string]gridstate.FilterValue{
		gridstate.FilterCreatedDate: gridstate.DateOn(day),
	})

	require.NotNil(t, out.DateRangeStart)
	require.NotNil(t, out.DateRangeEnd)
	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), *out.DateRangeStart)
	assert.Equal(t, 14, out.DateRangeEnd.Day())
	assert.Equal(t, 23, out.DateRangeEnd.Hour())
}

func TestTranslate_GenericBuckets(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	out := gridstate.Translate(map[string]gridstate.FilterValue{
		"cargoType":   gridstate.Multiselect("grain", "coal"),
		"laycan":      gridstate.DateRange(from, to),
		"freightRate": gridstate.NumberRange(10, 25),
		"quantity":    gridstate.Number(50000),
	})

	assert.Equal(t, []string{"grain", "coal"}, out.Multiselect["cargoType"])
	assert.Equal(t, gridstate.DateSpan{From: from, To: to}, out.DateRanges["laycan"])
	assert.Equal(t, gridstate.NumberSpan{Min: 10, Max: 25}, out.NumberRanges["freightRate"])
	// A single number becomes min=max=value.
	assert.Equal(t, gridstate.NumberSpan{Min: 50000, Max: 50000}, out.NumberRanges["quantity"])
}

func TestTranslate_UnrecognizedShapeDropped(t *testing.T) {
	t.Parallel()

	out := gridstate.Translate(map[string]gridstate.FilterValue{
		"broken": {Kind: gridstate.FilterKind("mystery")},
		// Non-multiselect value under a name-list id is dropped too.
		gridstate.FilterVessels: gridstate.Number(1),
	})

	assert.Empty(t, out.Multiselect)
	assert.Empty(t, out.DateRanges)
	assert.Empty(t, out.NumberRanges)
	assert.Empty(t, out.VesselNames)
}
