package gridstate_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

func TestDeriveFilters_SkipsNonFilterableColumns(t *testing.T) {
	t.Parallel()

	out := gridstate.DeriveFilters(nil, []gridstate.ColumnDef{
		{ID: "vessel", Label: "Vessel", Filterable: true, Variant: gridstate.VariantMultiselect},
		{ID: "remarks", Label: "Remarks"},
	}, nil)

	require.Len(t, out, 1)
	assert.Equal(t, "vessel", out[0].ID)
}

func TestDeriveFilters_StaticOptionsWinOverDynamic(t *testing.T) {
	t.Parallel()

	static := []gridstate.Option{{Value: "grain", Label: "Grain"}}
	dynamic := map[string][]gridstate.Option{
		"cargoType": {{Value: "coal", Label: "Coal"}},
		"loadPort":  {{Value: "santos", Label: "Santos"}},
	}
	out := gridstate.DeriveFilters(nil, []gridstate.ColumnDef{
		{ID: "cargoType", Label: "Cargo", Filterable: true, Variant: gridstate.VariantMultiselect, Options: static},
		{ID: "loadPort", Label: "Load Port", Filterable: true, Variant: gridstate.VariantMultiselect},
	}, dynamic)

	require.Len(t, out, 2)
	assert.Equal(t, static, out[0].Options)
	assert.Equal(t, dynamic["loadPort"], out[1].Options)
}

func TestDeriveFilters_DuplicateIDLastWins(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	out := gridstate.DeriveFilters(log, []gridstate.ColumnDef{
		{ID: "laycan", Label: "Laycan (old)", Filterable: true, Variant: gridstate.VariantDate},
		{ID: "laycan", Label: "Laycan", Filterable: true, Variant: gridstate.VariantDate, RangeMode: true},
	}, nil)

	require.Len(t, out, 1)
	assert.Equal(t, "Laycan", out[0].Label)
	assert.True(t, out[0].RangeMode)
}
