package controllers

import (
	"net/http"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
	"github.com/lemu/seamless-sea-sub000/pkg/httpapi"
)

// fixtureColumns is the static column catalog of the fixtures grid. Facet
// options are attached dynamically from the unfiltered set.
func fixtureColumns() []gridstate.ColumnDef {
	return []gridstate.ColumnDef{
		{ID: "orderReference", Label: "Order"},
		{ID: "status", Label: "Status", Filterable: true, Variant: gridstate.VariantMultiselect, Group: "Deal"},
		{ID: "vessels", Label: "Vessel", Filterable: true, Variant: gridstate.VariantMultiselect, Group: "Parties"},
		{ID: "owners", Label: "Owner", Filterable: true, Variant: gridstate.VariantMultiselect, Group: "Parties"},
		{ID: "charterers", Label: "Charterer", Filterable: true, Variant: gridstate.VariantMultiselect, Group: "Parties"},
		{ID: "cargoType", Label: "Cargo", Filterable: true, Variant: gridstate.VariantMultiselect, Group: "Cargo"},
		{ID: "loadPort", Label: "Load port", Filterable: true, Variant: gridstate.VariantMultiselect, Group: "Voyage"},
		{ID: "dischargePort", Label: "Discharge port", Filterable: true, Variant: gridstate.VariantMultiselect, Group: "Voyage"},
		{ID: "laycan", Label: "Laycan", Filterable: true, Variant: gridstate.VariantDate, RangeMode: true, Group: "Voyage"},
		{ID: "createdDate", Label: "Created", Filterable: true, Variant: gridstate.VariantDate, RangeMode: true, Group: "Deal"},
		{ID: "freightRate", Label: "Freight", Filterable: true, Variant: gridstate.VariantNumber, RangeMode: true, Group: "Rates"},
		{ID: "demurrageRate", Label: "Demurrage", Filterable: true, Variant: gridstate.VariantNumber, RangeMode: true, Group: "Rates"},
		{ID: "cargoQuantity", Label: "Qty (MT)", Filterable: true, Variant: gridstate.VariantNumber, RangeMode: true, Group: "Cargo"},
		{ID: "freightSavingsPct", Label: "Freight savings %"},
		{ID: "approvalStatus", Label: "Approval"},
		{ID: "signatureStatus", Label: "Signature"},
	}
}

func toOptions(values []string) []gridstate.Option {
	out := make([]gridstate.Option, 0, len(values))
	for _, v := range values {
		out = append(out, gridstate.Option{Value: v, Label: v})
	}
	return out
}

// Columns serves the column catalog and the filter controls derived from it.
func (c *GridController) Columns(w http.ResponseWriter, r *http.Request) {
	orgID, err := composables.UseOrganizationID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var dynamic map[string][]gridstate.Option
	options, err := c.facets.Facets(r.Context(), orgID)
	if err != nil {
		// Facet source down: descriptors still render, menus arrive empty.
		composables.UseLogger(r.Context()).WithError(err).Warn("facet options unavailable")
		options = fixture.FacetOptions{}
	}
	dynamic = map[string][]gridstate.Option{
		"status":        toOptions(options.Statuses),
		"vessels":       toOptions(options.VesselNames),
		"owners":        toOptions(options.OwnerNames),
		"charterers":    toOptions(options.ChartererNames),
		"cargoType":     toOptions(options.CargoTypes),
		"loadPort":      toOptions(options.LoadPorts),
		"dischargePort": toOptions(options.DischargePorts),
	}

	columns := fixtureColumns()
	filters := gridstate.DeriveFilters(composables.UseLogger(r.Context()), columns, dynamic)
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"columns": columns,
		"filters": filters,
	})
}
