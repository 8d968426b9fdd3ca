package gridstate

import (
	"github.com/sirupsen/logrus"
)

// FilterVariant is the user-facing control type of a derived filter.
type FilterVariant string

const (
	VariantMultiselect FilterVariant = "multiselect"
	VariantSelect      FilterVariant = "select"
	VariantNumber      FilterVariant = "number"
	VariantDate        FilterVariant = "date"
)

// Option is one selectable facet value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ColumnDef is a grid column definition annotated with optional filter
// metadata. Columns without Filterable never yield a filter control.
type ColumnDef struct {
	ID         string
	Label      string
	Filterable bool
	Variant    FilterVariant
	Group      string
	RangeMode  bool
	Options    []Option
}

// FilterDescriptor is a user-facing filter control derived from a column.
type FilterDescriptor struct {
	ID        string        `json:"id"`
	Label     string        `json:"label"`
	Variant   FilterVariant `json:"variant"`
	Group     string        `json:"group,omitempty"`
	RangeMode bool          `json:"rangeMode,omitempty"`
	Options   []Option      `json:"options,omitempty"`
}

// DeriveFilters maps column definitions onto filter descriptors without
// duplicating the definitions. Options come from static column metadata
// first, then from the dynamic per-id map; the dynamic map is computed
// against the unfiltered set so facet menus never shrink under active
// filters. Two columns sharing a filter id is a defect: the last one wins
// and a warning is logged.
func DeriveFilters(log logrus.FieldLogger, columns []ColumnDef, dynamicOptions map[string][]Option) []FilterDescriptor {
	out := make([]FilterDescriptor, 0, len(columns))
	index := make(map[string]int, len(columns))
	for _, col := range columns {
		if !col.Filterable {
			continue
		}
		d := FilterDescriptor{
			ID:        col.ID,
			Label:     col.Label,
			Variant:   col.Variant,
			Group:     col.Group,
			RangeMode: col.RangeMode,
			Options:   col.Options,
		}
		if len(d.Options) == 0 {
			if opts, ok := dynamicOptions[col.ID]; ok {
				d.Options = opts
			}
		}
		if at, dup := index[col.ID]; dup {
			if log != nil {
				log.WithField("filter-id", col.ID).Warn("duplicate filter id in column definitions, last wins")
			}
			out[at] = d
			continue
		}
		index[col.ID] = len(out)
		out = append(out, d)
	}
	return out
}
