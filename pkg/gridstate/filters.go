package gridstate

import (
	"time"
)

// FilterKind is the explicit discriminant of a FilterValue. Values are
// classified once, at construction, never by inspecting their shape.
type FilterKind string

const (
	KindMultiselect FilterKind = "multiselect"
	KindNumber      FilterKind = "number"
	KindNumberRange FilterKind = "numberRange"
	KindDate        FilterKind = "date"
	KindDateRange   FilterKind = "dateRange"
)

// FilterValue is a tagged variant: exactly one of the payload groups is
// meaningful, selected by Kind.
type FilterValue struct {
	Kind    FilterKind `json:"kind"`
	Options []string   `json:"options,omitempty"`
	Min     float64    `json:"min,omitempty"`
	Max     float64    `json:"max,omitempty"`
	From    time.Time  `json:"from,omitempty"`
	To      time.Time  `json:"to,omitempty"`
}

func Multiselect(options ...string) FilterValue {
	return FilterValue{Kind: KindMultiselect, Options: options}
}

func Number(v float64) FilterValue {
	return FilterValue{Kind: KindNumber, Min: v, Max: v}
}

func NumberRange(min, max float64) FilterValue {
	return FilterValue{Kind: KindNumberRange, Min: min, Max: max}
}

func DateOn(d time.Time) FilterValue {
	return FilterValue{Kind: KindDate, From: d, To: d}
}

func DateRange(from, to time.Time) FilterValue {
	return FilterValue{Kind: KindDateRange, From: from, To: to}
}

// Equal is kind-sensitive, order-sensitive for option slices and
// wall-clock based for dates.
func (v FilterValue) Equal(other FilterValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	if len(v.Options) != len(other.Options) {
		return false
	}
	for i := range v.Options {
		if v.Options[i] != other.Options[i] {
			return false
		}
	}
	return v.Min == other.Min &&
		v.Max == other.Max &&
		v.From.Equal(other.From) &&
		v.To.Equal(other.To)
}

func (v FilterValue) Clone() FilterValue {
	out := v
	if v.Options != nil {
		out.Options = append([]string(nil), v.Options...)
	}
	return out
}

// FiltersState is the filter slice of a grid view snapshot.
type FiltersState struct {
	ActiveFilters     map[string]FilterValue `json:"activeFilters"`
	PinnedFilters     []string               `json:"pinnedFilters"`
	GlobalSearchTerms []string               `json:"globalSearchTerms"`
}

func (s FiltersState) Clone() FiltersState {
	out := FiltersState{}
	if s.ActiveFilters != nil {
		out.ActiveFilters = make(map[string]FilterValue, len(s.ActiveFilters))
		for id, v := range s.ActiveFilters {
			out.ActiveFilters[id] = v.Clone()
		}
	}
	if s.PinnedFilters != nil {
		out.PinnedFilters = append([]string(nil), s.PinnedFilters...)
	}
	if s.GlobalSearchTerms != nil {
		out.GlobalSearchTerms = append([]string(nil), s.GlobalSearchTerms...)
	}
	return out
}

// SortRule is one entry of a multi-column sort.
type SortRule struct {
	ColumnID string `json:"id"`
	Desc     bool   `json:"desc"`
}

// TableState is the table slice of a grid view snapshot.
type TableState struct {
	Sorting          []SortRule         `json:"sorting"`
	ColumnVisibility map[string]bool    `json:"columnVisibility"`
	Grouping         []string           `json:"grouping"`
	ColumnOrder      []string           `json:"columnOrder"`
	ColumnSizing     map[string]float64 `json:"columnSizing"`
}

func (s TableState) Clone() TableState {
	out := TableState{}
	if s.Sorting != nil {
		out.Sorting = append([]SortRule(nil), s.Sorting...)
	}
	if s.ColumnVisibility != nil {
		out.ColumnVisibility = make(map[string]bool, len(s.ColumnVisibility))
		for k, v := range s.ColumnVisibility {
			out.ColumnVisibility[k] = v
		}
	}
	if s.Grouping != nil {
		out.Grouping = append([]string(nil), s.Grouping...)
	}
	if s.ColumnOrder != nil {
		out.ColumnOrder = append([]string(nil), s.ColumnOrder...)
	}
	if s.ColumnSizing != nil {
		out.ColumnSizing = make(map[string]float64, len(s.ColumnSizing))
		for k, v := range s.ColumnSizing {
			out.ColumnSizing[k] = v
		}
	}
	return out
}
