package gridstate

import (
	"strings"
	"time"
)

// Well-known filter ids handled outside the generic buckets.
const (
	FilterStatus      = "status"
	FilterVessels     = "vessels"
	FilterOwners      = "owners"
	FilterCharterers  = "charterers"
	FilterCreatedDate = "createdDate"
)

// statusPrefixes are the entity-type prefixes carried by combined status
// options ("contract-final", "negotiation-fixed"). The server takes bare
// status names.
var statusPrefixes = map[string]struct{}{
	"fixture":     {},
	"order":       {},
	"negotiation": {},
	"contract":    {},
	"recap":       {},
}

// DateSpan is an inclusive date interval.
type DateSpan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NumberSpan is an inclusive numeric interval.
type NumberSpan struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ServerFilters is the active-filter map translated into the shape the
// paginated fixture query expects.
type ServerFilters struct {
	Status         []string              `json:"status,omitempty"`
	VesselNames    []string              `json:"vesselNames,omitempty"`
	OwnerNames     []string              `json:"ownerNames,omitempty"`
	ChartererNames []string              `json:"chartererNames,omitempty"`
	DateRangeStart *time.Time            `json:"dateRangeStart,omitempty"`
	DateRangeEnd   *time.Time            `json:"dateRangeEnd,omitempty"`
	Multiselect    map[string][]string   `json:"multiselectFilters,omitempty"`
	DateRanges     map[string]DateSpan   `json:"dateRangeFilters,omitempty"`
	NumberRanges   map[string]NumberSpan `json:"numberRangeFilters,omitempty"`
}

// Translate buckets every active filter into exactly one slot of the server
// payload. Unrecognized kinds are dropped: this is presentation glue, not a
// correctness-critical path.
func Translate(active map[string]FilterValue) ServerFilters {
	out := ServerFilters{}
	for id, value := range active {
		switch id {
		case FilterStatus:
			if value.Kind == KindMultiselect {
				out.Status = stripStatusPrefixes(value.Options)
			}
		case FilterVessels:
			if value.Kind == KindMultiselect {
				out.VesselNames = append([]string(nil), value.Options...)
			}
		case FilterOwners:
			if value.Kind == KindMultiselect {
				out.OwnerNames = append([]string(nil), value.Options...)
			}
		case FilterCharterers:
			if value.Kind == KindMultiselect {
				out.ChartererNames = append([]string(nil), value.Options...)
			}
		case FilterCreatedDate:
			if span, ok := dateSpanOf(value); ok {
				from, to := span.From, span.To
				out.DateRangeStart = &from
				out.DateRangeEnd = &to
			}
		default:
			switch value.Kind {
			case KindMultiselect:
				if out.Multiselect == nil {
					out.Multiselect = make(map[string][]string)
				}
				out.Multiselect[id] = append([]string(nil), value.Options...)
			case KindDate, KindDateRange:
				if span, ok := dateSpanOf(value); ok {
					if out.DateRanges == nil {
						out.DateRanges = make(map[string]DateSpan)
					}
					out.DateRanges[id] = span
				}
			case KindNumber, KindNumberRange:
				if out.NumberRanges == nil {
					out.NumberRanges = make(map[string]NumberSpan)
				}
				out.NumberRanges[id] = NumberSpan{Min: value.Min, Max: value.Max}
			}
		}
	}
	return out
}

// stripStatusPrefixes removes entity-type prefixes and coalesces duplicates
// across prefixes, keeping the order of first occurrence.
func stripStatusPrefixes(options []string) []string {
	out := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		status := opt
		if prefix, rest, ok := strings.Cut(opt, "-"); ok {
			if _, known := statusPrefixes[prefix]; known {
				status = rest
			}
		}
		if _, dup := seen[status]; dup {
			continue
		}
		seen[status] = struct{}{}
		out = append(out, status)
	}
	return out
}

// dateSpanOf expands a single date to its day boundaries and passes a range
// through untouched.
func dateSpanOf(value FilterValue) (DateSpan, bool) {
	switch value.Kind {
	case KindDate:
		return DateSpan{From: startOfDay(value.From), To: endOfDay(value.From)}, true
	case KindDateRange:
		return DateSpan{From: value.From, To: value.To}, true
	default:
		return DateSpan{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
