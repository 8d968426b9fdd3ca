package persistence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence/models"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

// filterValueDoc is the stored shape of a filter value. Dates are epoch
// milliseconds on disk and converted to time.Time on load.
type filterValueDoc struct {
	Kind    string   `json:"kind"`
	Options []string `json:"options,omitempty"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	FromMS  int64    `json:"fromMs,omitempty"`
	ToMS    int64    `json:"toMs,omitempty"`
}

type filtersDoc struct {
	ActiveFilters     map[string]filterValueDoc `json:"activeFilters,omitempty"`
	PinnedFilters     []string                  `json:"pinnedFilters,omitempty"`
	GlobalSearchTerms []string                  `json:"globalSearchTerms,omitempty"`
}

func encodeFilters(s gridstate.FiltersState) ([]byte, error) {
	doc := filtersDoc{
		PinnedFilters:     s.PinnedFilters,
		GlobalSearchTerms: s.GlobalSearchTerms,
	}
	if len(s.ActiveFilters) > 0 {
		doc.ActiveFilters = make(map[string]filterValueDoc, len(s.ActiveFilters))
		for id, v := range s.ActiveFilters {
			d := filterValueDoc{
				Kind:    string(v.Kind),
				Options: v.Options,
				Min:     v.Min,
				Max:     v.Max,
			}
			if !v.From.IsZero() {
				d.FromMS = v.From.UnixMilli()
			}
			if !v.To.IsZero() {
				d.ToMS = v.To.UnixMilli()
			}
			doc.ActiveFilters[id] = d
		}
	}
	return json.Marshal(doc)
}

func decodeFilters(raw []byte) (gridstate.FiltersState, error) {
	var doc filtersDoc
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return gridstate.FiltersState{}, err
		}
	}
	out := gridstate.FiltersState{
		PinnedFilters:     doc.PinnedFilters,
		GlobalSearchTerms: doc.GlobalSearchTerms,
	}
	if len(doc.ActiveFilters) > 0 {
		out.ActiveFilters = make(map[string]gridstate.FilterValue, len(doc.ActiveFilters))
		for id, d := range doc.ActiveFilters {
			v := gridstate.FilterValue{
				Kind:    gridstate.FilterKind(d.Kind),
				Options: d.Options,
				Min:     d.Min,
				Max:     d.Max,
			}
			if d.FromMS != 0 {
				v.From = time.UnixMilli(d.FromMS).UTC()
			}
			if d.ToMS != 0 {
				v.To = time.UnixMilli(d.ToMS).UTC()
			}
			out.ActiveFilters[id] = v
		}
	}
	return out, nil
}

func toDBBookmark(userID uuid.UUID, b gridstate.Bookmark) (*models.GridBookmark, error) {
	filters, err := encodeFilters(b.Filters)
	if err != nil {
		return nil, err
	}
	table, err := json.Marshal(b.Table)
	if err != nil {
		return nil, err
	}
	return &models.GridBookmark{
		ID:          b.ID.String(),
		UserID:      userID.String(),
		Name:        b.Name,
		IsDefault:   b.IsDefault,
		Filters:     filters,
		TableState:  table,
		CreatedAtMS: b.CreatedAt.UnixMilli(),
		UpdatedAtMS: b.UpdatedAt.UnixMilli(),
	}, nil
}

func toDomainBookmark(row *models.GridBookmark) (gridstate.Bookmark, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return gridstate.Bookmark{}, err
	}
	filters, err := decodeFilters(row.Filters)
	if err != nil {
		return gridstate.Bookmark{}, err
	}
	var table gridstate.TableState
	if len(row.TableState) > 0 {
		if err := json.Unmarshal(row.TableState, &table); err != nil {
			return gridstate.Bookmark{}, err
		}
	}
	return gridstate.Bookmark{
		ID:        id,
		Name:      row.Name,
		Type:      gridstate.BookmarkUser,
		IsDefault: row.IsDefault,
		CreatedAt: time.UnixMilli(row.CreatedAtMS).UTC(),
		UpdatedAt: time.UnixMilli(row.UpdatedAtMS).UTC(),
		Filters:   filters,
		Table:     table,
	}, nil
}
