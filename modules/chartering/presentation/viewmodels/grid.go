package viewmodels

import (
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

// GridStateView is the full view-state snapshot a client renders from.
type GridStateView struct {
	Bookmarks  []gridstate.Bookmark   `json:"bookmarks"`
	ActiveID   string                 `json:"activeId,omitempty"`
	Filters    gridstate.FiltersState `json:"filtersState"`
	Table      gridstate.TableState   `json:"tableState"`
	Pagination gridstate.Pagination   `json:"pagination"`
	Dirty      bool                   `json:"dirty"`
	Loading    bool                   `json:"loading"`
}

// PageView is one fetched page of rows plus pagination bookkeeping.
type PageView struct {
	Rows                 []FixtureRow           `json:"rows"`
	NextCursor           *string                `json:"nextCursor,omitempty"`
	TotalCount           int64                  `json:"totalCount"`
	UnfilteredTotalCount int64                  `json:"unfilteredTotalCount"`
	Query                gridstate.QueryRequest `json:"query"`
}
