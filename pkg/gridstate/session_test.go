package gridstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

func newTestSession(bookmarks ...gridstate.Bookmark) *gridstate.Session {
	var system, user []gridstate.Bookmark
	for _, b := range bookmarks {
		if b.Type == gridstate.BookmarkSystem {
			system = append(system, b)
		} else {
			user = append(user, b)
		}
	}
	return gridstate.NewSession(gridstate.SessionConfig{
		Reconciler: gridstate.ReconcilerConfig{
			Store:           &fakeStore{},
			SystemBookmarks: system,
			UserBookmarks:   user,
		},
		PageSize: 25,
	})
}

func TestSession_RequestReflectsLiveState(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	defer s.Close()

	s.SetFilters(gridstate.FiltersState{
		ActiveFilters: map[string]gridstate.FilterValue{
			gridstate.FilterStatus: gridstate.Multiselect("contract-final"),
		},
		GlobalSearchTerms: []string{"atlas"},
	})
	s.SetTable(gridstate.TableState{
		Sorting:  []gridstate.SortRule{{ColumnID: "laycanFrom", Desc: true}},
		Grouping: []string{"fixture"},
	})

	req := s.Request()
	assert.Equal(t, gridstate.UnitFixture, req.Unit)
	assert.Equal(t, []string{"final"}, req.Filters.Status)
	assert.Equal(t, []string{"atlas"}, req.SearchTerms)
	assert.Equal(t, "laycanFrom", req.SortField)
	assert.True(t, req.SortDesc)
	assert.Equal(t, 25, req.Limit)
	assert.Nil(t, req.Cursor)
}

func TestSession_FilterChangeResetsCursor(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	defer s.Close()

	_ = s.Request()
	s.ObserveResponse(strptr("c1"))
	req, fetch := s.ApplyPagination(gridstate.Pagination{PageIndex: 1, PageSize: 25})
	require.True(t, fetch)
	require.NotNil(t, req.Cursor)

	// Changing a filter invalidates the cursor stack on the next request.
	s.SetFilters(gridstate.FiltersState{
		ActiveFilters: map[string]gridstate.FilterValue{
			gridstate.FilterVessels: gridstate.Multiselect("MV Atlas"),
		},
	})
	req = s.Request()
	assert.Nil(t, req.Cursor)
	assert.Equal(t, 0, s.Pagination().PageIndex)
}

func TestSession_SelectBookmarkResetsPagination(t *testing.T) {
	t.Parallel()

	b := userBookmark("grain deals")
	s := newTestSession(systemBookmark("All fixtures"), b)
	defer s.Close()

	_ = s.Request()
	s.ObserveResponse(strptr("c1"))
	_, fetch := s.ApplyPagination(gridstate.Pagination{PageIndex: 1, PageSize: 25})
	require.True(t, fetch)

	require.True(t, s.Select(b.ID))
	assert.Equal(t, 0, s.Pagination().PageIndex)
	assert.False(t, s.Dirty())
}

func TestSession_GroupingImpliesPaginationUnit(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	defer s.Close()

	assert.Equal(t, gridstate.UnitContract, s.Request().Unit)

	s.SetTable(gridstate.TableState{Grouping: []string{"negotiation"}})
	assert.Equal(t, gridstate.UnitNegotiation, s.Request().Unit)

	s.SetTable(gridstate.TableState{Grouping: []string{"fixture"}})
	assert.Equal(t, gridstate.UnitFixture, s.Request().Unit)
}
