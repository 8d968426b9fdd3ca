package gridstate

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PaginationUnit is the entity granularity one page of results counts
// against.
type PaginationUnit string

const (
	UnitFixture     PaginationUnit = "fixture"
	UnitNegotiation PaginationUnit = "negotiation"
	UnitContract    PaginationUnit = "contract"
)

// QueryRequest is the remote paginated fixture query derived from the
// current view state.
type QueryRequest struct {
	Unit        PaginationUnit `json:"paginationUnit"`
	Cursor      *string        `json:"cursor,omitempty"`
	Limit       int            `json:"limit"`
	Filters     ServerFilters  `json:"filters"`
	SearchTerms []string       `json:"searchTerms,omitempty"`
	SortField   string         `json:"sortField,omitempty"`
	SortDesc    bool           `json:"sortDirection"`
}

// SessionConfig wires one grid session.
type SessionConfig struct {
	Reconciler ReconcilerConfig
	PageSize   int
	// MinLoadingVisible guards against loading-flag flicker.
	MinLoadingVisible time.Duration
}

// Session composes the bookmark reconciler, the cursor bridge and the
// loading tracker into the view-state engine behind one grid. All access is
// serialized by a mutex: the engine models a single-threaded render loop.
type Session struct {
	mu         sync.Mutex
	reconciler *Reconciler
	cursor     *CursorBridge
	loading    *LoadingTracker
}

func NewSession(cfg SessionConfig) *Session {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	s := &Session{
		cursor:  NewCursorBridge(pageSize),
		loading: NewLoadingTracker(cfg.MinLoadingVisible, nil),
	}
	rc := cfg.Reconciler
	if rc.OnSelect == nil {
		rc.OnSelect = s.cursor.Reset
	}
	s.reconciler = NewReconciler(rc)
	return s
}

// Request derives the remote query for the current state. The query
// signature is observed on every call: whenever it changed since the last
// request the cursor history is discarded first.
func (s *Session) Request() QueryRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildRequest()
}

func (s *Session) buildRequest() QueryRequest {
	filters := s.reconciler.Filters()
	table := s.reconciler.Table()

	req := QueryRequest{
		Unit:        unitForGrouping(table.Grouping),
		Limit:       s.cursor.Pagination().PageSize,
		Filters:     Translate(filters.ActiveFilters),
		SearchTerms: filters.GlobalSearchTerms,
	}
	if len(table.Sorting) > 0 {
		req.SortField = table.Sorting[0].ColumnID
		req.SortDesc = table.Sorting[0].Desc
	}

	s.cursor.ObserveSignature(signature(req))
	req.Cursor = s.cursor.Current()
	return req
}

// ApplyPagination runs a pagination change through the cursor bridge and
// returns the query to issue; fetch is false when the change was a no-op
// (already on the last page).
func (s *Session) ApplyPagination(p Pagination) (QueryRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, fetch := s.cursor.Apply(p)
	return s.buildRequest(), fetch
}

// ObserveResponse records the server-reported next cursor for the page just
// fetched. Superseded responses simply overwrite; last write wins.
func (s *Session) ObserveResponse(nextCursor *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.SetNextCursor(nextCursor)
}

func (s *Session) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Pagination()
}

func (s *Session) Loading() *LoadingTracker {
	return s.loading
}

func (s *Session) Bookmarks() []Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Bookmarks()
}

func (s *Session) Active() (Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Active()
}

func (s *Session) Filters() FiltersState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Filters()
}

func (s *Session) Table() TableState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Table()
}

func (s *Session) SetFilters(f FiltersState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciler.SetFilters(f)
}

func (s *Session) SetTable(t TableState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciler.SetTable(t)
}

func (s *Session) Select(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Select(id)
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Dirty()
}

func (s *Session) Revert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciler.Revert()
}

func (s *Session) SaveNew(ctx context.Context, name string) (Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.SaveNew(ctx, name)
}

func (s *Session) SaveActive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.SaveActive(ctx)
}

func (s *Session) Rename(ctx context.Context, id uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Rename(ctx, id, name)
}

func (s *Session) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Delete(ctx, id)
}

func (s *Session) SetDefault(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.SetDefault(ctx, id)
}

// Close tears the session down; pending loading timers are cancelled.
func (s *Session) Close() {
	s.loading.Close()
}

// unitForGrouping maps the grouping columns onto the pagination unit the
// backend counts pages against.
func unitForGrouping(grouping []string) PaginationUnit {
	for _, g := range grouping {
		switch g {
		case "fixture":
			return UnitFixture
		case "negotiation":
			return UnitNegotiation
		}
	}
	return UnitContract
}

// signature is a stable fingerprint of everything that invalidates cursors:
// server filters, search terms, pagination unit and sort. JSON keeps map
// keys sorted, so equal states produce equal strings.
func signature(req QueryRequest) string {
	probe := struct {
		Unit        PaginationUnit `json:"unit"`
		Filters     ServerFilters  `json:"filters"`
		SearchTerms []string       `json:"searchTerms"`
		SortField   string         `json:"sortField"`
		SortDesc    bool           `json:"sortDesc"`
	}{req.Unit, req.Filters, req.SearchTerms, req.SortField, req.SortDesc}
	raw, err := json.Marshal(probe)
	if err != nil {
		return ""
	}
	return string(raw)
}
