package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/viewmodels"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/services"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
	"github.com/lemu/seamless-sea-sub000/pkg/httpapi"
)

// The loading flag name for remote fixture fetches.
const loadingFetch = "fetch"

type GridController struct {
	app      application.Application
	sessions *services.GridSessionService
	queries  *services.FixtureQueryService
	facets   *services.FacetService
	basePath string
}

func NewGridController(app application.Application) application.Controller {
	return &GridController{
		app:      app,
		sessions: app.Service(services.GridSessionService{}).(*services.GridSessionService),
		queries:  app.Service(services.FixtureQueryService{}).(*services.FixtureQueryService),
		facets:   app.Service(services.FacetService{}).(*services.FacetService),
		basePath: "/api/grid",
	}
}

func (c *GridController) Key() string {
	return c.basePath
}

func (c *GridController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/state", c.State).Methods(http.MethodGet)
	router.HandleFunc("/columns", c.Columns).Methods(http.MethodGet)
	router.HandleFunc("/query", c.Query).Methods(http.MethodPost)
	router.HandleFunc("/pagination", c.Pagination).Methods(http.MethodPost)
	router.HandleFunc("/filters", c.SetFilters).Methods(http.MethodPut)
	router.HandleFunc("/table", c.SetTable).Methods(http.MethodPut)
	router.HandleFunc("/revert", c.Revert).Methods(http.MethodPost)

	router.HandleFunc("/bookmarks", c.SaveNew).Methods(http.MethodPost)
	router.HandleFunc("/bookmarks/active", c.SaveActive).Methods(http.MethodPut)
	router.HandleFunc("/bookmarks/{id}/select", c.Select).Methods(http.MethodPost)
	router.HandleFunc("/bookmarks/{id}/default", c.SetDefault).Methods(http.MethodPost)
	router.HandleFunc("/bookmarks/{id}", c.Rename).Methods(http.MethodPatch)
	router.HandleFunc("/bookmarks/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *GridController) session(w http.ResponseWriter, r *http.Request) (*gridstate.Session, uuid.UUID, bool) {
	userID, err := composables.UseUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return nil, uuid.Nil, false
	}
	orgID, err := composables.UseOrganizationID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return nil, uuid.Nil, false
	}
	session, err := c.sessions.Session(r.Context(), userID, orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, uuid.Nil, false
	}
	return session, orgID, true
}

func (c *GridController) stateView(session *gridstate.Session) viewmodels.GridStateView {
	view := viewmodels.GridStateView{
		Bookmarks:  session.Bookmarks(),
		Filters:    session.Filters(),
		Table:      session.Table(),
		Pagination: session.Pagination(),
		Dirty:      session.Dirty(),
		Loading:    session.Loading().Loading(),
	}
	if active, ok := session.Active(); ok {
		view.ActiveID = active.ID.String()
	}
	return view
}

func (c *GridController) State(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

// Query derives the remote request from the current view state, executes it
// and feeds the next cursor back into the bridge.
func (c *GridController) Query(w http.ResponseWriter, r *http.Request) {
	session, orgID, ok := c.session(w, r)
	if !ok {
		return
	}

	req := session.Request()
	c.fetch(w, r, session, orgID, req)
}

type paginationDTO struct {
	PageIndex int `json:"pageIndex" validate:"min=0"`
	PageSize  int `json:"pageSize" validate:"required,min=1,max=500"`
}

func (c *GridController) Pagination(w http.ResponseWriter, r *http.Request) {
	session, orgID, ok := c.session(w, r)
	if !ok {
		return
	}

	var dto paginationDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	req, fetch := session.ApplyPagination(gridstate.Pagination{
		PageIndex: dto.PageIndex,
		PageSize:  dto.PageSize,
	})
	if !fetch {
		// Already at the end; nothing to load.
		_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.PageView{Query: req})
		return
	}
	c.fetch(w, r, session, orgID, req)
}

func (c *GridController) fetch(w http.ResponseWriter, r *http.Request, session *gridstate.Session, orgID uuid.UUID, req gridstate.QueryRequest) {
	session.Loading().Begin(loadingFetch)
	defer session.Loading().End(loadingFetch)

	page, err := c.queries.Query(r.Context(), orgID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	session.ObserveResponse(page.NextCursor)

	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.PageView{
		Rows:                 page.Rows,
		NextCursor:           page.NextCursor,
		TotalCount:           page.TotalCount,
		UnfilteredTotalCount: page.UnfilteredTotalCount,
		Query:                req,
	})
}

func (c *GridController) SetFilters(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}

	var dto gridstate.FiltersState
	if !decodeJSON(w, r, &dto) {
		return
	}
	for id, v := range dto.ActiveFilters {
		switch v.Kind {
		case gridstate.KindMultiselect, gridstate.KindNumber, gridstate.KindNumberRange,
			gridstate.KindDate, gridstate.KindDateRange:
		default:
			_ = httpapi.WriteValidationError(w, map[string]string{id: "unknown filter kind"})
			return
		}
	}

	session.SetFilters(dto)
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

func (c *GridController) SetTable(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}

	var dto gridstate.TableState
	if !decodeJSON(w, r, &dto) {
		return
	}
	session.SetTable(dto)
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

func (c *GridController) Revert(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}
	session.Revert()
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

type saveBookmarkDTO struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

func (c *GridController) SaveNew(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}

	var dto saveBookmarkDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	created, err := session.SaveNew(r.Context(), dto.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, created)
}

func (c *GridController) SaveActive(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}
	if err := session.SaveActive(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

func bookmarkID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "malformed bookmark id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *GridController) Select(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}
	if !session.Select(id) {
		// Selecting the active bookmark is a no-op, not an error.
		if active, ok := session.Active(); !ok || active.ID != id {
			_ = httpapi.WriteNotFound(w, "bookmark not found")
			return
		}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

func (c *GridController) Rename(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}
	var dto saveBookmarkDTO
	if !decodeJSON(w, r, &dto) {
		return
	}
	if err := session.Rename(r.Context(), id, dto.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

func (c *GridController) Delete(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}
	if err := session.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}

func (c *GridController) SetDefault(w http.ResponseWriter, r *http.Request) {
	session, _, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}
	if err := session.SetDefault(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.stateView(session))
}
