package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/services"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/httpapi"
)

type FixturesController struct {
	app      application.Application
	queries  *services.FixtureQueryService
	counts   *services.CountService
	facets   *services.FacetService
	basePath string
}

func NewFixturesController(app application.Application) application.Controller {
	return &FixturesController{
		app:      app,
		queries:  app.Service(services.FixtureQueryService{}).(*services.FixtureQueryService),
		counts:   app.Service(services.CountService{}).(*services.CountService),
		facets:   app.Service(services.FacetService{}).(*services.FacetService),
		basePath: "/api/fixtures",
	}
}

func (c *FixturesController) Key() string {
	return c.basePath
}

func (c *FixturesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/counts", c.Counts).Methods(http.MethodGet)
	router.HandleFunc("/facets", c.Facets).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
}

func (c *FixturesController) organization(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orgID, err := composables.UseOrganizationID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return uuid.Nil, false
	}
	return orgID, true
}

func (c *FixturesController) Counts(w http.ResponseWriter, r *http.Request) {
	orgID, ok := c.organization(w, r)
	if !ok {
		return
	}
	counts, err := c.counts.Counts(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, counts)
}

// Facets serves either the full option sets or, given facet and q, a fuzzy
// ranked subset of one facet.
func (c *FixturesController) Facets(w http.ResponseWriter, r *http.Request) {
	orgID, ok := c.organization(w, r)
	if !ok {
		return
	}

	facetID := r.URL.Query().Get("facet")
	if facetID != "" {
		matches, err := c.facets.SearchOptions(r.Context(), orgID, facetID, r.URL.Query().Get("q"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = httpapi.WriteJSON(w, http.StatusOK, map[string][]string{"options": matches})
		return
	}

	options, err := c.facets.Facets(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, options)
}

func (c *FixturesController) GetByID(w http.ResponseWriter, r *http.Request) {
	orgID, ok := c.organization(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "malformed fixture id", nil)
		return
	}

	f, err := c.queries.GetByID(r.Context(), orgID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, f)
}
