package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/services"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
)

type ExportController struct {
	app      application.Application
	sessions *services.GridSessionService
	exports  *services.ExportService
	basePath string
}

func NewExportController(app application.Application) application.Controller {
	return &ExportController{
		app:      app,
		sessions: app.Service(services.GridSessionService{}).(*services.GridSessionService),
		exports:  app.Service(services.ExportService{}).(*services.ExportService),
		basePath: "/api/export",
	}
}

func (c *ExportController) Key() string {
	return c.basePath
}

func (c *ExportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/fixtures", c.Export).Methods(http.MethodGet)
}

// Export renders the caller's current view, filters and sort applied, as a
// downloadable file.
func (c *ExportController) Export(w http.ResponseWriter, r *http.Request) {
	userID, err := composables.UseUserID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	orgID, err := composables.UseOrganizationID(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	session, err := c.sessions.Session(r.Context(), userID, orgID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	format := services.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = services.FormatExcel
	}

	result, err := c.exports.Export(r.Context(), orgID, session.Request(), session.Table(), format)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}
